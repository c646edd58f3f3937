package metrics

import "github.com/san-kum/carbosim/internal/dynamo"

// TotalCarbon reports the pool carbon (state entries after the cumulative
// CO2 slot) at the last observed step.
type TotalCarbon struct {
	name string
	last float64
	seen bool
}

func NewTotalCarbon() *TotalCarbon {
	return &TotalCarbon{name: "total_carbon"}
}

func (m *TotalCarbon) Name() string { return m.name }

func (m *TotalCarbon) Observe(x dynamo.State, t float64) {
	sum := 0.0
	for _, v := range x[1:] {
		sum += v
	}
	m.last = sum
	m.seen = true
}

func (m *TotalCarbon) Value() float64 {
	if !m.seen {
		return 0
	}
	return m.last
}

func (m *TotalCarbon) Reset() {
	m.last = 0
	m.seen = false
}
