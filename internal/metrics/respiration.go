package metrics

import "github.com/san-kum/carbosim/internal/dynamo"

// MeanRespiration reports the average respiration rate over the observed
// window: the rise in cumulative CO2 divided by elapsed time.
type MeanRespiration struct {
	name           string
	firstT, firstC float64
	lastT, lastC   float64
	samples        int
}

func NewMeanRespiration() *MeanRespiration {
	return &MeanRespiration{name: "mean_respiration"}
}

func (m *MeanRespiration) Name() string { return m.name }

func (m *MeanRespiration) Observe(x dynamo.State, t float64) {
	if m.samples == 0 {
		m.firstT, m.firstC = t, x[0]
	}
	m.lastT, m.lastC = t, x[0]
	m.samples++
}

func (m *MeanRespiration) Value() float64 {
	if m.samples < 2 || m.lastT == m.firstT {
		return 0
	}
	return (m.lastC - m.firstC) / (m.lastT - m.firstT)
}

func (m *MeanRespiration) Reset() {
	m.firstT, m.firstC = 0, 0
	m.lastT, m.lastC = 0, 0
	m.samples = 0
}
