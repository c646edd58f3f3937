package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/carbosim/internal/dynamo"
)

func TestTotalCarbon(t *testing.T) {
	m := NewTotalCarbon()
	if m.Value() != 0 {
		t.Errorf("value before any observation = %g, want 0", m.Value())
	}

	m.Observe(dynamo.State{5, 1, 2, 3}, 0)
	m.Observe(dynamo.State{6, 2, 4, 6}, 1)
	if m.Value() != 12 {
		t.Errorf("value = %g, want 12 (last total, CO2 excluded)", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("value after reset = %g, want 0", m.Value())
	}
}

func TestMeanRespiration(t *testing.T) {
	m := NewMeanRespiration()
	if m.Value() != 0 {
		t.Errorf("value with no samples = %g, want 0", m.Value())
	}

	m.Observe(dynamo.State{0, 10}, 0)
	if m.Value() != 0 {
		t.Errorf("value with one sample = %g, want 0", m.Value())
	}

	m.Observe(dynamo.State{1.3, 9}, 5)
	if want := 1.3 / 5; math.Abs(m.Value()-want) > 1e-15 {
		t.Errorf("value = %g, want %g", m.Value(), want)
	}

	m.Observe(dynamo.State{2.6, 8}, 10)
	if want := 2.6 / 10; math.Abs(m.Value()-want) > 1e-15 {
		t.Errorf("value = %g, want %g", m.Value(), want)
	}
}

// balanced conserves mass exactly; skewed leaks a fixed amount.
type balanced struct{ u float64 }

func (b balanced) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	decay := x[1] / 2
	return dynamo.State{decay, b.u - decay}, nil
}

func (b balanced) StateDim() int               { return 2 }
func (b balanced) InputRate(t float64) float64 { return b.u }

type skewed struct{ leak float64 }

func (s skewed) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	return dynamo.State{0.5, 0.5 - s.leak}, nil
}

func (s skewed) StateDim() int               { return 2 }
func (s skewed) InputRate(t float64) float64 { return 1 }

func TestMassBalanceDrift(t *testing.T) {
	m := NewMassBalanceDrift(balanced{u: 1})
	m.Observe(dynamo.State{0, 4}, 0)
	m.Observe(dynamo.State{1, 3}, 1)
	if m.Value() > 1e-15 {
		t.Errorf("drift on a conserving model = %g, want 0", m.Value())
	}

	m = NewMassBalanceDrift(skewed{leak: 0.1})
	m.Observe(dynamo.State{0, 0}, 0)
	if want := 0.1; math.Abs(m.Value()-want) > 1e-15 {
		t.Errorf("drift = %g, want %g", m.Value(), want)
	}

	// the worst residual sticks even after better observations
	m.Observe(dynamo.State{0, 0}, 1)
	if math.Abs(m.Value()-0.1) > 1e-15 {
		t.Errorf("drift after second observation = %g, want 0.1", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("drift after reset = %g, want 0", m.Value())
	}
}
