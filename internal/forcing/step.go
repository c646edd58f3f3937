package forcing

import "fmt"

// Step models a regime shift: baseline input before the cutoff time,
// baseline scaled by Factor from the cutoff on.
type Step struct {
	Baseline float64
	Cutoff   float64
	Factor   float64
}

func NewStep(baseline, cutoff, factor float64) (*Step, error) {
	if baseline < 0 {
		return nil, fmt.Errorf("forcing: step baseline must be nonnegative, got %g", baseline)
	}
	if factor < 0 {
		return nil, fmt.Errorf("forcing: step factor must be nonnegative, got %g", factor)
	}
	return &Step{Baseline: baseline, Cutoff: cutoff, Factor: factor}, nil
}

func (s *Step) Rate(t float64) float64 {
	if t < s.Cutoff {
		return s.Baseline
	}
	return s.Baseline * s.Factor
}

// Mean returns the pre-shift baseline; equilibrium seeding uses the regime
// the system was in before the shift.
func (s *Step) Mean() float64 { return s.Baseline }
func (s *Step) Name() string  { return "step" }
