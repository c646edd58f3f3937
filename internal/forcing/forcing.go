// Package forcing provides carbon-input functions for simulation scenarios.
//
// A Forcing is a pure function of time: it holds no internal state and is
// safe to evaluate at arbitrary, repeated, or non-monotonic time points,
// which adaptive integrators require.
package forcing

import "fmt"

type Forcing interface {
	// Rate returns the carbon input flux at time t.
	Rate(t float64) float64

	// Mean returns the long-run average input, used to seed equilibrium
	// states. For a step forcing this is the pre-shift baseline.
	Mean() float64

	Name() string
}

// IsStatic reports whether f is a constant forcing. The one-pool mass
// balance check only applies to a nonzero static input.
func IsStatic(f Forcing) bool {
	_, ok := f.(*Constant)
	return ok
}

func validatePositive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("forcing: %s must be positive, got %g", name, v)
	}
	return nil
}
