package carbon

import "fmt"

// MissingParameterError reports a required named parameter absent from a
// parameter set. Parameter sets are fully determined before a run starts,
// so this is always fatal.
type MissingParameterError struct {
	Key string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("carbon: missing parameter %q", e.Key)
}

// ConservationViolationError reports a derivative evaluation whose mass
// balance residual against the input flux exceeded tolerance. The check is
// a self-consistency assertion on the derivative computation; a failure
// means a floating-point or parameter-corruption bug, not a modeling error.
type ConservationViolationError struct {
	Time     float64
	Input    float64
	Residual float64
	Tol      float64
}

func (e *ConservationViolationError) Error() string {
	return fmt.Sprintf("carbon: mass balance violated at t=%g: relative residual %.3e exceeds %.3e (input %g)",
		e.Time, e.Residual, e.Tol, e.Input)
}

// SingularSystemError reports a steady-state or aggregation solve on a
// numerically degenerate transfer system, typically transfer fractions
// making a column sum reach 1.
type SingularSystemError struct {
	Detail string
	Err    error
}

func (e *SingularSystemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("carbon: singular transfer system (%s): %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("carbon: singular transfer system (%s)", e.Detail)
}

func (e *SingularSystemError) Unwrap() error { return e.Err }
