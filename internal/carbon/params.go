package carbon

import "fmt"

// ParamSet is a flat mapping of named numeric parameters, the shape an
// external tabular loader produces (one row of values, column headers as
// keys). Typed model configs are built from it and validated once, at
// construction.
type ParamSet map[string]float64

// Get returns the named parameter or a MissingParameterError.
func (p ParamSet) Get(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, &MissingParameterError{Key: key}
	}
	return v, nil
}

// FivePoolNames is the fixed pool order used throughout: ascending
// turnover time, index-for-index with matrix rows and columns.
var FivePoolNames = []string{"metabolic", "structural", "fast", "slow", "passive"}

func TurnoverKey(pool string) string   { return "tau_" + pool }
func AllocationKey(pool string) string { return "alloc_" + pool }
func TransferKey(from, to string) string {
	return fmt.Sprintf("%s_to_%s", from, to)
}

// DefaultFivePoolParams is a reference parameterization: external input
// split between the two litter pools, decayed carbon cascading toward the
// slower pools with a partial return flow from slow and passive.
func DefaultFivePoolParams() ParamSet {
	ps := ParamSet{
		"tau_metabolic":  0.5,
		"tau_structural": 3,
		"tau_fast":       10,
		"tau_slow":       50,
		"tau_passive":    400,

		"alloc_metabolic":  0.6,
		"alloc_structural": 0.4,
		"alloc_fast":       0,
		"alloc_slow":       0,
		"alloc_passive":    0,

		"input_rate": 1.0,
	}
	// Every ordered pool pair carries an explicit transfer fraction;
	// unconnected pairs are zero.
	for _, from := range FivePoolNames {
		for _, to := range FivePoolNames {
			if from == to {
				continue
			}
			ps[TransferKey(from, to)] = 0
		}
	}
	ps["metabolic_to_fast"] = 0.45
	ps["structural_to_fast"] = 0.35
	ps["structural_to_slow"] = 0.25
	ps["fast_to_slow"] = 0.25
	ps["fast_to_passive"] = 0.04
	ps["slow_to_fast"] = 0.30
	ps["slow_to_passive"] = 0.05
	ps["passive_to_fast"] = 0.20
	return ps
}
