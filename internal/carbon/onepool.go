package carbon

import (
	"fmt"
	"math"

	"github.com/san-kum/carbosim/internal/dynamo"
	"github.com/san-kum/carbosim/internal/forcing"
)

// DefaultConservationTol is the relative tolerance for the mass balance
// self-check. The check is an assertion on the derivative computation, so
// a run may tighten or relax it per scenario.
const DefaultConservationTol = 1e-8

type OnePoolConfig struct {
	TurnoverTime    float64
	Forcing         forcing.Forcing
	ConservationTol float64
}

func (c OnePoolConfig) validate() error {
	if c.TurnoverTime <= 0 {
		return fmt.Errorf("carbon: one-pool turnover time must be positive, got %g", c.TurnoverTime)
	}
	if c.Forcing == nil {
		return &MissingParameterError{Key: "forcing"}
	}
	if c.ConservationTol < 0 {
		return fmt.Errorf("carbon: conservation tolerance must be nonnegative, got %g", c.ConservationTol)
	}
	return nil
}

// OnePool is the reduced model: a single soil compartment with first-order
// decay. State layout is [co2, soil], with co2 the cumulative respiration.
type OnePool struct {
	tau   float64
	force forcing.Forcing
	tol   float64

	// The balance check only applies to a nonzero static input; with an
	// arbitrary time-varying forcing it is skipped.
	checkBalance bool
}

func NewOnePool(cfg OnePoolConfig) (*OnePool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	tol := cfg.ConservationTol
	if tol == 0 {
		tol = DefaultConservationTol
	}
	return &OnePool{
		tau:          cfg.TurnoverTime,
		force:        cfg.Forcing,
		tol:          tol,
		checkBalance: forcing.IsStatic(cfg.Forcing) && cfg.Forcing.Mean() != 0,
	}, nil
}

// OnePoolFromParams builds the model from a flat parameter set. If f is
// nil, the "input_rate" parameter supplies a constant forcing.
func OnePoolFromParams(ps ParamSet, f forcing.Forcing) (*OnePool, error) {
	tau, err := ps.Get("turnover_time")
	if err != nil {
		return nil, err
	}
	if f == nil {
		u, err := ps.Get("input_rate")
		if err != nil {
			return nil, err
		}
		if f, err = forcing.NewConstant(u); err != nil {
			return nil, err
		}
	}
	tol := ps["conservation_tol"]
	return NewOnePool(OnePoolConfig{TurnoverTime: tau, Forcing: f, ConservationTol: tol})
}

func (p *OnePool) StateDim() int            { return 2 }
func (p *OnePool) StateNames() []string     { return []string{"co2", "soil"} }
func (p *OnePool) TurnoverTime() float64    { return p.tau }
func (p *OnePool) Forcing() forcing.Forcing { return p.force }

func (p *OnePool) InputRate(t float64) float64 { return p.force.Rate(t) }

func (p *OnePool) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if len(x) != 2 {
		return nil, fmt.Errorf("carbon: one-pool state needs 2 entries, got %d", len(x))
	}
	u := p.force.Rate(t)
	decay := x[1] / p.tau
	dx := dynamo.State{decay, u - decay}

	if p.checkBalance {
		residual := math.Abs(u-(dx[0]+dx[1])) / math.Abs(u)
		if residual > p.tol {
			return nil, &ConservationViolationError{Time: t, Input: u, Residual: residual, Tol: p.tol}
		}
	}
	return dx, nil
}

// EquilibriumState returns [0, u*tau], the steady state under a constant
// input u with no respiration history. The error is always nil; the
// signature matches MultiPool so drivers can treat both uniformly.
func (p *OnePool) EquilibriumState(u float64) (dynamo.State, error) {
	return dynamo.State{0, u * p.tau}, nil
}

// Total returns the pool carbon in a state (excluding cumulative CO2).
func (p *OnePool) Total(x dynamo.State) float64 { return x[1] }
