package carbon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/carbosim/internal/dynamo"
	"github.com/san-kum/carbosim/internal/forcing"
)

type MultiPoolConfig struct {
	Pools           []PoolSpec
	Transfers       []Transfer
	Forcing         forcing.Forcing
	ConservationTol float64
}

// MultiPool is the full n-pool model. State layout is
// [co2, pool_1, ..., pool_n] in the pool order given at construction.
// The matrices are built once here and reused by every Derive call; a
// 5x5 rebuild inside the integrator's inner loop would dominate the run.
type MultiPool struct {
	m     *Matrices
	force forcing.Forcing
	tol   float64
	names []string
}

func NewMultiPool(cfg MultiPoolConfig) (*MultiPool, error) {
	if cfg.Forcing == nil {
		return nil, &MissingParameterError{Key: "forcing"}
	}
	if cfg.ConservationTol < 0 {
		return nil, fmt.Errorf("carbon: conservation tolerance must be nonnegative, got %g", cfg.ConservationTol)
	}
	m, err := Build(cfg.Pools, cfg.Transfers)
	if err != nil {
		return nil, err
	}
	tol := cfg.ConservationTol
	if tol == 0 {
		tol = DefaultConservationTol
	}
	names := append([]string{"co2"}, m.Names...)
	return &MultiPool{m: m, force: cfg.Forcing, tol: tol, names: names}, nil
}

// NewFivePool builds the five-pool model from a flat parameter set. If f
// is nil, the "input_rate" parameter supplies a constant forcing.
func NewFivePool(ps ParamSet, f forcing.Forcing) (*MultiPool, error) {
	pools, transfers, err := FivePoolFromParams(ps)
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
	return NewMultiPool(MultiPoolConfig{
		Pools:           pools,
		Transfers:       transfers,
		Forcing:         f,
		ConservationTol: ps["conservation_tol"],
	})
}

func (p *MultiPool) StateDim() int            { return 1 + p.m.Dim() }
func (p *MultiPool) StateNames() []string     { return p.names }
func (p *MultiPool) PoolNames() []string      { return p.m.Names }
func (p *MultiPool) Matrices() *Matrices      { return p.m }
func (p *MultiPool) Forcing() forcing.Forcing { return p.force }

func (p *MultiPool) InputRate(t float64) float64 { return p.force.Rate(t) }

func (p *MultiPool) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	n := p.m.Dim()
	if len(x) != n+1 {
		return nil, fmt.Errorf("carbon: %d-pool state needs %d entries, got %d", n, n+1, len(x))
	}

	u := p.force.Rate(t)

	pools := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		pools.SetVec(i, x[1+i])
	}

	// flux_i is the net outflow of pool i after inter-pool redirection;
	// its sum is what leaves the system as CO2.
	var flux mat.VecDense
	flux.MulVec(p.m.AK, pools)

	dx := make(dynamo.State, n+1)
	sum := 0.0
	for i := 0; i < n; i++ {
		f := flux.AtVec(i)
		dx[1+i] = u*p.m.B.AtVec(i) - f
		sum += f
	}
	dx[0] = sum

	if u != 0 {
		balance := dx[0]
		for i := 0; i < n; i++ {
			balance += dx[1+i]
		}
		residual := math.Abs(u-balance) / math.Abs(u)
		if residual > p.tol {
			return nil, &ConservationViolationError{Time: t, Input: u, Residual: residual, Tol: p.tol}
		}
	}
	return dx, nil
}

// EquilibriumState returns [0, C_1..C_n] with C the steady-state pool
// vector under a constant input u.
func (p *MultiPool) EquilibriumState(u float64) (dynamo.State, error) {
	c, err := SteadyState(p.m, u)
	if err != nil {
		return nil, err
	}
	x := make(dynamo.State, 1+len(c))
	copy(x[1:], c)
	return x, nil
}

// ProxyConfig reduces the model to a one-pool configuration preserving
// total steady-state carbon under the same forcing.
func (p *MultiPool) ProxyConfig() (OnePoolConfig, error) {
	tau, err := ProxyTurnover(p.m)
	if err != nil {
		return OnePoolConfig{}, err
	}
	return OnePoolConfig{TurnoverTime: tau, Forcing: p.force, ConservationTol: p.tol}, nil
}

// Total returns the pool carbon in a state (excluding cumulative CO2).
func (p *MultiPool) Total(x dynamo.State) float64 {
	sum := 0.0
	for _, v := range x[1:] {
		sum += v
	}
	return sum
}
