package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/carbosim/internal/carbon"
)

// Comparison pits the full five-pool model against its one-pool proxy over
// the same forcing and time grid. Both start from the full model's
// equilibrium total, so any divergence is structural, not an artifact of
// the seed.
type Comparison struct {
	Times      []float64
	FullTotal  []float64
	ProxyTotal []float64

	ProxyTau   float64
	MaxAbsDiff float64
	RMSDiff    float64
	FinalFull  float64
	FinalProxy float64

	Full  *Outcome
	Proxy *Outcome
}

// Compare runs the five-pool model configured by cfg and the one-pool
// proxy derived from it. cfg.Model is ignored; the comparison always owns
// the model choice.
func Compare(ctx context.Context, cfg Config) (*Comparison, error) {
	fullCfg := cfg
	fullCfg.Model = "fivepool"
	if fullCfg.Name == "" {
		fullCfg.Name = "proxy-vs-full"
	}

	full, err := Execute(ctx, fullCfg)
	if err != nil {
		return nil, err
	}

	mp := full.Model.(*carbon.MultiPool)
	proxyModel, err := mp.ProxyConfig()
	if err != nil {
		return nil, err
	}

	proxyCfg := cfg
	proxyCfg.Model = "onepool"
	proxyCfg.Name = fullCfg.Name + "/proxy"
	proxyCfg.TurnoverTime = proxyModel.TurnoverTime
	if proxyCfg.InitPools == nil {
		// Seed the proxy at the full model's equilibrium total so the
		// two start from identical total carbon.
		eq, err := mp.EquilibriumState(cfg.Forcing.Mean())
		if err != nil {
			return nil, err
		}
		proxyCfg.InitPools = []float64{mp.Total(eq)}
	}

	proxy, err := Execute(ctx, proxyCfg)
	if err != nil {
		return nil, err
	}

	return summarize(full, proxy, proxyModel.TurnoverTime)
}

func summarize(full, proxy *Outcome, proxyTau float64) (*Comparison, error) {
	if full.Trajectory.Len() != proxy.Trajectory.Len() {
		return nil, fmt.Errorf("scenario: comparison grids differ: %d vs %d rows",
			full.Trajectory.Len(), proxy.Trajectory.Len())
	}

	c := &Comparison{
		Times:      full.Trajectory.Column("time"),
		FullTotal:  full.Trajectory.Column("total"),
		ProxyTotal: proxy.Trajectory.Column("total"),
		ProxyTau:   proxyTau,
		Full:       full,
		Proxy:      proxy,
	}

	sumSq := 0.0
	for i := range c.Times {
		d := math.Abs(c.FullTotal[i] - c.ProxyTotal[i])
		if d > c.MaxAbsDiff {
			c.MaxAbsDiff = d
		}
		sumSq += d * d
	}
	c.RMSDiff = math.Sqrt(sumSq / float64(len(c.Times)))
	c.FinalFull = c.FullTotal[len(c.FullTotal)-1]
	c.FinalProxy = c.ProxyTotal[len(c.ProxyTotal)-1]
	return c, nil
}

// SteadyTotals reports the algebraic check behind the proxy reduction:
// the summed steady-state pools of the full model against u*tau_proxy.
func SteadyTotals(ps carbon.ParamSet, u float64) (full, proxy float64, err error) {
	pools, transfers, err := carbon.FivePoolFromParams(ps)
	if err != nil {
		return 0, 0, err
	}
	m, err := carbon.Build(pools, transfers)
	if err != nil {
		return 0, 0, err
	}
	ss, err := carbon.SteadyState(m, u)
	if err != nil {
		return 0, 0, err
	}
	for _, v := range ss {
		full += v
	}
	tau, err := carbon.ProxyTurnover(m)
	if err != nil {
		return 0, 0, err
	}
	return full, u * tau, nil
}

// ensure both models satisfy the Model interface
var (
	_ Model = (*carbon.OnePool)(nil)
	_ Model = (*carbon.MultiPool)(nil)
)
