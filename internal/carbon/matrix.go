package carbon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PoolSpec describes one carbon reservoir: its turnover time (the inverse
// of its decay rate) and the fraction of external input allocated to it.
type PoolSpec struct {
	Name         string
	TurnoverTime float64
	Allocation   float64
}

// Transfer routes a fraction of the carbon decaying out of From into To
// instead of being respired.
type Transfer struct {
	From     string
	To       string
	Fraction float64
}

// Matrices holds the linear system of an n-pool model:
//
//	K:  diagonal decay matrix, K[i][i] = 1/tau_i
//	A:  transfer matrix, diagonal 1, A[i][j] = -frac(j->i) for i != j
//	B:  allocation vector, nonnegative, summing to 1
//
// AK caches the product A*K, which is invariant for the life of the model
// and reused by every derivative evaluation and solve.
type Matrices struct {
	Names []string
	K     *mat.Dense
	A     *mat.Dense
	B     *mat.VecDense
	AK    *mat.Dense
}

func (m *Matrices) Dim() int { return len(m.Names) }

// Build constructs and validates the decay matrix, transfer matrix, and
// allocation vector from pool and transfer specs. Pure construction, no
// side effects.
func Build(pools []PoolSpec, transfers []Transfer) (*Matrices, error) {
	n := len(pools)
	if n < 1 {
		return nil, fmt.Errorf("carbon: at least one pool required")
	}

	index := make(map[string]int, n)
	names := make([]string, n)
	allocSum := 0.0
	k := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	for i, p := range pools {
		if p.Name == "" {
			return nil, fmt.Errorf("carbon: pool %d has no name", i)
		}
		if _, dup := index[p.Name]; dup {
			return nil, fmt.Errorf("carbon: duplicate pool %q", p.Name)
		}
		if p.TurnoverTime <= 0 {
			return nil, fmt.Errorf("carbon: pool %q turnover time must be positive, got %g", p.Name, p.TurnoverTime)
		}
		if p.Allocation < 0 {
			return nil, fmt.Errorf("carbon: pool %q allocation must be nonnegative, got %g", p.Name, p.Allocation)
		}
		index[p.Name] = i
		names[i] = p.Name
		allocSum += p.Allocation
		k.Set(i, i, 1/p.TurnoverTime)
		b.SetVec(i, p.Allocation)
	}

	if math.Abs(allocSum-1) > 1e-9 {
		return nil, fmt.Errorf("carbon: allocation fractions sum to %g, want 1", allocSum)
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
	}

	outgoing := make([]float64, n)
	for _, tr := range transfers {
		from, ok := index[tr.From]
		if !ok {
			return nil, fmt.Errorf("carbon: transfer from unknown pool %q", tr.From)
		}
		to, ok := index[tr.To]
		if !ok {
			return nil, fmt.Errorf("carbon: transfer to unknown pool %q", tr.To)
		}
		if from == to {
			return nil, fmt.Errorf("carbon: pool %q transfers to itself", tr.From)
		}
		if tr.Fraction < 0 || tr.Fraction > 1 {
			return nil, fmt.Errorf("carbon: transfer %s->%s fraction %g outside [0,1]", tr.From, tr.To, tr.Fraction)
		}
		outgoing[from] += tr.Fraction
		a.Set(to, from, a.At(to, from)-tr.Fraction)
	}

	for i, sum := range outgoing {
		// The remainder 1-sum is the respired fraction; a sum above 1
		// would create carbon out of nothing.
		if sum > 1 {
			return nil, fmt.Errorf("carbon: transfers out of pool %q sum to %g, want <= 1", names[i], sum)
		}
	}

	ak := mat.NewDense(n, n, nil)
	ak.Mul(a, k)

	return &Matrices{Names: names, K: k, A: a, B: b, AK: ak}, nil
}

// FivePoolFromParams assembles pool and transfer specs for the five-pool
// model from a flat parameter set. Every turnover time, allocation
// fraction, and ordered pool-pair transfer fraction must be present.
func FivePoolFromParams(ps ParamSet) ([]PoolSpec, []Transfer, error) {
	pools := make([]PoolSpec, 0, len(FivePoolNames))
	for _, name := range FivePoolNames {
		tau, err := ps.Get(TurnoverKey(name))
		if err != nil {
			return nil, nil, err
		}
		alloc, err := ps.Get(AllocationKey(name))
		if err != nil {
			return nil, nil, err
		}
		pools = append(pools, PoolSpec{Name: name, TurnoverTime: tau, Allocation: alloc})
	}

	transfers := make([]Transfer, 0, len(FivePoolNames)*(len(FivePoolNames)-1))
	for _, from := range FivePoolNames {
		for _, to := range FivePoolNames {
			if from == to {
				continue
			}
			frac, err := ps.Get(TransferKey(from, to))
			if err != nil {
				return nil, nil, err
			}
			if frac == 0 {
				continue
			}
			transfers = append(transfers, Transfer{From: from, To: to, Fraction: frac})
		}
	}
	return pools, transfers, nil
}
