package carbon

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SteadyState solves (A*K)*C = u*b for the equilibrium pool vector under a
// constant input rate u. A linear solve, not an explicit inverse: the
// inverse matrix itself is never needed, and the solve is better
// conditioned. A*K is invertible whenever the transfer columns sum below 1;
// that precondition is validated at Build time, so a failure here means the
// system is numerically degenerate.
func SteadyState(m *Matrices, u float64) ([]float64, error) {
	n := m.Dim()
	rhs := mat.NewVecDense(n, nil)
	rhs.ScaleVec(u, m.B)

	var c mat.VecDense
	if err := c.SolveVec(m.AK, rhs); err != nil {
		return nil, &SingularSystemError{
			Detail: fmt.Sprintf("steady state, pools %v, input %g", m.Names, u),
			Err:    err,
		}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = c.AtVec(i)
	}
	return out, nil
}

// ProxyTurnover reduces an n-pool system to the single turnover time of an
// equivalent one-pool model: the entries of (A*K)^-1 * b sum to the total
// steady-state carbon per unit input, which is exactly the aggregate
// residence time of the whole system. A one-pool model with this turnover
// time and the same input reproduces the full model's total steady-state
// carbon.
func ProxyTurnover(m *Matrices) (float64, error) {
	var x mat.VecDense
	if err := x.SolveVec(m.AK, m.B); err != nil {
		return 0, &SingularSystemError{
			Detail: fmt.Sprintf("aggregate reduction, pools %v", m.Names),
			Err:    err,
		}
	}

	tau := 0.0
	for i := 0; i < m.Dim(); i++ {
		tau += x.AtVec(i)
	}
	return tau, nil
}
