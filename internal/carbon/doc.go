// Package carbon implements first-order linear-decay compartment models of
// soil organic carbon.
//
// An n-pool model is the linear system
//
//	dC/dt = u(t)*b - A*K*C
//
// where K is the diagonal decay matrix (inverse turnover times), A the
// transfer matrix routing decayed carbon between pools, and b the
// allocation of external input. Cumulative respiration is carried as the
// first state entry, so the full state is [co2, pool_1..pool_n].
//
// The package also provides the steady-state solve (A*K)C = u*b and the
// aggregate reduction of an n-pool system to a single proxy turnover time
// that preserves total steady-state carbon.
//
// Models are immutable once constructed: matrices are built and validated
// in the constructor, and Derive is pure.
package carbon
