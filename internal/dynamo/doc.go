// Package dynamo provides core simulation primitives for compartment
// dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical integrator interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn, _ := carbon.NewOnePool(cfg)
//	integ := integrators.NewRK4()
//	sim := dynamo.New(dyn, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel scenario runs,
// construct one Simulator per goroutine; System implementations are pure
// and may be shared.
package dynamo
