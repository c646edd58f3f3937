package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/carbosim/internal/dynamo"
)

// decaySystem is dx/dt = -k*x with the analytic solution x0*exp(-k*t).
type decaySystem struct {
	k float64
}

func (d *decaySystem) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	dx := make(dynamo.State, len(x))
	for i := range x {
		dx[i] = -d.k * x[i]
	}
	return dx, nil
}

func (d *decaySystem) StateDim() int { return 1 }

// failingSystem errors once t crosses a threshold.
type failingSystem struct {
	after float64
}

var errBoom = errors.New("derivative blew up")

func (f *failingSystem) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if t >= f.after {
		return nil, errBoom
	}
	return dynamo.State{0}, nil
}

func (f *failingSystem) StateDim() int { return 1 }

func integrate(t *testing.T, integ dynamo.Integrator, sys dynamo.System, x0 dynamo.State, dt float64, steps int) dynamo.State {
	t.Helper()
	x := x0.Clone()
	for i := 0; i < steps; i++ {
		next, err := integ.Step(sys, x, float64(i)*dt, dt)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		x = next
	}
	return x
}

func TestIntegratorAccuracy(t *testing.T) {
	sys := &decaySystem{k: 1}
	x0 := dynamo.State{1}
	dt := 0.01
	steps := 100 // t = 1
	want := math.Exp(-1)

	tests := []struct {
		name   string
		integ  dynamo.Integrator
		maxErr float64
	}{
		{"euler", NewEuler(), 2e-3},
		{"rk4", NewRK4(), 1e-9},
		{"rk45", NewRK45(), 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := integrate(t, tt.integ, sys, x0, dt, steps)
			if got := math.Abs(x[0] - want); got > tt.maxErr {
				t.Errorf("error after 100 steps = %g, want below %g", got, tt.maxErr)
			}
		})
	}
}

func TestEulerConvergenceOrder(t *testing.T) {
	// halving dt should roughly halve the global error
	sys := &decaySystem{k: 1}
	want := math.Exp(-1)

	coarse := integrate(t, NewEuler(), sys, dynamo.State{1}, 0.02, 50)
	fine := integrate(t, NewEuler(), sys, dynamo.State{1}, 0.01, 100)

	errCoarse := math.Abs(coarse[0] - want)
	errFine := math.Abs(fine[0] - want)
	if ratio := errCoarse / errFine; ratio < 1.5 || ratio > 2.5 {
		t.Errorf("error ratio %g, want ~2 for a first-order method", ratio)
	}
}

func TestRK4ReusesScratch(t *testing.T) {
	// repeated steps at the same dimension must not interfere
	sys := &decaySystem{k: 0.5}
	integ := NewRK4()

	x := dynamo.State{2, 4}
	a, err := integ.Step(sys, x, 0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := integ.Step(sys, x, 0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("component %d differs across identical steps: %g vs %g", i, a[i], b[i])
		}
	}
	if x[0] != 2 || x[1] != 4 {
		t.Errorf("input state mutated: %v", x)
	}
}

func TestRK45StepAdaptive(t *testing.T) {
	sys := &decaySystem{k: 1}
	integ := NewRK45()

	x, dtNew, err := integ.StepAdaptive(sys, dynamo.State{1}, 0, 0.1, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	if want := math.Exp(-0.1); math.Abs(x[0]-want) > 1e-8 {
		t.Errorf("state after one step = %g, want %g", x[0], want)
	}
	if dtNew <= 0 {
		t.Errorf("suggested step not positive: %g", dtNew)
	}

	// a smooth decay at loose tolerance earns a larger next step
	_, dtLoose, err := integ.StepAdaptive(sys, dynamo.State{1}, 0, 0.01, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if dtLoose <= 0.01 {
		t.Errorf("loose tolerance did not grow the step: %g", dtLoose)
	}
}

func TestStepErrorPropagation(t *testing.T) {
	sys := &failingSystem{after: 0.05}

	integs := []struct {
		name  string
		integ dynamo.Integrator
	}{
		{"euler", NewEuler()},
		{"rk4", NewRK4()},
		{"rk45", NewRK45()},
	}
	for _, tt := range integs {
		t.Run(tt.name, func(t *testing.T) {
			// the failure time sits inside the step, so any method
			// evaluating intermediate stages must surface it
			_, err := tt.integ.Step(sys, dynamo.State{0}, 0, 0.1)
			if tt.name == "euler" {
				// euler only samples the left endpoint
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, errBoom) {
				t.Fatalf("expected derivative error, got %v", err)
			}
		})
	}
}
