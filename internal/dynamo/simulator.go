package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d entries, system wants %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	if cfg.Adaptive {
		// Variable grid: the step count is not known up front, so loop
		// on time until the remaining interval is a rounding artifact.
		for cfg.Duration-t > 1e-9*cfg.Dt {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}

			for _, m := range s.metrics {
				m.Observe(x, t)
			}
			for _, obs := range s.observers {
				obs.OnStep(x, t)
			}

			attempt := math.Min(dt, cfg.Duration-t)
			newX, used, next, stepErr := s.adaptiveStep(x, t, attempt, cfg)
			if stepErr != nil {
				return result, &StepError{Step: result.StepsTaken, Time: t, State: x, Wrapped: stepErr}
			}
			if cfg.ValidateState && !newX.IsValid() {
				return result, &StepError{Step: result.StepsTaken, Time: t, State: newX, Wrapped: ErrInvalidState}
			}

			x = newX
			t += used
			dt = next
			result.StepsTaken++

			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	} else {
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}

			for _, m := range s.metrics {
				m.Observe(x, t)
			}
			for _, obs := range s.observers {
				obs.OnStep(x, t)
			}

			newX, stepErr := s.integrator.Step(s.dyn, x, t, dt)
			if stepErr != nil {
				return result, &StepError{Step: i, Time: t, State: x, Wrapped: stepErr}
			}
			if cfg.ValidateState && !newX.IsValid() {
				return result, &StepError{Step: i, Time: t, State: newX, Wrapped: ErrInvalidState}
			}

			x = newX
			t += dt
			result.StepsTaken++

			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

// adaptiveStep advances x by one accepted step. It returns the new state,
// the dt actually applied to reach it, and the clamped suggestion for the
// next step. The two dts differ whenever the integrator asks for a larger
// or smaller step than the one it just took.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, suggested, err := adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, dt, dt, err
		}
		return newX, dt, clampDt(suggested, cfg), nil
	}

	// Step doubling for integrators without embedded error estimates.
	x1, err := s.integrator.Step(s.dyn, x, t, dt)
	if err != nil {
		return nil, dt, dt, err
	}
	xHalf, err := s.integrator.Step(s.dyn, x, t, dt/2)
	if err != nil {
		return nil, dt, dt, err
	}
	x2, err := s.integrator.Step(s.dyn, xHalf, t+dt/2, dt/2)
	if err != nil {
		return nil, dt, dt, err
	}

	stepErr := x1.Sub(x2).Norm()

	if stepErr > cfg.Tolerance && dt > cfg.MinDt {
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	next := dt
	if stepErr < cfg.Tolerance/10 {
		next = dt * 2
	}
	return x2, dt, clampDt(next, cfg), nil
}

func clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		dt = cfg.MaxDt
	}
	if cfg.MinDt > 0 && dt < cfg.MinDt {
		dt = cfg.MinDt
	}
	return dt
}

func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		newX, err := s.integrator.Step(s.dyn, x, t, dt)
		if err != nil {
			return err
		}
		x = newX
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
