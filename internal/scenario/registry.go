package scenario

import (
	"fmt"
	"sort"

	"github.com/san-kum/carbosim/internal/dynamo"
	"github.com/san-kum/carbosim/internal/forcing"
	"github.com/san-kum/carbosim/internal/integrators"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	forcings    map[string]func(params map[string]float64) (forcing.Forcing, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		forcings:    make(map[string]func(map[string]float64) (forcing.Forcing, error)),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.forcings["constant"] = func(params map[string]float64) (forcing.Forcing, error) {
		return forcing.NewConstant(params["rate"])
	}
	r.forcings["seasonal"] = func(params map[string]float64) (forcing.Forcing, error) {
		period := params["period"]
		if period == 0 {
			period = 1 // annual cycle in model time units
		}
		return forcing.NewSeasonal(params["mean"], params["amplitude"], period, params["phase"])
	}
	r.forcings["zero"] = func(params map[string]float64) (forcing.Forcing, error) {
		return forcing.NewZero(), nil
	}
	r.forcings["step"] = func(params map[string]float64) (forcing.Forcing, error) {
		return forcing.NewStep(params["baseline"], params["cutoff"], params["factor"])
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("scenario: unknown integrator %q", name)
	}
	return fn(), nil
}

func (r *Registry) GetForcing(name string, params map[string]float64) (forcing.Forcing, error) {
	fn, ok := r.forcings[name]
	if !ok {
		return nil, fmt.Errorf("scenario: unknown forcing %q", name)
	}
	return fn(params)
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListForcings() []string {
	names := make([]string, 0, len(r.forcings))
	for name := range r.forcings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
