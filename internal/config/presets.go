package config

import "sort"

// Presets are the named reference scenarios. Time units are years; input
// is mass per area per year.
var Presets = map[string]*Config{
	"incubation": {
		Scenario: "incubation", Model: "onepool", Integrator: "rk4",
		Dt: 0.01, Duration: 30.0,
		Forcing:   ForcingConfig{Type: "zero"},
		OnePool:   OnePoolConfig{TurnoverTime: 15},
		InitPools: []float64{100},
	},
	"spinup": {
		Scenario: "spinup", Model: "onepool", Integrator: "rk4",
		Dt: 0.05, Duration: 120.0,
		Forcing:   ForcingConfig{Type: "constant", Rate: 0.26},
		OnePool:   OnePoolConfig{TurnoverTime: 20},
		InitPools: []float64{0},
	},
	"seasonal": {
		Scenario: "seasonal", Model: "fivepool", Integrator: "rk4",
		Dt: 0.002, Duration: 10.0,
		Forcing: ForcingConfig{Type: "seasonal", Mean: 1.0, Amplitude: 0.8, Period: 1.0},
	},
	"regime-shift": {
		Scenario: "regime-shift", Model: "fivepool", Integrator: "rk4",
		Dt: 0.05, Duration: 200.0,
		Forcing: ForcingConfig{Type: "step", Baseline: 1.0, Cutoff: 50.0, Factor: 0.5},
	},
	"independent": {
		Scenario: "independent", Model: "fivepool", Integrator: "rk4",
		Dt: 0.05, Duration: 100.0,
		Forcing: ForcingConfig{Type: "constant", Rate: 1.0},
		FivePool: map[string]float64{
			"metabolic_to_fast":  0,
			"structural_to_fast": 0,
			"structural_to_slow": 0,
			"fast_to_slow":       0,
			"fast_to_passive":    0,
			"slow_to_fast":       0,
			"slow_to_passive":    0,
			"passive_to_fast":    0,
		},
	},
	"proxy-vs-full": {
		Scenario: "proxy-vs-full", Model: "fivepool", Integrator: "rk4",
		Dt: 0.05, Duration: 200.0,
		Forcing: ForcingConfig{Type: "step", Baseline: 1.0, Cutoff: 50.0, Factor: 1.5},
	},
}

// GetPreset returns a copy of the named preset, or nil. Callers layer
// flag overrides on top, so the shared table must stay untouched.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	if p.FivePool != nil {
		cp.FivePool = make(map[string]float64, len(p.FivePool))
		for k, v := range p.FivePool {
			cp.FivePool[k] = v
		}
	}
	if p.InitPools != nil {
		cp.InitPools = append([]float64(nil), p.InitPools...)
	}
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
