package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/carbosim/internal/carbon"
	"github.com/san-kum/carbosim/internal/scenario"
)

const (
	DefaultDt       = 0.05
	DefaultDuration = 100.0
	DefaultInput    = 1.0
)

type Config struct {
	Scenario        string             `yaml:"scenario"`
	Model           string             `yaml:"model"`
	Integrator      string             `yaml:"integrator"`
	Dt              float64            `yaml:"dt"`
	Duration        float64            `yaml:"duration"`
	Adaptive        bool               `yaml:"adaptive"`
	Tolerance       float64            `yaml:"tolerance"`
	ConservationTol float64            `yaml:"conservation_tol"`
	Forcing         ForcingConfig      `yaml:"forcing"`
	OnePool         OnePoolConfig      `yaml:"one_pool"`
	FivePool        map[string]float64 `yaml:"five_pool"`
	InitPools       []float64          `yaml:"init_pools"`
}

type ForcingConfig struct {
	Type      string  `yaml:"type"`
	Rate      float64 `yaml:"rate"`
	Mean      float64 `yaml:"mean"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Phase     float64 `yaml:"phase"`
	Baseline  float64 `yaml:"baseline"`
	Cutoff    float64 `yaml:"cutoff"`
	Factor    float64 `yaml:"factor"`
}

type OnePoolConfig struct {
	TurnoverTime float64 `yaml:"turnover_time"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "fivepool",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Forcing:    ForcingConfig{Type: "constant", Rate: DefaultInput},
		OnePool:    OnePoolConfig{TurnoverTime: 20},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (f ForcingConfig) params() map[string]float64 {
	return map[string]float64{
		"rate":      f.Rate,
		"mean":      f.Mean,
		"amplitude": f.Amplitude,
		"period":    f.Period,
		"phase":     f.Phase,
		"baseline":  f.Baseline,
		"cutoff":    f.Cutoff,
		"factor":    f.Factor,
	}
}

// ToScenario translates the yaml surface into a runnable scenario config.
func (c *Config) ToScenario() (scenario.Config, error) {
	reg := scenario.NewRegistry()
	forcingType := c.Forcing.Type
	if forcingType == "" {
		forcingType = "constant"
	}
	f, err := reg.GetForcing(forcingType, c.Forcing.params())
	if err != nil {
		return scenario.Config{}, err
	}

	var params carbon.ParamSet
	if len(c.FivePool) > 0 {
		params = carbon.DefaultFivePoolParams()
		for k, v := range c.FivePool {
			params[k] = v
		}
	}

	return scenario.Config{
		Name:            c.Scenario,
		Model:           c.Model,
		Integrator:      c.Integrator,
		Forcing:         f,
		Dt:              c.Dt,
		Duration:        c.Duration,
		Adaptive:        c.Adaptive,
		Tolerance:       c.Tolerance,
		ConservationTol: c.ConservationTol,
		TurnoverTime:    c.OnePool.TurnoverTime,
		Params:          params,
		InitPools:       c.InitPools,
	}, nil
}
