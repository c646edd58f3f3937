package scenario

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/carbosim/internal/forcing"
)

func constantForcing(t *testing.T, u float64) forcing.Forcing {
	t.Helper()
	f, err := forcing.NewConstant(u)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestExecuteOnePool(t *testing.T) {
	cfg := Config{
		Name:         "spinup",
		Model:        "onepool",
		Integrator:   "rk4",
		Forcing:      constantForcing(t, 0.26),
		Dt:           0.05,
		Duration:     10,
		TurnoverTime: 20,
		InitPools:    []float64{0},
	}

	out, err := Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if out.Result.StepsTaken != 200 {
		t.Errorf("steps taken = %d, want 200", out.Result.StepsTaken)
	}
	if out.ProxyTau != 0 {
		t.Errorf("one-pool run reported a proxy turnover: %g", out.ProxyTau)
	}

	soil := out.Trajectory.Column("soil")
	if soil == nil {
		t.Fatal("trajectory missing soil column")
	}
	if soil[0] != 0 {
		t.Errorf("initial soil = %g, want 0", soil[0])
	}
	last := soil[len(soil)-1]
	if last <= 0 || last > 5.2 {
		t.Errorf("soil after 10y = %g, want in (0, 5.2]", last)
	}
}

func TestExecuteFivePoolEquilibriumSeed(t *testing.T) {
	cfg := Config{
		Name:       "equilibrium-hold",
		Model:      "fivepool",
		Integrator: "rk4",
		Forcing:    constantForcing(t, 1.0),
		Dt:         0.05,
		Duration:   5,
	}

	out, err := Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if out.ProxyTau <= 0 {
		t.Errorf("five-pool run did not report a proxy turnover: %g", out.ProxyTau)
	}

	// seeded at equilibrium under constant input, the total holds steady
	total := out.Trajectory.Column("total")
	first, last := total[0], total[len(total)-1]
	if rel := math.Abs(last-first) / first; rel > 1e-6 {
		t.Errorf("total drifted from %g to %g at equilibrium (rel %g)", first, last, rel)
	}

	// cumulative CO2 at equilibrium rises at the input rate
	co2 := out.Trajectory.Column("co2")
	times := out.Trajectory.Column("time")
	elapsed := times[len(times)-1] - times[0]
	if rel := math.Abs((co2[len(co2)-1]-co2[0])-1.0*elapsed) / elapsed; rel > 1e-6 {
		t.Errorf("respired %g over %gy at unit input", co2[len(co2)-1]-co2[0], elapsed)
	}
}

func TestExecuteAdaptiveHonorsDuration(t *testing.T) {
	cfg := Config{
		Name:         "adaptive-spinup",
		Model:        "onepool",
		Integrator:   "rk45",
		Forcing:      constantForcing(t, 0.26),
		Dt:           0.05,
		Duration:     10,
		Adaptive:     true,
		TurnoverTime: 20,
		InitPools:    []float64{0},
	}

	out, err := Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	times := out.Trajectory.Column("time")
	final := times[len(times)-1]
	if math.Abs(final-10) > 1e-6 {
		t.Errorf("adaptive run ended at t=%g, want 10", final)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("times not increasing at row %d: %g then %g", i, times[i-1], times[i])
		}
		if step := times[i] - times[i-1]; step > cfg.Dt*10+1e-9 {
			t.Errorf("step %d spans %g, above the MaxDt cap %g", i, step, cfg.Dt*10)
		}
	}

	// the variable grid still lands on the right trajectory
	soil := out.Trajectory.Column("soil")
	want := 5.2 * (1 - math.Exp(-10.0/20))
	if got := soil[len(soil)-1]; math.Abs(got-want) > 1e-3 {
		t.Errorf("soil at t=10 = %g, want %g", got, want)
	}
}

func TestExecuteValidation(t *testing.T) {
	base := Config{
		Model:        "onepool",
		Integrator:   "rk4",
		Forcing:      constantForcing(t, 1),
		Dt:           0.1,
		Duration:     1,
		TurnoverTime: 10,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no forcing", func(c *Config) { c.Forcing = nil }},
		{"bad dt", func(c *Config) { c.Dt = 0 }},
		{"bad duration", func(c *Config) { c.Duration = -1 }},
		{"unknown model", func(c *Config) { c.Model = "sevenpool" }},
		{"unknown integrator", func(c *Config) { c.Integrator = "leapfrog" }},
		{"wrong init pools", func(c *Config) { c.InitPools = []float64{1, 2, 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if _, err := Execute(context.Background(), cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTabulateColumns(t *testing.T) {
	cfg := Config{
		Name:         "tab",
		Model:        "onepool",
		Integrator:   "euler",
		Forcing:      constantForcing(t, 0.5),
		Dt:           0.1,
		Duration:     1,
		TurnoverTime: 5,
		InitPools:    []float64{2},
	}
	out, err := Execute(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"time", "co2", "soil", "total", "respiration", "input"}
	if len(out.Trajectory.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", out.Trajectory.Columns, want)
	}
	for i, name := range want {
		if out.Trajectory.Columns[i] != name {
			t.Errorf("column %d = %q, want %q", i, out.Trajectory.Columns[i], name)
		}
	}

	if out.Trajectory.Len() != len(out.Result.Times) {
		t.Errorf("trajectory has %d rows for %d time points", out.Trajectory.Len(), len(out.Result.Times))
	}

	// row zero reflects the seed: soil=2, respiration=2/5, input=0.5
	input := out.Trajectory.Column("input")
	resp := out.Trajectory.Column("respiration")
	if input[0] != 0.5 {
		t.Errorf("input[0] = %g, want 0.5", input[0])
	}
	if want := 2.0 / 5; math.Abs(resp[0]-want) > 1e-15 {
		t.Errorf("respiration[0] = %g, want %g", resp[0], want)
	}

	if out.Trajectory.Column("no_such_column") != nil {
		t.Error("unknown column did not return nil")
	}
}

func TestRegistryLookups(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"euler", "rk4", "rk45"} {
		if _, err := reg.GetIntegrator(name); err != nil {
			t.Errorf("integrator %q: %v", name, err)
		}
	}
	if _, err := reg.GetIntegrator("leapfrog"); err == nil {
		t.Error("unknown integrator accepted")
	}

	f, err := reg.GetForcing("seasonal", map[string]float64{"mean": 1, "amplitude": 0.5})
	if err != nil {
		t.Fatalf("seasonal lookup failed: %v", err)
	}
	// omitted period defaults to one annual cycle
	if a, b := f.Rate(0.1), f.Rate(1.1); math.Abs(a-b) > 1e-12 {
		t.Errorf("default seasonal period is not 1: rate %g vs %g", a, b)
	}

	if _, err := reg.GetForcing("tidal", nil); err == nil {
		t.Error("unknown forcing accepted")
	}

	integs := reg.ListIntegrators()
	if len(integs) != 3 || integs[0] != "euler" {
		t.Errorf("integrator list = %v", integs)
	}
	forcings := reg.ListForcings()
	if len(forcings) != 4 || forcings[0] != "constant" {
		t.Errorf("forcing list = %v", forcings)
	}
}

func TestRunMatrix(t *testing.T) {
	mk := func(tau float64) Config {
		return Config{
			Name:         "cell",
			Model:        "onepool",
			Integrator:   "rk4",
			Forcing:      constantForcing(t, 1),
			Dt:           0.1,
			Duration:     2,
			TurnoverTime: tau,
		}
	}
	cfgs := []Config{mk(5), mk(10), mk(20)}

	outcomes, err := RunMatrix(context.Background(), cfgs)
	if err != nil {
		t.Fatalf("matrix run failed: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for i, out := range outcomes {
		if out == nil || out.Trajectory.Len() == 0 {
			t.Errorf("outcome %d empty", i)
		}
	}

	// a bad cell fails the whole batch
	bad := mk(5)
	bad.Model = "sevenpool"
	if _, err := RunMatrix(context.Background(), []Config{mk(5), bad}); err == nil {
		t.Error("expected error from bad cell, got nil")
	}
}
