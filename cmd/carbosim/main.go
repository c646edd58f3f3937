package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/carbosim/internal/carbon"
	"github.com/san-kum/carbosim/internal/config"
	"github.com/san-kum/carbosim/internal/scenario"
	"github.com/san-kum/carbosim/internal/storage"
	"github.com/san-kum/carbosim/internal/tui"
	"github.com/san-kum/carbosim/internal/viz"
)

var (
	dataDir    string
	configFile string

	model      string
	integrator string
	dt         float64
	duration   float64
	adaptive   bool
	tolerance  float64
	consTol    float64

	forcingType string
	rate        float64
	mean        float64
	amplitude   float64
	period      float64
	phase       float64
	baseline    float64
	cutoff      float64
	factor      float64

	turnoverTime float64
	initPools    []float64

	saveRun    bool
	exportJSON bool
	plotColumn string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carbosim",
		Short: "soil carbon compartment model lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".carbosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist trajectory to the data directory")
	runCmd.Flags().BoolVar(&exportJSON, "json", false, "write trajectory JSON to stdout")
	runCmd.Flags().StringVar(&plotColumn, "plot", "total", "trajectory column to plot (empty to skip)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	steadyCmd := &cobra.Command{
		Use:   "steady",
		Short: "print five-pool steady state and proxy turnover time",
		RunE:  showSteady,
	}
	steadyCmd.Flags().Float64Var(&rate, "rate", config.DefaultInput, "constant input rate")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "compare the five-pool model against its one-pool proxy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	addScenarioFlags(compareCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list presets, forcings, and integrators",
		RunE:  listScenarios,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "total", "trajectory column to plot")

	rootCmd.AddCommand(runCmd, liveCmd, steadyCmd, compareCmd, scenariosCmd, runsCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&model, "model", "fivepool", "model (onepool, fivepool)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-6, "adaptive step tolerance")
	cmd.Flags().Float64Var(&consTol, "ctol", 0, "conservation check tolerance (0 = default)")
	cmd.Flags().StringVar(&forcingType, "forcing", "constant", "forcing (constant, seasonal, zero, step)")
	cmd.Flags().Float64Var(&rate, "rate", config.DefaultInput, "constant input rate")
	cmd.Flags().Float64Var(&mean, "mean", config.DefaultInput, "seasonal mean input")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 0.5, "seasonal amplitude")
	cmd.Flags().Float64Var(&period, "period", 1.0, "seasonal period")
	cmd.Flags().Float64Var(&phase, "phase", 0.0, "seasonal phase")
	cmd.Flags().Float64Var(&baseline, "baseline", config.DefaultInput, "step baseline input")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 50.0, "step cutoff time")
	cmd.Flags().Float64Var(&factor, "factor", 0.5, "step shift factor")
	cmd.Flags().Float64Var(&turnoverTime, "turnover", 20.0, "one-pool turnover time")
	cmd.Flags().Float64SliceVar(&initPools, "init", nil, "initial pool masses (default: equilibrium)")
}

// buildConfig layers preset, config file, and explicit flags, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) == 1 {
		preset := config.GetPreset(args[0])
		if preset == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = model
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("ctol") {
		cfg.ConservationTol = consTol
	}
	if flags.Changed("forcing") {
		cfg.Forcing.Type = forcingType
	}
	if flags.Changed("rate") {
		cfg.Forcing.Rate = rate
	}
	if flags.Changed("mean") {
		cfg.Forcing.Mean = mean
	}
	if flags.Changed("amplitude") {
		cfg.Forcing.Amplitude = amplitude
	}
	if flags.Changed("period") {
		cfg.Forcing.Period = period
	}
	if flags.Changed("phase") {
		cfg.Forcing.Phase = phase
	}
	if flags.Changed("baseline") {
		cfg.Forcing.Baseline = baseline
	}
	if flags.Changed("cutoff") {
		cfg.Forcing.Cutoff = cutoff
	}
	if flags.Changed("factor") {
		cfg.Forcing.Factor = factor
	}
	if flags.Changed("turnover") {
		cfg.OnePool.TurnoverTime = turnoverTime
	}
	if flags.Changed("init") {
		cfg.InitPools = initPools
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.ToScenario()
	if err != nil {
		return err
	}

	out, err := scenario.Execute(context.Background(), sc)
	if err != nil {
		return err
	}

	if exportJSON {
		return storage.ExportJSONStdout(out)
	}

	pairs := [][2]string{
		{"model", sc.Model},
		{"forcing", sc.Forcing.Name()},
		{"integrator", sc.Integrator},
		{"steps", fmt.Sprintf("%d", out.Result.StepsTaken)},
	}
	for name, value := range out.Result.Metrics {
		pairs = append(pairs, [2]string{name, fmt.Sprintf("%.6g", value)})
	}
	if out.ProxyTau != 0 {
		pairs = append(pairs, [2]string{"proxy tau", fmt.Sprintf("%.4f", out.ProxyTau)})
	}
	fmt.Println(viz.Summary(titleFor(sc), pairs))

	if plotColumn != "" {
		graph, err := viz.PlotColumn(out.Trajectory, plotColumn, 12, 80)
		if err != nil {
			return err
		}
		fmt.Println(graph)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(out)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", runID)
	}
	return nil
}

func titleFor(sc scenario.Config) string {
	if sc.Name != "" {
		return sc.Name
	}
	return sc.Model
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.ToScenario()
	if err != nil {
		return err
	}
	return tui.RunLive(sc)
}

func showSteady(cmd *cobra.Command, args []string) error {
	ps := carbon.DefaultFivePoolParams()
	pools, transfers, err := carbon.FivePoolFromParams(ps)
	if err != nil {
		return err
	}
	m, err := carbon.Build(pools, transfers)
	if err != nil {
		return err
	}

	ss, err := carbon.SteadyState(m, rate)
	if err != nil {
		return err
	}
	tau, err := carbon.ProxyTurnover(m)
	if err != nil {
		return err
	}

	total := 0.0
	pairs := make([][2]string, 0, len(ss)+3)
	for i, name := range m.Names {
		pairs = append(pairs, [2]string{name, fmt.Sprintf("%.4f", ss[i])})
		total += ss[i]
	}
	pairs = append(pairs,
		[2]string{"total", fmt.Sprintf("%.4f", total)},
		[2]string{"proxy tau", fmt.Sprintf("%.4f", tau)},
		[2]string{"u * proxy tau", fmt.Sprintf("%.4f", rate*tau)},
	)
	fmt.Println(viz.Summary(fmt.Sprintf("steady state at input %.3g", rate), pairs))
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"proxy-vs-full"}
	}
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	sc, err := cfg.ToScenario()
	if err != nil {
		return err
	}

	c, err := scenario.Compare(context.Background(), sc)
	if err != nil {
		return err
	}

	pairs := [][2]string{
		{"proxy tau", fmt.Sprintf("%.4f", c.ProxyTau)},
		{"final full total", fmt.Sprintf("%.4f", c.FinalFull)},
		{"final proxy total", fmt.Sprintf("%.4f", c.FinalProxy)},
		{"max |diff|", fmt.Sprintf("%.6g", c.MaxAbsDiff)},
		{"rms diff", fmt.Sprintf("%.6g", c.RMSDiff)},
	}
	fmt.Println(viz.Summary(titleFor(sc), pairs))
	fmt.Println(viz.PlotComparison(c, 14, 80))
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	reg := scenario.NewRegistry()
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("forcings:")
	for _, name := range reg.ListForcings() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("integrators:")
	for _, name := range reg.ListIntegrators() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tMODEL\tFORCING\tDT\tDURATION\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%s\n",
			r.ID, r.Scenario, r.Model, r.Forcing, r.Dt, r.Duration,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	graph, err := viz.PlotColumn(traj, plotColumn, 12, 80)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}
