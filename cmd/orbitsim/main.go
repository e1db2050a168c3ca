package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/ephemeris"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/telemetry"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	system     string
	bodies     []string
	start      float64
	days       float64
	step       float64
	integrator string
	workers    int
	noMetrics  bool
	saveConfig string
	saveFinal  string
	// plot / orbit / analyze
	bodyName string
	refName  string
	axis     string
	overlay  bool
	plane    string
	svgPath  string
	size     int
	output   string
	// bench / compare / batch
	parallel  int
	tolerance float64
)

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

func execute() error {
	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "orbitsim")
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry disabled: %v\n", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "newtonian n-body orbit simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a system and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")
	runCmd.Flags().StringVar(&saveFinal, "save-final", "", "write the final state as a system yaml file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&bodyName, "body", "", "only plot this body")
	plotCmd.Flags().StringVar(&axis, "axis", "x", "coordinate to plot (x, y, z, vx, vy, vz)")
	plotCmd.Flags().BoolVar(&overlay, "overlay", false, "draw all bodies on one chart")

	orbitCmd := &cobra.Command{
		Use:   "orbit [run_id]",
		Short: "draw projected orbits",
		Args:  cobra.ExactArgs(1),
		RunE:  orbitRun,
	}
	orbitCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")
	orbitCmd.Flags().StringVar(&svgPath, "svg", "", "also write an svg to this path")
	orbitCmd.Flags().IntVar(&size, "size", 800, "svg size in pixels")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period and closest approach of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyName, "body", "Earth", "body to analyze")
	analyzeCmd.Flags().StringVar(&refName, "ref", "Sun", "reference body")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, systems and integrators",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time a system over a range of step sizes",
		Args:  cobra.NoArgs,
		RunE:  benchSystem,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-8, "energy drift accepted when recommending a step")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator] [integrator] ...",
		Short: "run the same setup with several integrators",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = all)")

	importCmd := &cobra.Command{
		Use:   "import [run.json]",
		Short: "add a run exported with export-json to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  importJSON,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run and save every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (overrides the scenario)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, orbitCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, presetsCmd, benchCmd, compareCmd, batchCmd, importCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&system, "system", config.DefaultSystem, "system name or yaml file")
	cmd.Flags().StringSliceVar(&bodies, "bodies", nil, "restrict the system to these bodies")
	cmd.Flags().Float64Var(&start, "start", 0, "start time (days)")
	cmd.Flags().Float64Var(&days, "days", config.DefaultDays, "duration (days)")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size (days)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "goroutines per force evaluation")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "skip conservation diagnostics")
}

// resolveConfig layers preset, config file, environment and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("system") {
		cfg.System = system
	}
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("days") {
		cfg.Days = days
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if noMetrics {
		cfg.Metrics = false
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "orbitsim: ", log.Ltime|log.Lmicroseconds)
}

// openStore opens the catalog named by --data, or ORBITSIM_DATA_DIR when
// the flag is not given.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	dir := dataDir
	if !cmd.Flags().Changed("data") {
		cfg := config.DefaultConfig()
		if err := config.ApplyEnv(cfg); err != nil {
			return nil, err
		}
		dir = cfg.DataDir
	}
	return storage.Open(dir)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	exp, err := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	sys := exp.System()
	fmt.Printf("integrating %d bodies over %g days...\n", len(sys.Bodies), cfg.Days)

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.Save(cmd.Context(), storage.RunMetadata{
		System:     sys.Name,
		Integrator: exp.Driver().Stepper().Name(),
		Start:      cfg.Start,
		Days:       cfg.Days,
		Step:       cfg.Step,
		Bodies:     sys.Names(),
		Masses:     sys.Masses(),
	}, result)
	if err != nil {
		return err
	}
	logger.Printf("saved run %s to %s", runID, cfg.DataDir)

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}
	if saveFinal != "" {
		final, err := ephemeris.FromState(sys.Name, sys.Names(), sys.Masses(), result.Trajectory[len(result.Trajectory)-1])
		if err != nil {
			return err
		}
		if err := ephemeris.Save(saveFinal, final); err != nil {
			return err
		}
	}

	fmt.Println(viz.Summary(viz.RunSummary{
		ID:          runID,
		System:      sys.Name,
		Integrator:  exp.Driver().Stepper().Name(),
		Bodies:      sys.Names(),
		Days:        cfg.Days,
		Step:        cfg.Step,
		Samples:     len(result.Trajectory),
		Evaluations: result.Evaluations,
		Elapsed:     result.Elapsed,
		Metrics:     result.Metrics,
	}))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println(viz.Title.Render("presets"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		subset := "all"
		if len(p.Bodies) > 0 {
			subset = strings.Join(p.Bodies, ",")
		}
		fmt.Fprintf(w, "  %s\t%s\t%g days\th=%g\t%s\n", name, p.System, p.Days, p.Step, subset)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("systems"))
	for _, name := range experiment.NewRegistry().ListSystems() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println(viz.Title.Render("integrators"))
	for _, name := range integrators.Names() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
