package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/storage"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	preset     string
	thetaDeg   float64
	damping    float64
	integrator string
	steps      int

	noSave  bool
	maxRows int
	pngDir  string
	gifFile string
	outFile string

	workers     int
	points      int
	integrators []string

	log *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pendsim",
		Short:         "damped physical pendulum simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pendsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml or legacy params.xml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one release and report the period",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().IntVar(&maxRows, "max-rows", 20000, "maximum samples written to states.csv (0 keeps all)")
	runCmd.Flags().StringVar(&pngDir, "png", "", "write theta and energy charts to this directory")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare an undamped and a damped run from the same angle",
		RunE:  compareRuns,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&integrators, "integrators", nil, "also compare these integrators on the undamped run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "parameter sweeps against theory",
	}
	sweepCmd.PersistentFlags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per cpu)")
	sweepCmd.PersistentFlags().IntVar(&points, "points", 0, "grid size (0 = config value)")
	sweepCmd.PersistentFlags().StringVar(&pngDir, "png", "", "write the sweep chart to this directory")

	sweepAmplitudeCmd := &cobra.Command{
		Use:   "amplitude",
		Short: "numeric period vs elliptic-integral period over release angles",
		RunE:  sweepAmplitude,
	}
	sweepAmplitudeCmd.Flags().IntVar(&steps, "steps", 0, "steps per small-angle period")

	sweepDampingCmd := &cobra.Command{
		Use:   "damping",
		Short: "numeric period vs damped-oscillator period over damping coefficients",
		RunE:  sweepDamping,
	}
	sweepDampingCmd.Flags().Float64Var(&thetaDeg, "theta", config.DefaultAngleDeg, "release angle in degrees")
	sweepDampingCmd.Flags().IntVar(&steps, "steps", 0, "steps per small-angle period")
	sweepCmd.AddCommand(sweepAmplitudeCmd, sweepDampingCmd)

	theoryCmd := &cobra.Command{
		Use:   "theory",
		Short: "print analytic periods",
		RunE:  printTheory,
	}
	theoryCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	theoryCmd.Flags().Float64Var(&thetaDeg, "theta", config.DefaultAngleDeg, "release angle in degrees")
	theoryCmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient k")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-12s theta=%6.1f deg  k=%.3f\n", name, p.InitialAngleDeg, p.Damping)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [file.yaml]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addRunFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "animate a stored run, or simulate and animate a new one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifFile, "gif", "pendulum.gif", "file written by GIF recording")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period, spectrum and phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	rootCmd.AddCommand(runCmd, compareCmd, sweepCmd, theoryCmd, presetsCmd, configCmd, liveCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, analyzeCmd)
	addBatchCommands(rootCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&thetaDeg, "theta", config.DefaultAngleDeg, "release angle in degrees")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient k")
	cmd.Flags().StringVar(&integrator, "integrator", experiment.DefaultIntegrator, "integrator")
	cmd.Flags().IntVar(&steps, "steps", 0, "steps per small-angle period")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	return cfg.Build()
}

// loadConfig resolves defaults, then a preset or config file, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if preset != "" {
			loaded.InitialAngleDeg = cfg.InitialAngleDeg
			loaded.Damping = cfg.Damping
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("theta") {
		cfg.InitialAngleDeg = thetaDeg
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("steps") {
		cfg.Simulation.StepsPerPeriod = steps
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("config resolved",
		zap.String("preset", preset),
		zap.String("file", configFile),
		zap.Float64("theta_deg", cfg.InitialAngleDeg),
		zap.Float64("damping", cfg.Damping),
		zap.String("integrator", cfg.Integrator),
		zap.Int("steps_per_period", cfg.Simulation.StepsPerPeriod),
	)
	return cfg, nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("config written", zap.String("path", args[0]))
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir, log)
	return st, st.Init()
}
