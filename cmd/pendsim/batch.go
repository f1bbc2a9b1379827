package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/automation"
	"github.com/san-kum/pendsim/internal/optim"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/viz"
)

var (
	trials    int
	jitterDeg float64
	seed      int64
	target    float64
)

func addBatchCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted list of releases",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store any step")
	scenarioCmd.Flags().IntVar(&maxRows, "max-rows", 20000, "maximum samples written to states.csv (0 keeps all)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "period spread under release-angle uncertainty",
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&jitterDeg, "jitter", 1, "maximum release-angle error in degrees")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per cpu)")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "find the damping that reproduces a measured period",
		RunE:  fitDamping,
	}
	addRunFlags(fitCmd)
	fitCmd.Flags().Float64Var(&target, "period", 0, "measured period in seconds")
	fitCmd.Flags().IntVar(&points, "points", 0, "grid size (0 = config value)")
	_ = fitCmd.MarkFlagRequired("period")

	root.AddCommand(scenarioCmd, monteCarloCmd, fitCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		if st, err = openStore(); err != nil {
			return err
		}
		st.MaxRows = maxRows
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.RunScenario(ctx, sc, p, cfg.SimConfig(), st, log)

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTHETA0\tK\tINTEG\tPEAKS\tSTOP\tPERIOD\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.2f°\t%.4g\t%s\t%d\t%s\t%s\t%s\n",
			i+1,
			r.Step.ThetaDeg,
			r.Run.Damping,
			r.Run.Integrator,
			r.Run.Trajectory.Peaks,
			r.Run.Trajectory.Reason,
			viz.FormatPeriod(r.Run.Period),
			r.RunID,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, p, cfg.SimConfig(), automation.MonteCarloConfig{
		ThetaDeg:  cfg.InitialAngleDeg,
		JitterDeg: jitterDeg,
		Damping:   cfg.Damping,
		NumTrials: trials,
		Seed:      seed,
		Workers:   workers,
	}, log)
	if err != nil {
		return err
	}

	s := automation.MonteCarloStats(results)
	periods := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Err == nil && !math.IsNaN(r.Period) {
			periods = append(periods, r.Period)
		}
	}

	fmt.Printf("trials:       %d (%d with period, %d failed)\n", s.Trials, s.WithPeriod, s.Failed)
	fmt.Printf("theta0:       %.2f ± %.2f deg\n", cfg.InitialAngleDeg, jitterDeg)
	fmt.Printf("mean period:  %s\n", viz.FormatPeriod(s.Mean))
	fmt.Printf("std dev:      %.3e s\n", s.StdDev)
	fmt.Printf("range:        [%s, %s]\n", viz.FormatPeriod(s.Min), viz.FormatPeriod(s.Max))
	if len(periods) > 0 {
		fmt.Printf("periods:      %s\n", viz.Sparkline(periods, min(len(periods), 60)))
	}
	return nil
}

func fitDamping(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("points") {
		cfg.Sweep.DampingPoints = points
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ks := cfg.SweepDampings(p)
	k, residual, err := optim.FitDamping(ctx, p, cfg.ThetaRadians(), target, ks, cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Printf("target period:  %s\n", viz.FormatPeriod(target))
	fmt.Printf("best damping:   %.6g (grid of %d over [0, %.4g])\n", k, len(ks), ks[len(ks)-1])
	fmt.Printf("residual:       %.3e s\n", residual)
	fmt.Printf("theory period:  %s\n", viz.FormatPeriod(p.DampedPeriod(k)))
	if len(ks) > 1 {
		fmt.Printf("grid step:      %.4g\n", ks[1]-ks[0])
	}
	return nil
}
