package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/plot"
	"github.com/san-kum/pendsim/internal/viz"
)

func newSweeper(cfg *config.Config, p *physics.Pendulum) *experiment.Sweeper {
	s := experiment.NewSweeper(p, cfg.SimConfig(), log)
	s.Workers = cfg.Sweep.Workers

	var mu sync.Mutex
	s.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(os.Stderr, "\r%s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
	return s
}

func sweepAmplitude(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("points") {
		cfg.Sweep.AnglePoints = points
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := newSweeper(cfg, p).Amplitude(ctx, cfg.SweepAngles())
	if err != nil {
		return err
	}

	fmt.Println(viz.SweepTable("amplitude", results))
	return saveSweepChart("amplitude", results, p)
}

func sweepDamping(cmd *cobra.Command, args []string) error {
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

	results, err := newSweeper(cfg, p).Damping(ctx, cfg.ThetaRadians(), cfg.SweepDampings(p))
	if err != nil {
		return err
	}

	fmt.Println(viz.SweepTable("damping", results))
	fmt.Printf("critical damping: %.6g\n", p.CriticalDamping())
	return saveSweepChart("damping", results, p)
}

func saveSweepChart(kind string, results []experiment.SweepPoint, p *physics.Pendulum) error {
	if pngDir == "" {
		return nil
	}
	path := filepath.Join(pngDir, "sweep_"+kind+".png")
	if err := plot.SaveSweep(path, kind, results, p.SmallAnglePeriod()); err != nil {
		return err
	}
	log.Info("chart written", zap.String("path", path))
	return nil
}
