package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/plot"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/viz"
)

const chartPoints = 240

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}

	log.Info("simulating",
		zap.Float64("theta_deg", cfg.InitialAngleDeg),
		zap.Float64("damping", cfg.Damping),
		zap.String("integrator", cfg.Integrator),
	)

	run, err := experiment.Execute(p, cfg.ThetaRadians(), cfg.Integrator, cfg.SimConfig())
	if err != nil {
		return err
	}

	fmt.Println(viz.Report(run, p))
	fmt.Println()

	chart := run.Trajectory.Decimate(chartPoints)
	fmt.Println(viz.PlotSeries(chart.Angles, "theta (rad)", 80, 12))
	fmt.Println()

	if pngDir != "" {
		if err := saveRunCharts(pngDir, run.Trajectory, p); err != nil {
			return err
		}
	}

	if noSave {
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	st.MaxRows = maxRows

	meta := storage.NewRunMetadata(p, run.Trajectory, run.Theta0, run.Integrator, cfg.Simulation.StepsPerPeriod, run.Period, run.Metrics)
	runID, err := st.Save(meta, run.Trajectory, p)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func saveRunCharts(dir string, traj *dynamo.Trajectory, p *physics.Pendulum) error {
	thin := traj.Decimate(4000)
	e := p.EnergySeries(thin.Angles, thin.Omegas)

	thetaPath := filepath.Join(dir, "theta.png")
	if err := plot.SaveSeries(thetaPath, "Angle", "time (s)", "theta (rad)",
		plot.Series{Name: "theta", X: thin.Times, Y: thin.Angles},
	); err != nil {
		return err
	}
	energyPath := filepath.Join(dir, "energy.png")
	if err := plot.SaveSeries(energyPath, "Mechanical energy", "time (s)", "E (J)",
		plot.Series{Name: "E", X: thin.Times, Y: e},
	); err != nil {
		return err
	}
	log.Info("charts written", zap.String("theta", thetaPath), zap.String("energy", energyPath))
	return nil
}

func compareRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}

	c, err := experiment.Compare(p, cfg.ThetaRadians(), cfg.Damping, cfg.SimConfig())
	if err != nil {
		return err
	}
	fmt.Println(viz.ComparisonReport(c))

	free := c.Free.Trajectory.Decimate(chartPoints)
	damped := c.Damped.Trajectory.Decimate(chartPoints)
	fmt.Println(viz.PlotSeries(free.Angles, "theta, k = 0", 80, 8))
	fmt.Println()
	fmt.Println(viz.PlotSeries(damped.Angles, fmt.Sprintf("theta, k = %.3g", cfg.Damping), 80, 8))

	if len(integrators) > 0 {
		fmt.Println()
		reports := experiment.CompareIntegrators(p, cfg.ThetaRadians(), integrators, cfg.SimConfig().WithDamping(0))
		fmt.Println(viz.IntegratorTable(reports))
	}
	return nil
}

func printTheory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Pendulum()
	if err != nil {
		return err
	}
	fmt.Println(viz.TheoryReport(p, cfg.ThetaRadians(), cfg.Damping))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	var (
		traj  *dynamo.Trajectory
		p     *physics.Pendulum
		title string
	)

	if len(args) == 1 {
		st := storage.New(dataDir, log)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		traj, _, err = st.LoadTrajectory(args[0])
		if err != nil {
			return err
		}
		p, err = storedPendulum(meta)
		if err != nil {
			return err
		}
		if traj.Len() == 0 {
			return fmt.Errorf("run %s: %w", args[0], viz.ErrEmptyTrajectory)
		}
		title = meta.ID
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p, err = cfg.Pendulum()
		if err != nil {
			return err
		}
		run, err := experiment.Execute(p, cfg.ThetaRadians(), cfg.Integrator, cfg.SimConfig())
		if err != nil {
			return err
		}
		traj = run.Trajectory
		title = fmt.Sprintf("theta0 %.1f deg  k %.3g", cfg.InitialAngleDeg, cfg.Damping)
	}

	m := viz.NewReplay(title, traj, p)
	m.GIFPath = gifFile
	return viz.RunReplay(m)
}
