package experiment

import (
	"time"

	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

// IntegratorReport summarises one integrator on a common run.
type IntegratorReport struct {
	Name        string
	Period      float64
	EnergyDrift float64
	EnergyLoss  float64
	Steps       int
	Elapsed     time.Duration
	Err         error
}

// CompareIntegrators runs the same release angle through each named scheme
// with identical step size and termination rules.
func CompareIntegrators(p *physics.Pendulum, theta0 float64, names []string, cfg sim.Config) []IntegratorReport {
	reports := make([]IntegratorReport, 0, len(names))
	for _, name := range names {
		start := time.Now()
		run, err := Execute(p, theta0, name, cfg)
		rep := IntegratorReport{Name: name, Elapsed: time.Since(start), Err: err}
		if err == nil {
			rep.Period = run.Period
			rep.EnergyDrift = run.Metrics["energy_drift"]
			rep.EnergyLoss = run.Metrics["energy_loss"]
			rep.Steps = run.Trajectory.Len() - 1
		}
		reports = append(reports, rep)
	}
	return reports
}
