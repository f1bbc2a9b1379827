package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

// Run is one simulated trajectory together with its post-processed results.
type Run struct {
	Theta0     float64
	Damping    float64
	Integrator string
	Trajectory *dynamo.Trajectory
	Energy     []float64
	Period     float64
	Metrics    map[string]float64
}

// HasPeriod reports whether the run oscillated enough to yield a period.
func (r *Run) HasPeriod() bool { return analysis.HasPeriod(r.Period) }

// Execute simulates p from theta0 with the named integrator and computes the
// energy series, period estimate and default metrics.
func Execute(p *physics.Pendulum, theta0 float64, integrator string, cfg sim.Config) (*Run, error) {
	reg := NewRegistry()
	if integrator == "" {
		integrator = DefaultIntegrator
	}
	integ, err := reg.GetIntegrator(integrator)
	if err != nil {
		return nil, err
	}

	s := sim.New(p, integ)
	for _, m := range reg.DefaultMetrics(p) {
		s.AddMetric(m)
	}

	traj, err := s.Run(theta0, cfg)
	if err != nil {
		return nil, fmt.Errorf("simulate theta0=%.4f k=%.4f: %w", theta0, cfg.Damping, err)
	}

	return &Run{
		Theta0:     theta0,
		Damping:    cfg.Damping,
		Integrator: integ.Name(),
		Trajectory: traj,
		Energy:     p.EnergySeries(traj.Angles, traj.Omegas),
		Period:     analysis.EstimatePeriod(traj.Times, traj.Angles),
		Metrics:    s.Metrics(),
	}, nil
}

// Comparison pairs an undamped reference run with a damped run from the
// same release angle.
type Comparison struct {
	Free   *Run
	Damped *Run

	// TheoryPeriod is the small-angle period T0.
	TheoryPeriod float64
	// TheoryDamped is the damped-oscillator period for the damped run's k.
	TheoryDamped float64
	// PeriodChange is (T_damped - T_free) / T_free, NaN if either is missing.
	PeriodChange float64
}

// Compare runs theta0 once with k = 0 and once with damping k.
func Compare(p *physics.Pendulum, theta0, k float64, cfg sim.Config) (*Comparison, error) {
	free, err := Execute(p, theta0, DefaultIntegrator, cfg.WithDamping(0))
	if err != nil {
		return nil, err
	}
	damped, err := Execute(p, theta0, DefaultIntegrator, cfg.WithDamping(k))
	if err != nil {
		return nil, err
	}

	c := &Comparison{
		Free:         free,
		Damped:       damped,
		TheoryPeriod: p.SmallAnglePeriod(),
		TheoryDamped: p.DampedPeriod(k),
		PeriodChange: math.NaN(),
	}
	if free.HasPeriod() && damped.HasPeriod() {
		c.PeriodChange = (damped.Period - free.Period) / free.Period
	}
	return c, nil
}
