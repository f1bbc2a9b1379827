package sim

import (
	"fmt"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
)

// errDiverged matches both dynamo.ErrUnstable and dynamo.ErrInvalidState.
var errDiverged = fmt.Errorf("%w: %w", dynamo.ErrUnstable, dynamo.ErrInvalidState)

type Simulator struct {
	pend       *physics.Pendulum
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

// New returns a simulator for p. A nil integrator selects symplectic Euler.
func New(p *physics.Pendulum, integrator dynamo.Integrator) *Simulator {
	if integrator == nil {
		integrator = integrators.NewSymplecticEuler()
	}
	return &Simulator{
		pend:       p,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

// Simulate runs p from rest at theta0 with symplectic Euler.
func Simulate(p *physics.Pendulum, theta0 float64, cfg Config) (*dynamo.Trajectory, error) {
	return New(p, nil).Run(theta0, cfg)
}

// Run integrates from (0, theta0, 0) until cfg.Oscillations peaks have been
// counted or the time budget is spent. The returned trajectory includes the
// seed and the state that triggered termination.
//
// If a step produces a non-finite state the run stops and the partial
// trajectory is returned together with a *dynamo.SimulationError.
func (s *Simulator) Run(theta0 float64, cfg Config) (*dynamo.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	dt := s.pend.Period() / float64(cfg.StepsPerPeriod)
	maxTime := cfg.MaxTimeFactor * s.pend.Period()
	dyn := s.pend.WithDamping(cfg.Damping)

	traj := dynamo.NewTrajectory(theta0, int(maxTime/dt)+2)
	traj.Dt = dt
	traj.Damping = cfg.Damping

	x := traj.Last()
	s.observe(x)

	var peaks peakCounter
	for step := 0; ; step++ {
		if peaks.count >= cfg.Oscillations {
			traj.Reason = dynamo.StopOscillations
			break
		}
		if x.T >= maxTime {
			traj.Reason = dynamo.StopTimeBudget
			break
		}

		next := s.integrator.Step(dyn, x, dt)
		if !next.IsValid() {
			traj.Reason = dynamo.StopDiverged
			traj.Peaks = peaks.count
			return traj, &dynamo.SimulationError{Step: step, State: x, Wrapped: errDiverged}
		}

		x = next
		traj.Append(x)
		s.observe(x)

		if n := traj.Len(); n >= 3 {
			peaks.observe(traj.Angles[n-3], traj.Angles[n-2], traj.Angles[n-1])
		}
	}

	traj.Peaks = peaks.count
	return traj, nil
}

func (s *Simulator) observe(x dynamo.State) {
	for _, m := range s.metrics {
		m.Observe(x)
	}
}

// Metrics returns the current value of every registered metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
