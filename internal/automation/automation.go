// Package automation runs scripted batches of pendulum releases.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
	"github.com/san-kum/pendsim/internal/storage"
)

// Scenario is a named list of releases loaded from yaml:
//
//	name: decay study
//	steps:
//	  - theta_deg: 30
//	    damping: 0.1
//	  - theta_deg: 30
//	    damping: 0.3
//	    integrator: rk4
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	ThetaDeg       float64 `yaml:"theta_deg"`
	Damping        float64 `yaml:"damping"`
	Integrator     string  `yaml:"integrator"`
	StepsPerPeriod int     `yaml:"steps_per_period"`
	Save           *bool   `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// StepResult is the outcome of one scenario step. RunID is empty when the
// step was not stored.
type StepResult struct {
	Step  ScenarioStep
	Run   *experiment.Run
	RunID string
}

// RunScenario executes the steps in order. base supplies defaults for
// fields a step leaves unset. Steps are stored in st unless st is nil or
// the step sets save: false. The first failing step stops the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, p *physics.Pendulum, base sim.Config, st *storage.Store, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scenario", scenario.Name))

	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Info("running step",
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.Float64("theta_deg", step.ThetaDeg),
			zap.Float64("damping", step.Damping),
		)

		if step.ThetaDeg < 0 || step.ThetaDeg > 180 {
			return results, fmt.Errorf("step %d: theta_deg %.2f outside [0, 180]: %w", i+1, step.ThetaDeg, dynamo.ErrParameterBounds)
		}

		cfg := base.WithDamping(step.Damping)
		if step.StepsPerPeriod > 0 {
			cfg.StepsPerPeriod = step.StepsPerPeriod
		}

		run, err := experiment.Execute(p, step.ThetaDeg*math.Pi/180, step.Integrator, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res := StepResult{Step: step, Run: run}
		if st != nil && (step.Save == nil || *step.Save) {
			meta := storage.NewRunMetadata(p, run.Trajectory, run.Theta0, run.Integrator, cfg.StepsPerPeriod, run.Period, run.Metrics)
			id, err := st.Save(meta, run.Trajectory, p)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}

		results = append(results, res)
	}

	return results, nil
}

// MonteCarloConfig jitters the release angle uniformly by up to
// +-JitterDeg around ThetaDeg.
type MonteCarloConfig struct {
	ThetaDeg  float64
	JitterDeg float64
	Damping   float64
	NumTrials int
	Seed      int64
	Workers   int
}

type MonteCarloResult struct {
	TrialID int
	Theta0  float64
	Period  float64
	Theory  float64
	Reason  dynamo.StopReason
	Err     error
}

// RunMonteCarlo measures the period spread caused by uncertainty in the
// release angle. Angles are drawn up front from the seeded source so the
// result does not depend on scheduling.
func RunMonteCarlo(ctx context.Context, p *physics.Pendulum, base sim.Config, cfg MonteCarloConfig, log *zap.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d: %w", cfg.NumTrials, dynamo.ErrParameterBounds)
	}
	if log == nil {
		log = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.NumTrials)
	for i := range results {
		deg := cfg.ThetaDeg + (rng.Float64()-0.5)*2*cfg.JitterDeg
		deg = math.Min(math.Max(deg, 0), 180)
		results[i] = MonteCarloResult{TrialID: i, Theta0: deg * math.Pi / 180}
	}

	log.Info("monte carlo started", zap.Int("trials", cfg.NumTrials), zap.Int64("seed", seed))
	simCfg := base.WithDamping(cfg.Damping)

	dynamo.ParallelFor(cfg.NumTrials, cfg.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			r := &results[i]
			r.Period, r.Theory = math.NaN(), math.NaN()
			if err := ctx.Err(); err != nil {
				r.Err = err
				continue
			}
			if cfg.Damping > 0 {
				r.Theory = p.DampedPeriod(cfg.Damping)
			} else {
				r.Theory = p.LargeAmplitudePeriod(r.Theta0)
			}

			traj, err := sim.Simulate(p, r.Theta0, simCfg)
			if err != nil {
				r.Err = err
				continue
			}
			r.Period = analysis.EstimatePeriod(traj.Times, traj.Angles)
			r.Reason = traj.Reason
		}
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// MonteCarloSummary aggregates the trials that produced a period. StdDev
// is the sample standard deviation and is NaN with fewer than two periods.
type MonteCarloSummary struct {
	Trials     int
	WithPeriod int
	Failed     int
	Mean       float64
	StdDev     float64
	Min, Max   float64
}

func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	s := MonteCarloSummary{
		Trials: len(results),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}

	periods := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		if analysis.HasPeriod(r.Period) {
			periods = append(periods, r.Period)
		}
	}

	s.WithPeriod = len(periods)
	if s.WithPeriod == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(periods, nil)
	s.Min, s.Max = floats.Min(periods), floats.Max(periods)
	return s
}
