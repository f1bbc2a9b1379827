package experiment

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

// SweepPoint is one row of a parameter sweep.
type SweepPoint struct {
	// Param is the swept value: release angle in radians or damping k.
	Param   float64
	Numeric float64
	Theory  float64
	Peaks   int
	Reason  dynamo.StopReason
	Err     error
}

// RelativeError compares the numeric and theoretical periods.
func (sp SweepPoint) RelativeError() float64 {
	return analysis.RelativeError(sp.Numeric, sp.Theory)
}

// Sweeper runs independent simulations over a parameter grid. Runs share
// only the read-only pendulum.
type Sweeper struct {
	Pendulum *physics.Pendulum
	Config   sim.Config
	Workers  int
	Log      *zap.Logger
	// Progress, if set, is called after each point completes. It may be
	// called from several goroutines.
	Progress func(done, total int)
}

func NewSweeper(p *physics.Pendulum, cfg sim.Config, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{Pendulum: p, Config: cfg, Log: log}
}

// Amplitude measures the undamped period at each release angle and pairs it
// with the elliptic-integral prediction.
func (s *Sweeper) Amplitude(ctx context.Context, angles []float64) ([]SweepPoint, error) {
	cfg := s.Config.WithDamping(0)
	return s.sweep(ctx, "amplitude", angles, func(theta0 float64) SweepPoint {
		pt := SweepPoint{Param: theta0, Theory: s.Pendulum.LargeAmplitudePeriod(theta0)}
		s.measure(&pt, theta0, cfg)
		return pt
	})
}

// Damping measures the period at each damping coefficient from a fixed
// release angle and pairs it with the damped-oscillator prediction.
func (s *Sweeper) Damping(ctx context.Context, theta0 float64, ks []float64) ([]SweepPoint, error) {
	return s.sweep(ctx, "damping", ks, func(k float64) SweepPoint {
		pt := SweepPoint{Param: k, Theory: s.Pendulum.DampedPeriod(k)}
		s.measure(&pt, theta0, s.Config.WithDamping(k))
		return pt
	})
}

func (s *Sweeper) measure(pt *SweepPoint, theta0 float64, cfg sim.Config) {
	pt.Numeric = math.NaN()
	traj, err := sim.Simulate(s.Pendulum, theta0, cfg)
	if err != nil {
		pt.Err = err
		return
	}
	pt.Numeric = analysis.EstimatePeriod(traj.Times, traj.Angles)
	pt.Peaks = traj.Peaks
	pt.Reason = traj.Reason
}

func (s *Sweeper) sweep(ctx context.Context, kind string, params []float64, fn func(float64) SweepPoint) ([]SweepPoint, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("sweep", kind), zap.Int("points", len(params)))
	log.Info("sweep started")
	start := time.Now()

	points := make([]SweepPoint, len(params))
	var done atomic.Int32

	dynamo.ParallelFor(len(params), s.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				points[i] = SweepPoint{Param: params[i], Numeric: math.NaN(), Theory: math.NaN(), Err: err}
				continue
			}

			t0 := time.Now()
			points[i] = fn(params[i])
			pt := points[i]

			if pt.Err != nil {
				log.Warn("sweep point failed", zap.Float64("param", pt.Param), zap.Error(pt.Err))
			} else {
				log.Debug("sweep point",
					zap.Float64("param", pt.Param),
					zap.Float64("numeric", pt.Numeric),
					zap.Float64("theory", pt.Theory),
					zap.Int("peaks", pt.Peaks),
					zap.Stringer("stop", pt.Reason),
					zap.Duration("elapsed", time.Since(t0)),
				)
			}

			n := int(done.Add(1))
			if s.Progress != nil {
				s.Progress(n, len(params))
			}
		}
	})

	if err := ctx.Err(); err != nil {
		log.Warn("sweep canceled", zap.Error(err))
		return points, err
	}

	log.Info("sweep finished", zap.Duration("elapsed", time.Since(start)))
	return points, nil
}

// Linspace returns n evenly spaced values over [a, b].
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	return floats.Span(make([]float64, n), a, b)
}
