package experiment

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

func fastConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.StepsPerPeriod = 2000
	return cfg
}

func TestRegistry(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()

	g.Expect(r.ListIntegrators()).To(Equal([]string{"euler", "rk4", "symplectic", "verlet"}))

	integ, err := r.GetIntegrator(DefaultIntegrator)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(integ.Name()).To(Equal("symplectic"))

	_, err = r.GetIntegrator("rk45")
	g.Expect(err).To(MatchError(ContainSubstring("unknown integrator")))

	g.Expect(r.DefaultMetrics(physics.DefaultPendulum())).To(HaveLen(4))
}

func TestExecute(t *testing.T) {
	g := NewWithT(t)
	p := physics.DefaultPendulum()

	run, err := Execute(p, 0.2, "", fastConfig())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(run.Integrator).To(Equal("symplectic"))
	g.Expect(run.HasPeriod()).To(BeTrue())
	g.Expect(run.Period).To(BeNumerically("~", p.LargeAmplitudePeriod(0.2), 0.01))
	g.Expect(run.Energy).To(HaveLen(run.Trajectory.Len()))
	g.Expect(run.Metrics).To(HaveKey("energy_drift"))
	g.Expect(run.Metrics["energy_drift"]).To(BeNumerically("<", 0.01))
	// Symplectic Euler lets |theta| overshoot the release angle by O(dt).
	g.Expect(run.Metrics["amplitude"]).To(BeNumerically("~", 0.2, 1e-3))
}

func TestExecuteRejectsBadConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.StepsPerPeriod = 0
	if _, err := Execute(physics.DefaultPendulum(), 0.2, "", cfg); err == nil {
		t.Error("expected error for zero step count")
	}
	if _, err := Execute(physics.DefaultPendulum(), 0.2, "leapfrog", fastConfig()); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestCompare(t *testing.T) {
	g := NewWithT(t)
	p := physics.DefaultPendulum()

	// At 0.05 rad the amplitude-dependent shortening as the swing decays is
	// far below the damping-induced lengthening.
	c, err := Compare(p, 0.05, 1.0, fastConfig())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Free.Damping).To(BeZero())
	g.Expect(c.Damped.Damping).To(Equal(1.0))
	g.Expect(c.PeriodChange).To(BeNumerically(">", 0))
	g.Expect(c.PeriodChange).To(BeNumerically("~", c.TheoryDamped/c.TheoryPeriod-1, 0.003))
	g.Expect(c.TheoryDamped).To(BeNumerically(">", c.TheoryPeriod))
	g.Expect(c.Damped.Metrics["energy_loss"]).To(BeNumerically(">", 0))
}

func TestCompareOverdamped(t *testing.T) {
	p := physics.DefaultPendulum()

	c, err := Compare(p, 0.3, 3*p.CriticalDamping(), fastConfig())
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if c.Damped.HasPeriod() {
		t.Errorf("expected no period, got %f", c.Damped.Period)
	}
	if !math.IsNaN(c.PeriodChange) {
		t.Errorf("expected NaN period change, got %f", c.PeriodChange)
	}
}

func TestAmplitudeSweep(t *testing.T) {
	g := NewWithT(t)
	p := physics.DefaultPendulum()
	s := NewSweeper(p, fastConfig(), nil)
	s.Workers = 2

	var calls atomic.Int32
	s.Progress = func(done, total int) { calls.Add(1) }

	angles := []float64{0.1, 0.8, 2.0}
	points, err := s.Amplitude(context.Background(), angles)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(points).To(HaveLen(3))
	g.Expect(calls.Load()).To(BeEquivalentTo(3))

	for i, pt := range points {
		g.Expect(pt.Err).NotTo(HaveOccurred())
		g.Expect(pt.Param).To(Equal(angles[i]))
		g.Expect(pt.RelativeError()).To(BeNumerically("<", 0.05))
	}
	g.Expect(points[2].Theory).To(BeNumerically(">", points[0].Theory))
}

func TestDampingSweep(t *testing.T) {
	g := NewWithT(t)
	p := physics.DefaultPendulum()
	s := NewSweeper(p, fastConfig(), nil)

	ks := []float64{0, 0.05, 3 * p.CriticalDamping()}
	points, err := s.Damping(context.Background(), 10*math.Pi/180, ks)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(points[0].RelativeError()).To(BeNumerically("<", 0.05))
	g.Expect(points[1].RelativeError()).To(BeNumerically("<", 0.05))
	g.Expect(math.IsNaN(points[2].Numeric)).To(BeTrue())
	g.Expect(math.IsNaN(points[2].Theory)).To(BeTrue())
	g.Expect(math.IsNaN(points[2].RelativeError())).To(BeTrue())
}

func TestSweepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSweeper(physics.DefaultPendulum(), fastConfig(), nil)
	points, err := s.Amplitude(ctx, []float64{0.1, 0.2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, pt := range points {
		if !errors.Is(pt.Err, context.Canceled) {
			t.Errorf("expected canceled point, got %v", pt.Err)
		}
	}
}

func TestSweepRecordsPointErrors(t *testing.T) {
	cfg := fastConfig()
	cfg.Oscillations = 0
	s := NewSweeper(physics.DefaultPendulum(), cfg, nil)

	points, err := s.Damping(context.Background(), 0.2, []float64{0, 0.1})
	if err != nil {
		t.Fatalf("sweep should not abort on point errors: %v", err)
	}
	for _, pt := range points {
		if pt.Err == nil {
			t.Error("expected per-point error")
		}
	}
}

func TestLinspace(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Linspace(0, 1, 5)).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	g.Expect(Linspace(3, 4, 1)).To(Equal([]float64{3}))
	g.Expect(Linspace(0, 1, 0)).To(BeEmpty())
	g.Expect(Linspace(0, 1, -3)).To(BeEmpty())

	ks := Linspace(0, 0.9, 20)
	g.Expect(ks).To(HaveLen(20))
	g.Expect(ks[0]).To(BeZero())
	g.Expect(ks[19]).To(Equal(0.9))
}

func TestCompareIntegrators(t *testing.T) {
	g := NewWithT(t)
	p := physics.DefaultPendulum()

	reports := CompareIntegrators(p, 0.5, []string{"symplectic", "euler", "bogus"}, fastConfig())
	g.Expect(reports).To(HaveLen(3))
	g.Expect(reports[0].Err).NotTo(HaveOccurred())
	g.Expect(reports[1].Err).NotTo(HaveOccurred())
	g.Expect(reports[2].Err).To(HaveOccurred())

	g.Expect(reports[0].Steps).To(BeNumerically(">", 0))
	g.Expect(reports[0].EnergyDrift).To(BeNumerically("<", reports[1].EnergyDrift))
}
