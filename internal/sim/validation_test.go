package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

var _ = Describe("physical validation", func() {
	var p *physics.Pendulum

	BeforeEach(func() {
		p = physics.DefaultPendulum()
	})

	run := func(theta0, k float64) *dynamo.Trajectory {
		traj, err := sim.Simulate(p, theta0, sim.DefaultConfig().WithDamping(k))
		Expect(err).NotTo(HaveOccurred())
		return traj
	}

	Context("without damping", func() {
		It("conserves energy to within one percent", func() {
			traj := run(0.2, 0)
			E := p.EnergySeries(traj.Angles, traj.Omegas)
			Expect(metrics.Drift(E)).To(BeNumerically("<", 0.01))
		})

		It("matches the small-angle period at 5 degrees", func() {
			traj := run(deg(5), 0)
			T := analysis.EstimatePeriod(traj.Times, traj.Angles)
			Expect(analysis.RelativeError(T, p.Period())).To(BeNumerically("<", 0.02))
		})

		It("matches the elliptic-integral period at 50 degrees", func() {
			traj := run(deg(50), 0)
			T := analysis.EstimatePeriod(traj.Times, traj.Angles)
			Expect(analysis.RelativeError(T, p.LargeAmplitudePeriod(deg(50)))).To(BeNumerically("<", 0.05))
		})

		It("stays at rest when released from zero", func() {
			traj := run(0, 0)
			for i := range traj.Angles {
				Expect(traj.Angles[i]).To(BeNumerically("~", 0, 1e-6))
				Expect(traj.Omegas[i]).To(BeNumerically("~", 0, 1e-6))
			}
			Expect(math.IsNaN(analysis.EstimatePeriod(traj.Times, traj.Angles))).To(BeTrue())
		})
	})

	Context("with damping", func() {
		It("loses energy", func() {
			traj := run(0.3, 0.5)
			first := p.Energy(traj.Angles[0], traj.Omegas[0])
			last := p.Energy(traj.Last().Theta, traj.Last().Omega)
			Expect(last).To(BeNumerically("<", first))
		})

		It("matches the damped-oscillator period for light damping", func() {
			k := 0.05
			traj := run(deg(10), k)
			T := analysis.EstimatePeriod(traj.Times, traj.Angles)
			Expect(analysis.RelativeError(T, p.DampedPeriod(k))).To(BeNumerically("<", 0.05))
		})

		It("reports no period when overdamped", func() {
			k := 5 * p.Inertia() * p.Omega0()
			traj := run(0.5, k)
			Expect(traj.Reason).To(Equal(dynamo.StopTimeBudget))
			Expect(math.IsNaN(analysis.EstimatePeriod(traj.Times, traj.Angles))).To(BeTrue())
			Expect(math.IsNaN(p.DampedPeriod(k))).To(BeTrue())
		})
	})
})
