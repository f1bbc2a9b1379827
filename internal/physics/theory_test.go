package physics

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSmallAnglePeriod(t *testing.T) {
	g := NewWithT(t)
	p := DefaultPendulum()

	g.Expect(p.SmallAnglePeriod()).To(BeNumerically("~", p.Period(), 1e-12))
	g.Expect(p.SmallAnglePeriod()).To(BeNumerically("~", 2*math.Pi*math.Sqrt(1.25/9.81), 1e-12))
}

func TestLargeAmplitudePeriod(t *testing.T) {
	g := NewWithT(t)
	p := DefaultPendulum()

	// K(0) = pi/2, so the formula collapses to T0.
	g.Expect(p.LargeAmplitudePeriod(0)).To(BeNumerically("~", p.Period(), 1e-12))

	// Series expansion T0 (1 + theta^2/16) is accurate at small angles.
	theta := 0.1
	g.Expect(p.LargeAmplitudePeriod(theta)).To(BeNumerically("~", p.Period()*(1+theta*theta/16), 1e-5))

	// Known ratio T/T0 = 1.1803 at 90 degrees.
	g.Expect(p.LargeAmplitudePeriod(math.Pi / 2) / p.Period()).To(BeNumerically("~", 1.1803, 1e-3))

	// K(1/2) = 1.8540746773013719 in the parameter convention.
	g.Expect(p.LargeAmplitudePeriod(math.Pi / 2)).To(BeNumerically("~", p.Period()*2/math.Pi*1.8540746773013719, 1e-9))

	prev := 0.0
	for deg := 5.0; deg <= 160; deg += 5 {
		T := p.LargeAmplitudePeriod(deg * math.Pi / 180)
		g.Expect(T).To(BeNumerically(">", prev))
		prev = T
	}

	g.Expect(math.IsInf(p.LargeAmplitudePeriod(math.Pi), 1)).To(BeTrue())
}

func TestDampedPeriod(t *testing.T) {
	g := NewWithT(t)
	p := DefaultPendulum()

	g.Expect(p.DampedPeriod(0)).To(BeNumerically("~", p.Period(), 1e-12))
	g.Expect(p.DampedPeriod(0.05)).To(BeNumerically(">", p.Period()))

	gamma := 0.5 / (2 * p.Inertia())
	expected := 2 * math.Pi / math.Sqrt(p.Omega0()*p.Omega0()-gamma*gamma)
	g.Expect(p.DampedPeriod(0.5)).To(BeNumerically("~", expected, 1e-12))
}

func TestDampedPeriodNoOscillation(t *testing.T) {
	p := DefaultPendulum()

	for _, k := range []float64{p.CriticalDamping(), 2 * p.CriticalDamping(), 5 * p.Inertia() * p.Omega0()} {
		if T := p.DampedPeriod(k); !math.IsNaN(T) {
			t.Errorf("k=%f: expected NaN, got %f", k, T)
		}
	}
}
