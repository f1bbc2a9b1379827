package physics

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := DefaultPendulum()

	for _, k := range []float64{0, 0.5, 10} {
		if a := p.AngularAcceleration(0, 0, k); math.Abs(a) > 1e-12 {
			t.Errorf("k=%v: expected zero acceleration at rest, got %g", k, a)
		}
	}
}

func TestPendulumRestoringTorque(t *testing.T) {
	p := DefaultPendulum()

	if a := p.AngularAcceleration(0.1, 0, 0); a >= 0 {
		t.Errorf("expected negative acceleration for positive angle, got %f", a)
	}
	if a := p.AngularAcceleration(-0.1, 0, 0); a <= 0 {
		t.Errorf("expected positive acceleration for negative angle, got %f", a)
	}
}

func TestPendulumDampingOpposesVelocity(t *testing.T) {
	p := DefaultPendulum()

	free := p.AngularAcceleration(0, 2, 0)
	damped := p.AngularAcceleration(0, 2, 0.5)
	if damped >= free {
		t.Errorf("damping should reduce acceleration for positive omega: %f >= %f", damped, free)
	}
	if got, want := damped, -0.5*2/p.Inertia(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestPendulumGravity(t *testing.T) {
	g := NewWithT(t)
	p := DefaultPendulum()

	expected := -p.Mass() * p.Gravity() * p.Radius() / p.Inertia()
	g.Expect(p.AngularAcceleration(math.Pi/2, 0, 0)).To(BeNumerically("~", expected, 1e-12))
	g.Expect(p.WithDamping(0).Accel(math.Pi/2, 0)).To(BeNumerically("~", expected, 1e-12))
}

func TestDerivedConstants(t *testing.T) {
	g := NewWithT(t)
	p := DefaultPendulum()

	g.Expect(p.Inertia()).To(BeNumerically(">", 0))
	g.Expect(p.Inertia()).To(BeNumerically("~", 1.25, 1e-12))
	g.Expect(p.Omega0()).To(BeNumerically("~", math.Sqrt(9.81/1.25), 1e-12))
	g.Expect(p.Period()).To(BeNumerically("~", 2*math.Pi/p.Omega0(), 1e-12))
	g.Expect(p.MaxTime()).To(BeNumerically("~", MaxTimeFactor*p.Period(), 1e-9))
	g.Expect(p.CriticalDamping()).To(BeNumerically("~", 2*p.Inertia()*p.Omega0(), 1e-12))
	g.Expect(p.Params()).To(HaveKeyWithValue("inertia", p.Inertia()))
}

func TestNewPendulumRejectsBadConstants(t *testing.T) {
	tests := []struct {
		name                  string
		mass, radius, gravity float64
	}{
		{"zero mass", 0, 1, 9.81},
		{"negative radius", 1, -1, 9.81},
		{"zero gravity", 1, 1, 0},
		{"NaN mass", math.NaN(), 1, 9.81},
		{"Inf radius", 1, math.Inf(1), 9.81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPendulum(tt.mass, tt.radius, tt.gravity)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestEnergy(t *testing.T) {
	p := DefaultPendulum()

	if e := p.Energy(0, 0); math.Abs(e) > 1e-12 {
		t.Errorf("expected zero energy at rest, got %g", e)
	}

	for i := 0; i < 20; i++ {
		theta := -1 + float64(i)*2/19
		omega := -1 + float64(i)*2/19
		if e := p.Energy(theta, omega); e < 0 {
			t.Errorf("negative energy %g at theta=%f omega=%f", e, theta, omega)
		}
	}

	theta := math.Pi / 4
	expected := p.Mass() * p.Gravity() * p.Radius() * (1 - math.Cos(theta))
	if e := p.Energy(theta, 0); math.Abs(e-expected) > 1e-12 {
		t.Errorf("expected potential %f, got %f", expected, e)
	}
}

func TestEnergySeries(t *testing.T) {
	p := DefaultPendulum()

	e := p.EnergySeries([]float64{0, 0.5, 1}, []float64{0, 1})
	if len(e) != 2 {
		t.Fatalf("expected series truncated to shortest input, got %d", len(e))
	}
	if e[1] != p.Energy(0.5, 1) {
		t.Errorf("series mismatch: %f vs %f", e[1], p.Energy(0.5, 1))
	}
}
