package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// harmonic is x'' = -x with energy (x^2 + v^2)/2.
var harmonic = dynamo.DynamicsFunc(func(theta, omega float64) float64 { return -theta })

func harmonicEnergy(x dynamo.State) float64 {
	return 0.5 * (x.Theta*x.Theta + x.Omega*x.Omega)
}

func run(integ dynamo.Integrator, x dynamo.State, dt float64, steps int) dynamo.State {
	for i := 0; i < steps; i++ {
		x = integ.Step(harmonic, x, dt)
	}
	return x
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100
	x := run(NewRK4(), dynamo.State{Theta: 1}, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x.Theta-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x.Theta, expectedX)
	}
	if math.Abs(x.Omega-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x.Omega, expectedV)
	}
}

func TestStepAdvancesTime(t *testing.T) {
	for _, integ := range []dynamo.Integrator{NewSymplecticEuler(), NewEuler(), NewRK4(), NewVerlet()} {
		x := integ.Step(harmonic, dynamo.State{T: 1, Theta: 1}, 0.25)
		if x.T != 1.25 {
			t.Errorf("%s: expected t=1.25, got %f", integ.Name(), x.T)
		}
	}
}

func TestSymplecticEulerOrdering(t *testing.T) {
	// Velocity first, then angle with the updated velocity.
	x := NewSymplecticEuler().Step(harmonic, dynamo.State{Theta: 1}, 0.1)
	if x.Omega != -0.1 {
		t.Errorf("expected omega -0.1, got %f", x.Omega)
	}
	if math.Abs(x.Theta-0.99) > 1e-15 {
		t.Errorf("expected theta 0.99, got %f", x.Theta)
	}

	// Explicit Euler uses the old velocity and leaves theta unchanged here.
	y := NewEuler().Step(harmonic, dynamo.State{Theta: 1}, 0.1)
	if y.Theta != 1 {
		t.Errorf("expected explicit theta 1, got %f", y.Theta)
	}
}

func TestEnergyBehaviour(t *testing.T) {
	x0 := dynamo.State{Theta: 1}
	e0 := harmonicEnergy(x0)
	dt := 0.01
	steps := 10000

	tests := []struct {
		integ    dynamo.Integrator
		maxDrift float64
	}{
		{NewSymplecticEuler(), 0.01},
		{NewVerlet(), 1e-4},
		{NewRK4(), 1e-6},
	}
	for _, tt := range tests {
		drift := math.Abs(harmonicEnergy(run(tt.integ, x0, dt, steps))-e0) / e0
		if drift > tt.maxDrift {
			t.Errorf("%s: energy drift %e exceeds %e", tt.integ.Name(), drift, tt.maxDrift)
		}
	}

	// Explicit Euler grows energy by (1 + dt^2) per step.
	if e := harmonicEnergy(run(NewEuler(), x0, dt, steps)); e <= e0*1.5 {
		t.Errorf("expected explicit euler to gain energy, got %f from %f", e, e0)
	}
}
