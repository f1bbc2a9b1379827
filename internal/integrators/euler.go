package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

// SymplecticEuler updates velocity first and advances the angle with the
// new velocity. Energy error stays bounded over long oscillatory runs.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic" }

func (e *SymplecticEuler) Step(dyn dynamo.Dynamics, x dynamo.State, dt float64) dynamo.State {
	alpha := dyn.Accel(x.Theta, x.Omega)
	omega := x.Omega + dt*alpha
	theta := x.Theta + dt*omega
	return dynamo.State{T: x.T + dt, Theta: theta, Omega: omega}
}

// Euler is the explicit forward scheme. It gains energy every step and is
// kept as a reference point for integrator comparison.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.Dynamics, x dynamo.State, dt float64) dynamo.State {
	alpha := dyn.Accel(x.Theta, x.Omega)
	return dynamo.State{
		T:     x.T + dt,
		Theta: x.Theta + dt*x.Omega,
		Omega: x.Omega + dt*alpha,
	}
}
