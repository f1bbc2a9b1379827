package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

// Verlet is velocity Verlet. The second acceleration is evaluated with the
// old velocity, so the damping term is only first-order accurate.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(dyn dynamo.Dynamics, x dynamo.State, dt float64) dynamo.State {
	a0 := dyn.Accel(x.Theta, x.Omega)
	theta := x.Theta + x.Omega*dt + 0.5*a0*dt*dt

	a1 := dyn.Accel(theta, x.Omega)
	omega := x.Omega + 0.5*(a0+a1)*dt

	return dynamo.State{T: x.T + dt, Theta: theta, Omega: omega}
}
