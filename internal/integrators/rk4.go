package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(dyn dynamo.Dynamics, x dynamo.State, dt float64) dynamo.State {
	th, om := x.Theta, x.Omega

	k1t, k1o := om, dyn.Accel(th, om)

	k2t := om + 0.5*dt*k1o
	k2o := dyn.Accel(th+0.5*dt*k1t, k2t)

	k3t := om + 0.5*dt*k2o
	k3o := dyn.Accel(th+0.5*dt*k2t, k3t)

	k4t := om + dt*k3o
	k4o := dyn.Accel(th+dt*k3t, k4t)

	dt6 := dt / 6.0
	return dynamo.State{
		T:     x.T + dt,
		Theta: th + dt6*(k1t+2*k2t+2*k3t+k4t),
		Omega: om + dt6*(k1o+2*k2o+2*k3o+k4o),
	}
}
