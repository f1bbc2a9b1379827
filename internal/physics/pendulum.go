package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	// InertiaFactor is I / (m R^2) for the pendulum body.
	InertiaFactor = 5.0 / 4.0

	// Oscillations is the number of peaks after which a run stops.
	Oscillations = 10

	// MaxTimeFactor bounds a run to this many undamped periods.
	MaxTimeFactor = 15.0

	DefaultMass    = 1.0
	DefaultRadius  = 1.0
	DefaultGravity = 9.81
)

// Pendulum holds the physical constants of a rigid pendulum and the
// quantities derived from them. Values are fixed at construction.
type Pendulum struct {
	mass    float64
	radius  float64
	gravity float64
	inertia float64

	omega0  float64
	period  float64
	maxTime float64
}

// NewPendulum validates the constants and precomputes derived values.
func NewPendulum(mass, radius, gravity float64) (*Pendulum, error) {
	for name, v := range map[string]float64{"mass": mass, "radius": radius, "gravity": gravity} {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s=%v: %w", name, v, dynamo.ErrParameterBounds)
		}
	}

	p := &Pendulum{
		mass:    mass,
		radius:  radius,
		gravity: gravity,
		inertia: InertiaFactor * mass * radius * radius,
	}
	p.omega0 = math.Sqrt(mass * gravity * radius / p.inertia)
	p.period = 2 * math.Pi / p.omega0
	p.maxTime = MaxTimeFactor * p.period
	return p, nil
}

// DefaultPendulum returns the reference pendulum: m = 1 kg, R = 1 m, g = 9.81 m/s^2.
func DefaultPendulum() *Pendulum {
	p, err := NewPendulum(DefaultMass, DefaultRadius, DefaultGravity)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pendulum) Mass() float64    { return p.mass }
func (p *Pendulum) Radius() float64  { return p.radius }
func (p *Pendulum) Gravity() float64 { return p.gravity }
func (p *Pendulum) Inertia() float64 { return p.inertia }

// Omega0 is the small-angle angular frequency.
func (p *Pendulum) Omega0() float64 { return p.omega0 }

// Period is the small-angle undamped period T0.
func (p *Pendulum) Period() float64 { return p.period }

// MaxTime is the simulated time budget, MaxTimeFactor * T0.
func (p *Pendulum) MaxTime() float64 { return p.maxTime }

// CriticalDamping is the damping coefficient at which oscillation stops.
func (p *Pendulum) CriticalDamping() float64 { return 2 * p.inertia * p.omega0 }

// AngularAcceleration returns (-m g R sin(theta) - k omega) / I.
func (p *Pendulum) AngularAcceleration(theta, omega, k float64) float64 {
	torque := -p.mass*p.gravity*p.radius*math.Sin(theta) - k*omega
	return torque / p.inertia
}

// WithDamping binds a damping coefficient, giving dynamics an integrator can step.
func (p *Pendulum) WithDamping(k float64) dynamo.Dynamics {
	return dynamo.DynamicsFunc(func(theta, omega float64) float64 {
		return p.AngularAcceleration(theta, omega, k)
	})
}

// Energy is kinetic plus potential energy, with the potential zero at the
// lowest point.
func (p *Pendulum) Energy(theta, omega float64) float64 {
	ke := 0.5 * p.inertia * omega * omega
	pe := p.mass * p.gravity * p.radius * (1 - math.Cos(theta))
	return ke + pe
}

// EnergySeries evaluates Energy element-wise over aligned slices.
func (p *Pendulum) EnergySeries(thetas, omegas []float64) []float64 {
	n := len(thetas)
	if len(omegas) < n {
		n = len(omegas)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = p.Energy(thetas[i], omegas[i])
	}
	return out
}

func (p *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass":     p.mass,
		"radius":   p.radius,
		"gravity":  p.gravity,
		"inertia":  p.inertia,
		"omega0":   p.omega0,
		"period":   p.period,
		"max_time": p.maxTime,
	}
}
