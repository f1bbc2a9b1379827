package physics

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// SmallAnglePeriod is 2 pi / sqrt(m g R / I), computed from the constants
// rather than read back from the cached period.
func (p *Pendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi / math.Sqrt(p.mass*p.gravity*p.radius/p.inertia)
}

// LargeAmplitudePeriod is the exact undamped period for release angle
// theta0: T0 (2/pi) K(m) with m = sin^2(theta0/2).
// The result diverges as theta0 approaches pi.
func (p *Pendulum) LargeAmplitudePeriod(theta0 float64) float64 {
	s := math.Sin(theta0 / 2)
	m := s * s
	if m >= 1 {
		return math.Inf(1)
	}
	return p.period * (2 / math.Pi) * mathext.CompleteK(m)
}

// DampedPeriod is the period of the linearised damped oscillator.
// It returns NaN when gamma = k/2I reaches omega0 and no oscillation exists.
func (p *Pendulum) DampedPeriod(k float64) float64 {
	gamma := k / (2 * p.inertia)
	if gamma >= p.omega0 {
		return math.NaN()
	}
	omegaD := math.Sqrt(p.omega0*p.omega0 - gamma*gamma)
	return 2 * math.Pi / omegaD
}
