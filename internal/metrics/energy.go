package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

// Energy reports the mean mechanical energy over the observed samples.
type Energy struct {
	name        string
	pend        *physics.Pendulum
	samples     int
	totalEnergy float64
}

func NewEnergy(p *physics.Pendulum) *Energy {
	return &Energy{name: "energy", pend: p}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State) {
	e.totalEnergy += e.pend.Energy(x.Theta, x.Omega)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is (max E - min E) / mean E. For an undamped run it measures
// how well the integrator conserves energy.
type EnergyDrift struct {
	name    string
	pend    *physics.Pendulum
	min     float64
	max     float64
	sum     float64
	samples int
}

func NewEnergyDrift(p *physics.Pendulum) *EnergyDrift {
	d := &EnergyDrift{name: "energy_drift", pend: p}
	d.Reset()
	return d
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State) {
	energy := e.pend.Energy(x.Theta, x.Omega)
	e.min = math.Min(e.min, energy)
	e.max = math.Max(e.max, energy)
	e.sum += energy
	e.samples++
}

func (e *EnergyDrift) Value() float64 {
	if e.samples == 0 || e.sum == 0 {
		return 0
	}
	return (e.max - e.min) / (e.sum / float64(e.samples))
}

func (e *EnergyDrift) Reset() {
	e.min = math.Inf(1)
	e.max = math.Inf(-1)
	e.sum = 0
	e.samples = 0
}

// EnergyLoss is 1 - E_final / E_initial, the fraction of energy removed by
// damping over the run.
type EnergyLoss struct {
	name    string
	pend    *physics.Pendulum
	initial float64
	current float64
	samples int
}

func NewEnergyLoss(p *physics.Pendulum) *EnergyLoss {
	return &EnergyLoss{name: "energy_loss", pend: p}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x dynamo.State) {
	energy := e.pend.Energy(x.Theta, x.Omega)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return 1 - e.current/e.initial
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}

// Drift computes the EnergyDrift value directly from an energy series.
func Drift(energy []float64) float64 {
	if len(energy) == 0 {
		return 0
	}
	mean := floats.Sum(energy) / float64(len(energy))
	if mean == 0 {
		return 0
	}
	return (floats.Max(energy) - floats.Min(energy)) / mean
}
