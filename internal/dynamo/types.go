package dynamo

import "math"

// State is a single sample of the pendulum: time, angle and angular velocity.
type State struct {
	T     float64
	Theta float64
	Omega float64
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.T, s.Theta, s.Omega} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dynamics returns the angular acceleration for a given angle and velocity.
type Dynamics interface {
	Accel(theta, omega float64) float64
}

// DynamicsFunc adapts a plain function to Dynamics.
type DynamicsFunc func(theta, omega float64) float64

func (f DynamicsFunc) Accel(theta, omega float64) float64 { return f(theta, omega) }

type Integrator interface {
	Name() string
	Step(dyn Dynamics, x State, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State)
	Value() float64
	Reset()
}

// StopReason records which termination condition ended a run.
type StopReason int

const (
	StopNone StopReason = iota
	StopOscillations
	StopTimeBudget
	StopDiverged
)

func (r StopReason) String() string {
	switch r {
	case StopOscillations:
		return "oscillations"
	case StopTimeBudget:
		return "time_budget"
	case StopDiverged:
		return "diverged"
	default:
		return "none"
	}
}

// Trajectory holds three aligned sequences starting at the seed state.
// Times are strictly increasing.
type Trajectory struct {
	Times  []float64
	Angles []float64
	Omegas []float64

	Dt      float64
	Damping float64
	Peaks   int
	Reason  StopReason
}

// NewTrajectory seeds a trajectory at (0, theta0, 0) with room for capacity samples.
func NewTrajectory(theta0 float64, capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	tr := &Trajectory{
		Times:  make([]float64, 0, capacity),
		Angles: make([]float64, 0, capacity),
		Omegas: make([]float64, 0, capacity),
	}
	tr.Append(State{T: 0, Theta: theta0, Omega: 0})
	return tr
}

func (tr *Trajectory) Append(x State) {
	tr.Times = append(tr.Times, x.T)
	tr.Angles = append(tr.Angles, x.Theta)
	tr.Omegas = append(tr.Omegas, x.Omega)
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) At(i int) State {
	return State{T: tr.Times[i], Theta: tr.Angles[i], Omega: tr.Omegas[i]}
}

func (tr *Trajectory) Last() State { return tr.At(tr.Len() - 1) }

func (tr *Trajectory) Duration() float64 {
	if tr.Len() == 0 {
		return 0
	}
	return tr.Times[tr.Len()-1] - tr.Times[0]
}

// Decimate returns every stride-th sample, always keeping the last one.
// Used to keep exported and plotted series at a manageable size.
func (tr *Trajectory) Decimate(maxPoints int) *Trajectory {
	n := tr.Len()
	if maxPoints <= 1 || n <= maxPoints {
		return tr
	}
	stride := (n + maxPoints - 1) / maxPoints
	out := &Trajectory{
		Times:   make([]float64, 0, maxPoints+1),
		Angles:  make([]float64, 0, maxPoints+1),
		Omegas:  make([]float64, 0, maxPoints+1),
		Dt:      tr.Dt * float64(stride),
		Damping: tr.Damping,
		Peaks:   tr.Peaks,
		Reason:  tr.Reason,
	}
	for i := 0; i < n; i += stride {
		out.Append(tr.At(i))
	}
	if (n-1)%stride != 0 {
		out.Append(tr.Last())
	}
	return out
}
