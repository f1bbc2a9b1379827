// Package dynamo provides the core simulation primitives for the pendulum.
//
// The package defines the shared types every other package builds on:
//
//   - [State]: one integration sample (time, angle, angular velocity)
//   - [Trajectory]: the append-only history produced by a run
//   - [Dynamics]: angular acceleration as a function of angle and velocity
//   - [Integrator]: single fixed-step update rule
//   - [Metric]: per-sample observer summarised into one number
//
// # Example
//
//	p := physics.DefaultPendulum()
//	traj, _ := sim.Simulate(p, 0.2, sim.DefaultConfig())
//	period := analysis.EstimatePeriod(traj.Times, traj.Angles)
//
// # Thread Safety
//
// A [Trajectory] is immutable once returned and may be read from many
// goroutines. Integrators carry no state and are safe to share.
package dynamo
