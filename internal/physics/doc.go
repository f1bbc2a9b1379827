// Package physics models the damped physical pendulum.
//
// [Pendulum] carries the fixed constants (mass, radius, gravity, moment of
// inertia) together with the derived small-angle frequency, period and time
// budget. It provides:
//
//   - the equation of motion, [Pendulum.AngularAcceleration]
//   - mechanical energy, [Pendulum.Energy]
//   - closed-form periods for validation: [Pendulum.SmallAnglePeriod],
//     [Pendulum.LargeAmplitudePeriod] and [Pendulum.DampedPeriod]
//
// Theoretical periods return NaN when no oscillation exists.
package physics
