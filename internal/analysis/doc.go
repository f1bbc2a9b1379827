// Package analysis extracts periods and spectra from pendulum trajectories.
//
//   - [EstimatePeriod]: mean spacing between strict local maxima of the angle
//   - [PeakIndices], [PeakTimes]: the maxima themselves
//   - [DominantPeriod]: FFT cross-check on the peak-based estimate
//   - [PhasePortrait]: (theta, omega) path rendered as ASCII
//
// # No-period sentinel
//
// A trace that does not oscillate has no period. The estimators return NaN
// in that case; use [HasPeriod] to test for it:
//
//	T := analysis.EstimatePeriod(traj.Times, traj.Angles)
//	if !analysis.HasPeriod(T) {
//	    // overdamped, flat or too short
//	}
package analysis
