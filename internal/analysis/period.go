package analysis

import "math"

// PeakIndices returns every i with theta[i-1] < theta[i] > theta[i+1].
// Unlike the live counter in the simulator there is no suppression of
// adjacent peak samples.
func PeakIndices(theta []float64) []int {
	idx := make([]int, 0)
	for i := 1; i < len(theta)-1; i++ {
		if theta[i] > theta[i-1] && theta[i] > theta[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// PeakTimes maps PeakIndices onto the time axis.
func PeakTimes(t, theta []float64) []float64 {
	n := len(theta)
	if len(t) < n {
		n = len(t)
	}
	idx := PeakIndices(theta[:n])
	times := make([]float64, len(idx))
	for i, j := range idx {
		times[i] = t[j]
	}
	return times
}

// EstimatePeriod is the mean spacing between consecutive peaks. It returns
// NaN when fewer than two peaks exist.
func EstimatePeriod(t, theta []float64) float64 {
	peaks := PeakTimes(t, theta)
	if len(peaks) < 2 {
		return math.NaN()
	}
	sum := 0.0
	for i := 1; i < len(peaks); i++ {
		sum += peaks[i] - peaks[i-1]
	}
	return sum / float64(len(peaks)-1)
}

// HasPeriod reports whether T is a period rather than the no-period sentinel.
func HasPeriod(T float64) bool {
	return !math.IsNaN(T) && !math.IsInf(T, 0)
}

// RelativeError is |got - want| / |want|, NaN if either side has no value.
func RelativeError(got, want float64) float64 {
	if !HasPeriod(got) || !HasPeriod(want) || want == 0 {
		return math.NaN()
	}
	return math.Abs(got-want) / math.Abs(want)
}
