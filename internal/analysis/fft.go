package analysis

import (
	"math"
	"math/cmplx"
)

// maxSpectrumSamples caps the FFT input; longer series are decimated.
const maxSpectrumSamples = 1 << 15

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Spectrum is the one-sided magnitude spectrum of a uniformly sampled signal.
type Spectrum struct {
	Power []float64
	// BinWidth is the frequency spacing between bins, in Hz.
	BinWidth float64
}

// SpectrumOf removes the mean of theta, zero-pads it to a power of two and
// returns its magnitude spectrum. t must be uniformly spaced.
func SpectrumOf(t, theta []float64) Spectrum {
	n := len(theta)
	if len(t) < n {
		n = len(t)
	}
	if n < 2 {
		return Spectrum{}
	}

	stride := 1
	for n/stride > maxSpectrumSamples {
		stride *= 2
	}
	m := (n + stride - 1) / stride
	dt := (t[n-1] - t[0]) / float64(n-1) * float64(stride)

	size := 1
	for size < m {
		size *= 2
	}

	mean := 0.0
	for i := 0; i < m; i++ {
		mean += theta[i*stride]
	}
	mean /= float64(m)

	padded := make([]float64, size)
	for i := 0; i < m; i++ {
		padded[i] = theta[i*stride] - mean
	}

	return Spectrum{
		Power:    PowerSpectrum(padded),
		BinWidth: 1 / (float64(size) * dt),
	}
}

// DominantPeriod returns the period of the strongest non-DC spectral bin,
// or NaN when the signal is flat. Resolution is limited by the bin width,
// so this is a coarse cross-check on EstimatePeriod.
func DominantPeriod(t, theta []float64) float64 {
	s := SpectrumOf(t, theta)
	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > maxPower {
			maxPower = s.Power[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-12 {
		return math.NaN()
	}
	return 1 / (float64(maxIdx) * s.BinWidth)
}
