package analysis

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for i, v := range out {
		if math.Abs(real(v)-1) > 1e-12 || math.Abs(imag(v)) > 1e-12 {
			t.Errorf("bin %d: expected 1, got %v", i, v)
		}
	}
}

func TestDominantPeriod(t *testing.T) {
	g := NewWithT(t)

	ts := linspace(0, 20, 20001)
	theta := make([]float64, len(ts))
	for i, x := range ts {
		theta[i] = math.Sin(2 * math.Pi * x / 2.0)
	}

	s := SpectrumOf(ts, theta)
	g.Expect(s.BinWidth).To(BeNumerically(">", 0))

	// Bin width is about 0.03 Hz here, so allow a few percent.
	g.Expect(DominantPeriod(ts, theta)).To(BeNumerically("~", 2.0, 0.1))
}

func TestDominantPeriodFlat(t *testing.T) {
	ts := linspace(0, 1, 100)
	if T := DominantPeriod(ts, make([]float64, len(ts))); !math.IsNaN(T) {
		t.Errorf("expected NaN for flat signal, got %f", T)
	}
}
