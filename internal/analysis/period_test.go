package analysis

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

func TestEstimatePeriodNoPeaks(t *testing.T) {
	ts := linspace(0, 1, 1000)

	tests := []struct {
		name  string
		theta []float64
	}{
		{"flat", make([]float64, len(ts))},
		{"monotonic", linspace(1, 0, len(ts))},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if T := EstimatePeriod(ts, tt.theta); !math.IsNaN(T) {
				t.Errorf("expected NaN, got %f", T)
			}
		})
	}
}

func TestEstimatePeriodSinglePeak(t *testing.T) {
	ts := []float64{0, 1, 2, 3, 4}
	theta := []float64{0, 1, 2, 1, 0}
	if T := EstimatePeriod(ts, theta); !math.IsNaN(T) {
		t.Errorf("expected NaN for one peak, got %f", T)
	}
}

func TestEstimatePeriodSine(t *testing.T) {
	g := NewWithT(t)

	ts := linspace(0, 10, 10001)
	theta := make([]float64, len(ts))
	for i, x := range ts {
		theta[i] = 0.3 * math.Cos(2*math.Pi*x/1.7)
	}

	g.Expect(EstimatePeriod(ts, theta)).To(BeNumerically("~", 1.7, 2e-3))
	g.Expect(PeakTimes(ts, theta)).To(HaveLen(5))
}

func TestEstimatePeriodIrregularSpacing(t *testing.T) {
	ts := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	theta := []float64{0, 1, 0, 0, 1, 0, 1, 0}
	// peaks at t=1, 4, 6 -> diffs 3, 2 -> mean 2.5
	if T := EstimatePeriod(ts, theta); T != 2.5 {
		t.Errorf("expected 2.5, got %f", T)
	}
}

func TestPeakIndicesStrict(t *testing.T) {
	idx := PeakIndices([]float64{0, 1, 1, 0, 2, 0})
	if len(idx) != 1 || idx[0] != 4 {
		t.Errorf("expected only index 4, got %v", idx)
	}
}

func TestRelativeError(t *testing.T) {
	if e := RelativeError(1.02, 1.0); math.Abs(e-0.02) > 1e-12 {
		t.Errorf("expected 0.02, got %f", e)
	}
	if e := RelativeError(math.NaN(), 1.0); !math.IsNaN(e) {
		t.Errorf("expected NaN, got %f", e)
	}
	if HasPeriod(math.NaN()) || !HasPeriod(2) {
		t.Error("HasPeriod misclassifies values")
	}
}
