package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pendsim/internal/experiment"
)

var pngMagic = []byte("\x89PNG")

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestSaveSeries(t *testing.T) {
	xs := make([]float64, 100)
	ys := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i) * 0.1
		ys[i] = math.Sin(xs[i])
	}

	path := filepath.Join(t.TempDir(), "nested", "theta.png")
	if err := SaveSeries(path, "theta(t)", "time (s)", "theta (rad)", Series{Name: "theta", X: xs, Y: ys}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	assertPNG(t, path)
}

func TestSaveSeriesRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := SaveSeries(path, "empty", "x", "y"); err == nil {
		t.Error("expected error for no series")
	}
	if err := SaveSeries(path, "mismatch", "x", "y", Series{X: []float64{1, 2}, Y: []float64{1}}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestSaveSweep(t *testing.T) {
	points := []experiment.SweepPoint{
		{Param: 0.1, Numeric: 2.243, Theory: 2.244},
		{Param: 0.5, Numeric: 2.28, Theory: 2.279},
		{Param: 2.8, Numeric: math.NaN(), Theory: 4.1},
	}

	path := filepath.Join(t.TempDir(), "sweep.png")
	if err := SaveSweep(path, "amplitude", points, 2.243); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	assertPNG(t, path)

	if err := SaveSweep(path, "damping", nil, 2.243); err == nil {
		t.Error("expected error for empty sweep")
	}
}
