// Package plot writes PNG charts of runs and sweeps with gonum/plot.
package plot

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/pendsim/internal/experiment"
)

const (
	widthIn  = 8.0
	heightIn = 5.0
	dpi      = 150
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(lo, hi float64) []plot.Tick {
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil
		}
		if lo == hi {
			return []plot.Tick{{Value: lo, Label: fmt.Sprintf(labelFmt, lo)}}
		}
		step := (hi - lo) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := lo + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.3g")

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func savePNG(p *plot.Plot, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

// Series is one named line on a chart.
type Series struct {
	Name string
	X, Y []float64
}

// SaveSeries draws one or more line series on shared axes.
func SaveSeries(path, title, xlabel, ylabel string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("plot %q: no series", title)
	}

	p := newPlot(title, xlabel, ylabel)
	for i, s := range series {
		if len(s.X) != len(s.Y) || len(s.X) == 0 {
			return fmt.Errorf("plot %q: series %q has %d x and %d y values", title, s.Name, len(s.X), len(s.Y))
		}
		line, err := plotter.NewLine(xys(s.X, s.Y))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	return savePNG(p, path)
}

// SaveSweep draws measured periods as points, the theoretical prediction as
// a line and the small-angle period T0 as a dashed reference. Amplitude
// sweeps are plotted against degrees.
func SaveSweep(path, kind string, points []experiment.SweepPoint, t0 float64) error {
	if len(points) == 0 {
		return fmt.Errorf("sweep %s: no points", kind)
	}

	xlabel := "damping k (N m s)"
	title := "Period vs damping"
	scale := 1.0
	if kind == "amplitude" {
		xlabel = "release angle (deg)"
		title = "Period vs amplitude"
		scale = 180 / math.Pi
	}

	xs := make([]float64, len(points))
	numeric := make([]float64, len(points))
	theory := make([]float64, len(points))
	for i, pt := range points {
		xs[i] = pt.Param * scale
		numeric[i] = pt.Numeric
		theory[i] = pt.Theory
	}

	p := newPlot(title, xlabel, "period (s)")

	if pts := xys(xs, theory); len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(1)
		p.Add(line)
		p.Legend.Add("theory", line)
	}

	if pts := xys(xs, numeric); len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(0)
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("numeric", sc)
	}

	ref := plotter.NewFunction(func(float64) float64 { return t0 })
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	ref.LineStyle.Color = plotutil.Color(2)
	p.Add(ref)
	p.Legend.Add("T0", ref)

	return savePNG(p, path)
}
