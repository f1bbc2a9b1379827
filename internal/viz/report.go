package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/physics"
)

const labelWidth = 16

var (
	reportLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(labelWidth)
	reportValue = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	reportTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	reportError = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
)

// PlotSeries renders values as an asciigraph line chart. Long series are
// resampled to the chart width.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// FormatPeriod prints a period in seconds or "n/a" for the NaN sentinel.
func FormatPeriod(T float64) string {
	if math.IsNaN(T) {
		return "n/a"
	}
	if math.IsInf(T, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.6f s", T)
}

func formatPercent(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return fmt.Sprintf("%+.4f%%", 100*x)
}

func row(label, value string) string {
	return reportLabel.Render(label) + reportValue.Render(value) + "\n"
}

// Report summarises a single run: initial conditions, termination, period
// against theory and the collected metrics.
func Report(run *experiment.Run, p *physics.Pendulum) string {
	traj := run.Trajectory
	theory := p.LargeAmplitudePeriod(run.Theta0)
	if run.Damping > 0 {
		theory = p.DampedPeriod(run.Damping)
	}

	var s strings.Builder
	s.WriteString(reportTitle.Render("PENDULUM RUN") + "\n")
	s.WriteString(row("theta0", fmt.Sprintf("%.4f rad (%.2f deg)", run.Theta0, run.Theta0*180/math.Pi)))
	s.WriteString(row("damping k", fmt.Sprintf("%.4f", run.Damping)))
	s.WriteString(row("integrator", run.Integrator))
	s.WriteString(row("dt", fmt.Sprintf("%.3e s", traj.Dt)))
	s.WriteString(row("steps", fmt.Sprintf("%d", traj.Len()-1)))
	s.WriteString(row("duration", fmt.Sprintf("%.4f s", traj.Duration())))
	s.WriteString(row("peaks", fmt.Sprintf("%d", traj.Peaks)))
	s.WriteString(row("stopped by", traj.Reason.String()))
	s.WriteString("\n")
	s.WriteString(row("T numeric", FormatPeriod(run.Period)))
	s.WriteString(row("T theory", FormatPeriod(theory)))
	s.WriteString(row("T0", FormatPeriod(p.SmallAnglePeriod())))
	if run.HasPeriod() {
		s.WriteString(row("rel. error", formatPercent((run.Period-theory)/theory)))
	}

	if len(run.Metrics) > 0 {
		s.WriteString("\n")
		for _, k := range sortedKeys(run.Metrics) {
			s.WriteString(row(k, fmt.Sprintf("%.6g", run.Metrics[k])))
		}
	}
	return GlassPanel.Render(s.String())
}

// SweepTable tabulates sweep points. kind is "amplitude" or "damping" and
// selects how the swept parameter is printed.
func SweepTable(kind string, points []experiment.SweepPoint) string {
	var s strings.Builder
	param := "theta0 (deg)"
	if kind == "damping" {
		param = "k"
	}
	s.WriteString(tableHeader.Render(fmt.Sprintf("%-14s %-14s %-14s %-12s %-6s %s", param, "T numeric", "T theory", "rel. error", "peaks", "stop")) + "\n")
	s.WriteString(Separator(76) + "\n")
	for _, pt := range points {
		p := pt.Param
		if kind != "damping" {
			p = p * 180 / math.Pi
		}
		if pt.Err != nil {
			s.WriteString(fmt.Sprintf("%-14.4f ", p) + reportError.Render(pt.Err.Error()) + "\n")
			continue
		}
		s.WriteString(fmt.Sprintf("%-14.4f %-14s %-14s %-12s %-6d %s\n",
			p, shortPeriod(pt.Numeric), shortPeriod(pt.Theory), formatPercent(pt.RelativeError()), pt.Peaks, pt.Reason))
	}
	return s.String()
}

func shortPeriod(T float64) string {
	switch {
	case math.IsNaN(T):
		return "n/a"
	case math.IsInf(T, 1):
		return "inf"
	}
	return fmt.Sprintf("%.6f", T)
}

// ComparisonReport lays the undamped and damped runs side by side.
func ComparisonReport(c *experiment.Comparison) string {
	col := func(title string, r *experiment.Run) string {
		var s strings.Builder
		s.WriteString(reportTitle.Render(title) + "\n")
		s.WriteString(row("k", fmt.Sprintf("%.4f", r.Damping)))
		s.WriteString(row("T numeric", FormatPeriod(r.Period)))
		s.WriteString(row("peaks", fmt.Sprintf("%d", r.Trajectory.Peaks)))
		s.WriteString(row("stopped by", r.Trajectory.Reason.String()))
		s.WriteString(row("energy loss", fmt.Sprintf("%.6g", r.Metrics["energy_loss"])))
		return GlassPanel.Render(s.String())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, col("UNDAMPED", c.Free), " ", col("DAMPED", c.Damped))

	var s strings.Builder
	s.WriteString(body + "\n")
	s.WriteString(row("T0", FormatPeriod(c.TheoryPeriod)))
	s.WriteString(row("T damped theory", FormatPeriod(c.TheoryDamped)))
	s.WriteString(row("period change", formatPercent(c.PeriodChange)))
	return s.String()
}

// IntegratorTable prints one row per integrator.
func IntegratorTable(reports []experiment.IntegratorReport) string {
	var s strings.Builder
	s.WriteString(tableHeader.Render(fmt.Sprintf("%-12s %-14s %-14s %-14s %-10s %s", "integrator", "T numeric", "energy drift", "energy loss", "steps", "elapsed")) + "\n")
	s.WriteString(Separator(80) + "\n")
	for _, r := range reports {
		if r.Err != nil {
			s.WriteString(fmt.Sprintf("%-12s ", r.Name) + reportError.Render(r.Err.Error()) + "\n")
			continue
		}
		s.WriteString(fmt.Sprintf("%-12s %-14s %-14.6g %-14.6g %-10d %s\n",
			r.Name, shortPeriod(r.Period), r.EnergyDrift, r.EnergyLoss, r.Steps, r.Elapsed.Round(time.Microsecond)))
	}
	return s.String()
}

// TheoryReport prints the analytic periods for p at theta0 and k.
func TheoryReport(p *physics.Pendulum, theta0, k float64) string {
	var s strings.Builder
	s.WriteString(reportTitle.Render("THEORY") + "\n")
	params := p.Params()
	for _, key := range sortedKeys(params) {
		s.WriteString(row(key, fmt.Sprintf("%.6g", params[key])))
	}
	s.WriteString("\n")
	s.WriteString(row("T0", FormatPeriod(p.SmallAnglePeriod())))
	s.WriteString(row("T(theta0)", FormatPeriod(p.LargeAmplitudePeriod(theta0))))
	s.WriteString(row("T damped", FormatPeriod(p.DampedPeriod(k))))
	s.WriteString(row("critical k", fmt.Sprintf("%.6g", p.CriticalDamping())))
	s.WriteString(row("max time", fmt.Sprintf("%.6g s", p.MaxTime())))
	return GlassPanel.Render(s.String())
}
