package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/storage"
	"github.com/san-kum/pendsim/internal/viz"
)

func storedPendulum(meta *storage.RunMetadata) (*physics.Pendulum, error) {
	return physics.NewPendulum(meta.Physical["mass"], meta.Physical["radius"], meta.Physical["gravity"])
}

func storedPeriod(meta *storage.RunMetadata) float64 {
	if meta.Period == nil {
		return math.NaN()
	}
	return *meta.Period
}

func sortedMetricKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTHETA0\tK\tINTEG\tPEAKS\tSTOP\tPERIOD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f°\t%.4g\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Theta0*180/math.Pi,
			run.Damping,
			run.Integrator,
			run.Peaks,
			run.Stop,
			viz.FormatPeriod(storedPeriod(&run)),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, energy, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("run %s has no samples", meta.ID)
	}

	fmt.Printf("run:        %s\n", meta.ID)
	fmt.Printf("time:       %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("theta0:     %.4f rad (%.2f deg)\n", meta.Theta0, meta.Theta0*180/math.Pi)
	fmt.Printf("damping:    %.4g\n", meta.Damping)
	fmt.Printf("integrator: %s (dt %.3e)\n", meta.Integrator, meta.Dt)
	fmt.Printf("stopped:    %s after %d steps, %d peaks\n", meta.Stop, meta.Steps, meta.Peaks)
	fmt.Printf("period:     %s\n", viz.FormatPeriod(storedPeriod(meta)))
	for _, k := range sortedMetricKeys(meta.Metrics) {
		fmt.Printf("%-11s %.6g\n", k+":", meta.Metrics[k])
	}
	fmt.Println()

	thin := traj.Decimate(chartPoints)
	fmt.Println(viz.PlotSeries(thin.Angles, "theta (rad)", 80, 10))
	fmt.Println()

	stride := max(len(energy)/chartPoints, 1)
	e := make([]float64, 0, chartPoints+1)
	for i := 0; i < len(energy); i += stride {
		e = append(e, energy[i])
	}
	fmt.Println(viz.PlotSeries(e, "energy (J)", 80, 6))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	traj, energy, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	out, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"time", "theta", "omega", "energy"}); err != nil {
		return err
	}
	for i := 0; i < traj.Len(); i++ {
		row := []string{
			strconv.FormatFloat(traj.Times[i], 'f', 6, 64),
			strconv.FormatFloat(traj.Angles[i], 'f', 8, 64),
			strconv.FormatFloat(traj.Omegas[i], 'f', 8, 64),
			strconv.FormatFloat(energy[i], 'f', 8, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, energy, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	out, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := storage.ExportJSON(out, *meta, traj, energy); err != nil {
		return err
	}
	return closeFn()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, energy, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if traj.Len() < 3 {
		return fmt.Errorf("run %s: not enough samples to analyze", meta.ID)
	}
	p, err := storedPendulum(meta)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	spec := analysis.SpectrumOf(traj.Times, traj.Angles)
	if n := len(spec.Power) / 8; n > 1 {
		fmt.Println(viz.PlotSeries(spec.Power[:n], "power spectrum (theta)", 80, 12))
		fmt.Println()
	}

	peaks := analysis.PeakTimes(traj.Times, traj.Angles)
	period := analysis.EstimatePeriod(traj.Times, traj.Angles)
	theory := p.LargeAmplitudePeriod(meta.Theta0)
	if meta.Damping > 0 {
		theory = p.DampedPeriod(meta.Damping)
	}

	fmt.Printf("peaks found:     %d\n", len(peaks))
	fmt.Printf("peak period:     %s\n", viz.FormatPeriod(period))
	fmt.Printf("fft period:      %s\n", viz.FormatPeriod(analysis.DominantPeriod(traj.Times, traj.Angles)))
	fmt.Printf("theory period:   %s\n", viz.FormatPeriod(theory))
	if analysis.HasPeriod(period) {
		fmt.Printf("relative error:  %.4f%%\n", 100*analysis.RelativeError(period, theory))
	}
	fmt.Printf("energy drift:    %.6g\n", metrics.Drift(energy))
	fmt.Println()

	fmt.Println(analysis.NewPhasePortrait(traj, 4000).ToASCII(60, 20))
	return nil
}
