package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

const maxPlots = 6

type loadedRun struct {
	meta  *storage.RunMetadata
	times dynamo.TimeGrid
	traj  dynamo.Trajectory
}

func loadRun(cmd *cobra.Command, runID string) (*loadedRun, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	meta, err := st.Load(cmd.Context(), runID)
	if err != nil {
		return nil, err
	}
	times, traj, err := st.LoadTrajectory(cmd.Context(), runID)
	if err != nil {
		return nil, err
	}
	if len(traj) == 0 {
		return nil, fmt.Errorf("run %s has no data", runID)
	}
	return &loadedRun{meta: meta, times: times, traj: traj}, nil
}

func (r *loadedRun) bodyIndex(name string) (int, error) {
	for i, b := range r.meta.Bodies {
		if strings.EqualFold(b, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("run %s has no body %q (bodies: %s)", r.meta.ID, name, strings.Join(r.meta.Bodies, ", "))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tBODIES\tDAYS\tSTEP\tINTEG\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%g\t%s\t%d\n",
			run.ID,
			run.System,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Days,
			run.Step,
			run.Integrator,
			run.Samples,
		)
	}

	return w.Flush()
}

func parseAxis(name string) (func(dynamo.Trajectory, int, int) []float64, int, error) {
	name = strings.ToLower(name)
	switch name {
	case "x", "y", "z":
		return dynamo.Trajectory.PositionSeries, int(name[0] - 'x'), nil
	case "vx", "vy", "vz":
		return dynamo.Trajectory.VelocitySeries, int(name[1] - 'x'), nil
	default:
		return nil, 0, fmt.Errorf("axis must be one of x, y, z, vx, vy, vz, got %q", name)
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	series, ax, err := parseAxis(axis)
	if err != nil {
		return err
	}
	unit := "AU"
	if strings.HasPrefix(strings.ToLower(axis), "v") {
		unit = "AU/day"
	}

	indices := make([]int, 0, len(run.meta.Bodies))
	if bodyName != "" {
		i, err := run.bodyIndex(bodyName)
		if err != nil {
			return err
		}
		indices = append(indices, i)
	} else {
		for i := range run.meta.Bodies {
			if len(indices) == maxPlots {
				break
			}
			indices = append(indices, i)
		}
	}

	fmt.Printf("run: %s\n", run.meta.ID)
	fmt.Printf("system: %s\n", run.meta.System)
	fmt.Printf("samples: %d\n\n", len(run.traj))

	if overlay {
		all := make([][]float64, len(run.meta.Bodies))
		names := make([]string, 0, len(indices))
		for _, i := range indices {
			all[i] = series(run.traj, i, ax)
			names = append(names, run.meta.Bodies[i])
		}
		caption := fmt.Sprintf("%s (%s) vs time (days): %s", axis, unit, strings.Join(names, ", "))
		fmt.Println(viz.PlotMany(all, caption, 80, 15))
		return nil
	}

	for _, i := range indices {
		caption := fmt.Sprintf("%s %s (%s) vs time (days)", run.meta.Bodies[i], axis, unit)
		fmt.Println(viz.BodyStyle(i).Render(viz.PlotSeries(series(run.traj, i, ax), caption, 80, 10)))
		fmt.Println()
	}
	return nil
}

func orbitRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	p := export.Plane(strings.ToLower(plane))
	ax, ay, err := p.Axes()
	if err != nil {
		return err
	}

	m, err := viz.OrbitMap(run.traj, ax, ay, 60, 30)
	if err != nil {
		return err
	}
	fmt.Println(viz.Panel.Render(viz.Title.Render(run.meta.ID+" ("+string(p)+")") + "\n" + m))

	if svgPath == "" {
		return nil
	}
	svg, err := export.OrbitSVG(run.traj, run.meta.Bodies, p, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	i, err := run.bodyIndex(bodyName)
	if err != nil {
		return err
	}
	j, err := run.bodyIndex(refName)
	if err != nil {
		return err
	}
	if i == j {
		return fmt.Errorf("body and reference are both %s", run.meta.Bodies[i])
	}

	fmt.Printf("orbit analysis: %s\n", run.meta.ID)
	fmt.Printf("%s relative to %s\n\n", run.meta.Bodies[i], run.meta.Bodies[j])

	sep := analysis.Separation(run.traj, i, j)
	fmt.Println(viz.PlotSeries(sep, "separation (AU) vs time (days)", 80, 10))
	fmt.Println()

	ps := analysis.PowerSpectrum(sep)
	if len(ps) > 4 {
		fmt.Println(viz.PlotSeries(ps[1:len(ps)/4], "power spectrum of separation", 80, 10))
		fmt.Println()
	}

	closest, err := analysis.ClosestApproach(run.traj, run.times, i, j)
	if err != nil {
		return err
	}
	fmt.Printf("closest approach: %.6f AU at t=%.2f days\n", closest.Distance, closest.Time)
	fmt.Printf("farthest:         %.6f AU\n", maxOf(sep))

	period, err := analysis.DominantPeriod(sep, run.times)
	switch {
	case errors.Is(err, analysis.ErrNoPeriod):
		fmt.Println(viz.Warning.Render("no periodic signal in separation"))
	case err != nil:
		return err
	default:
		fmt.Printf("dominant period:  %.2f days\n", period)
	}
	return nil
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}

// outputWriter returns stdout unless -o was given.
func outputWriter() (io.Writer, func() error, error) {
	if output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	doc, err := export.NewDocument(run.meta.System, run.meta.Integrator, run.meta.Bodies, run.meta.Masses, run.times, run.traj, run.meta.Metrics)
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, doc); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter()
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, run.meta.Bodies, run.times, run.traj); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}

// importJSON catalogs a document written by export-json, so runs can move
// between data directories.
func importJSON(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	doc, err := export.ReadJSON(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	times := dynamo.TimeGrid(doc.Times)
	if err := times.Validate(); err != nil {
		return err
	}
	traj := doc.Trajectory()
	if _, err := export.NewDocument(doc.System, doc.Integrator, doc.Bodies, doc.Masses, times, traj, doc.Metrics); err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	meta := storage.RunMetadata{
		System:     doc.System,
		Integrator: doc.Integrator,
		Start:      times[0],
		Days:       times.Span(),
		Bodies:     doc.Bodies,
		Masses:     doc.Masses,
		Metrics:    doc.Metrics,
	}
	if len(times) > 1 {
		meta.Step = times[1] - times[0]
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.Save(cmd.Context(), meta, &sim.Result{Trajectory: traj, Times: times, Metrics: doc.Metrics})
	if err != nil {
		return err
	}
	fmt.Printf("imported %s as %s (%d samples)\n", args[0], runID, len(traj))
	return nil
}
