package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/optim"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

var benchSteps = []float64{8, 4, 2, 1, 0.5}

func benchSystem(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	logger := newLogger()

	steps := make([]float64, 0, len(benchSteps))
	for _, h := range benchSteps {
		if h <= base.Days {
			steps = append(steps, h)
		}
	}

	search := optim.NewStepSearch(steps, "energy_drift", tolerance)
	trials, best, ok, err := search.Search(cmd.Context(), func(h float64) (*experiment.Experiment, error) {
		cfg := *base
		cfg.Step = h
		cfg.Metrics = true
		return experiment.New(&cfg, registry, logger)
	})
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s with %s over %g days\n\n", base.System, base.Integrator, base.Days)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSAMPLES\tEVALS\tTIME\tEVALS/SEC\tENERGY DRIFT")

	for _, tr := range trials {
		res := tr.Result
		rate := float64(res.Evaluations) / res.Elapsed.Seconds()
		fmt.Fprintf(w, "%g\t%d\t%d\t%v\t%.0f\t%.3e\n",
			tr.Step, len(res.Trajectory), res.Evaluations, res.Elapsed, rate, res.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if ok {
		fmt.Printf("largest step within %.1e energy drift: %g days\n", tolerance, best)
	} else {
		fmt.Println(viz.Warning.Render(fmt.Sprintf("no step met %.1e energy drift", tolerance)))
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	logger := newLogger()

	jobs := make([]sim.Job, 0, len(args))
	var n int
	for _, name := range args {
		cfg := *base
		cfg.Integrator = name
		cfg.Metrics = true

		exp, err := experiment.New(&cfg, registry, logger)
		if err != nil {
			return err
		}
		n = len(exp.System().Bodies)
		jobs = append(jobs, sim.Job{
			Driver:  exp.Driver(),
			Masses:  exp.System().Masses(),
			Initial: exp.System().State(),
			Grid:    exp.Grid(),
		})
	}

	results, err := sim.NewEnsemble(parallel).Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	fmt.Printf("comparing on %s over %g days (h=%g), reference %s\n\n", base.System, base.Days, base.Step, args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tEVALS\tTIME\tENERGY DRIFT\tMOMENTUM DRIFT\tFINAL DEVIATION (AU)")

	ref := results[0].Trajectory[len(results[0].Trajectory)-1]
	for k, res := range results {
		final := res.Trajectory[len(res.Trajectory)-1]
		fmt.Fprintf(w, "%s\t%d\t%v\t%.3e\t%.3e\t%.3e\n",
			args[k], res.Evaluations, res.Elapsed,
			res.Metrics["energy_drift"], res.Metrics["momentum_drift"],
			maxDeviation(ref, final, n))
	}

	return w.Flush()
}

// maxDeviation is the largest position difference of any single body.
func maxDeviation(a, b dynamo.State, n int) float64 {
	worst := 0.0
	for i := range n {
		pa, pb := a.Position(i), b.Position(i)
		d := math.Sqrt((pa[0]-pb[0])*(pa[0]-pb[0]) + (pa[1]-pb[1])*(pa[1]-pb[1]) + (pa[2]-pb[2])*(pa[2]-pb[2]))
		worst = math.Max(worst, d)
	}
	return worst
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if parallel != 0 {
		scenario.Parallel = parallel
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("running scenario %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	outcomes, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), st, newLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSAMPLES\tTIME\tENERGY DRIFT")
	for i, o := range outcomes {
		name := o.Step.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%.3e\n",
			name, o.RunID, len(o.Result.Trajectory), o.Result.Elapsed, o.Result.Metrics["energy_drift"])
	}
	return w.Flush()
}
