// Package optim picks run parameters by sweeping candidate values.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/sim"
)

type Trial struct {
	Step   float64
	Result *sim.Result
}

// StepSearch runs one experiment per candidate step size and reports the
// largest step whose metric stays within tolerance.
type StepSearch struct {
	steps     []float64
	metric    string
	tolerance float64
}

func NewStepSearch(steps []float64, metric string, tolerance float64) *StepSearch {
	sorted := append([]float64(nil), steps...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return &StepSearch{steps: sorted, metric: metric, tolerance: tolerance}
}

// Steps returns the candidates, largest first.
func (s *StepSearch) Steps() []float64 { return s.steps }

// Search returns every trial, largest step first, and the best step. ok is
// false when no candidate met the tolerance.
func (s *StepSearch) Search(
	ctx context.Context,
	build func(step float64) (*experiment.Experiment, error),
) (trials []Trial, best float64, ok bool, err error) {
	trials = make([]Trial, 0, len(s.steps))
	for _, h := range s.steps {
		exp, err := build(h)
		if err != nil {
			return trials, 0, false, fmt.Errorf("step %g: %w", h, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return trials, 0, false, fmt.Errorf("step %g: %w", h, err)
		}
		trials = append(trials, Trial{Step: h, Result: res})
	}
	best, ok = s.Best(trials)
	return trials, best, ok, nil
}

// Best picks the largest step in trials whose metric is finite and within
// tolerance.
func (s *StepSearch) Best(trials []Trial) (float64, bool) {
	best, ok := 0.0, false
	for _, tr := range trials {
		v, present := tr.Result.Metrics[s.metric]
		if !present || math.IsNaN(v) || math.IsInf(v, 0) || v > s.tolerance {
			continue
		}
		if !ok || tr.Step > best {
			best, ok = tr.Step, true
		}
	}
	return best, ok
}
