package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Job is one independent run for an Ensemble.
type Job struct {
	Driver  *Driver
	Masses  dynamo.Masses
	Initial dynamo.State
	Grid    dynamo.TimeGrid
}

// Ensemble runs independent jobs concurrently, at most limit at a time.
// Each job is itself sequential in time.
type Ensemble struct {
	limit int
}

func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{limit: limit}
}

// Run returns results in job order, or the first error encountered.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Driver.Run(ctx, job.Masses, job.Initial, job.Grid)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
