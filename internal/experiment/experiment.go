// Package experiment turns a run configuration into a ready driver and its
// inputs.
package experiment

import (
	"context"
	"fmt"
	"log"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ephemeris"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/sim"
)

type Experiment struct {
	cfg    *config.Config
	system *ephemeris.System
	grid   dynamo.TimeGrid
	driver *sim.Driver
}

// New validates cfg and resolves its system and integrator.
func New(cfg *config.Config, registry *Registry, logger *log.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	system, err := registry.GetSystem(cfg.System, cfg.Bodies)
	if err != nil {
		return nil, err
	}

	stepper, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{
		sim.WithStepper(stepper),
		sim.WithWorkers(cfg.Workers),
	}
	if cfg.Metrics {
		opts = append(opts, sim.WithMetrics(metrics.Standard))
	}
	if logger != nil {
		opts = append(opts, sim.WithLogger(logger))
	}

	return &Experiment{
		cfg:    cfg,
		system: system,
		grid:   cfg.Grid(),
		driver: sim.New(opts...),
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.driver.Run(ctx, e.system.Masses(), e.system.State(), e.grid)
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) System() *ephemeris.System { return e.system }
func (e *Experiment) Grid() dynamo.TimeGrid     { return e.grid }
func (e *Experiment) Driver() *sim.Driver       { return e.driver }
