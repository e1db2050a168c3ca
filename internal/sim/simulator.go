// Package sim is the composition root of a run: it binds a mass table into
// the gravity model and drives an integrator across the time grid.
package sim

import (
	"context"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

const tracerName = "github.com/san-kum/orbitsim/internal/sim"

type Result struct {
	Trajectory  dynamo.Trajectory
	Times       dynamo.TimeGrid
	Metrics     map[string]float64
	Evaluations int
	Elapsed     time.Duration
}

// Driver holds only configuration; every Run starts from scratch, so one
// Driver may be reused and shared.
type Driver struct {
	stepper integrators.Stepper
	workers int
	metrics func() []dynamo.Metric
	logger  *log.Logger
	tracer  trace.Tracer
}

type Option func(*Driver)

// WithStepper replaces the default RK4 stepper.
func WithStepper(s integrators.Stepper) Option {
	return func(d *Driver) { d.stepper = s }
}

// WithWorkers lets the force model spread large systems over n goroutines.
func WithWorkers(n int) Option {
	return func(d *Driver) { d.workers = n }
}

// WithMetrics installs a factory producing fresh metrics for each run.
func WithMetrics(factory func() []dynamo.Metric) Option {
	return func(d *Driver) { d.metrics = factory }
}

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Driver) { d.tracer = t }
}

func New(opts ...Option) *Driver {
	d := &Driver{
		stepper: integrators.NewRK4(),
		workers: 1,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(tracerName)
	}
	return d
}

func (d *Driver) Stepper() integrators.Stepper { return d.stepper }

// Run integrates the system described by masses and x0 over grid. Shape
// and mass problems are reported before the integrator is touched; a
// collision aborts the whole run and no trajectory is returned.
func (d *Driver) Run(ctx context.Context, masses dynamo.Masses, x0 dynamo.State, grid dynamo.TimeGrid) (*Result, error) {
	_, span := d.tracer.Start(ctx, "sim.Run", trace.WithAttributes(
		attribute.Int("bodies", len(masses)),
		attribute.Int("samples", len(grid)),
		attribute.String("stepper", d.stepper.Name()),
	))
	defer span.End()

	result, err := d.run(masses, x0, grid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Printf("run failed: bodies=%d samples=%d: %v", len(masses), len(grid), err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("evaluations", result.Evaluations))
	d.logger.Printf("run complete: bodies=%d samples=%d evaluations=%d elapsed=%s",
		len(masses), len(grid), result.Evaluations, result.Elapsed)
	return result, nil
}

func (d *Driver) run(masses dynamo.Masses, x0 dynamo.State, grid dynamo.TimeGrid) (*Result, error) {
	if _, err := x0.Bodies(); err != nil {
		return nil, err
	}
	if err := masses.CheckShape(x0); err != nil {
		return nil, err
	}
	if err := masses.Validate(); err != nil {
		return nil, err
	}

	grav := &physics.Gravity{
		Masses:  masses,
		G:       physics.G,
		Workers: d.workers,
	}

	evaluations := 0
	derive := func(x dynamo.State, t float64) (dynamo.State, error) {
		evaluations++
		return grav.Derive(x, t)
	}

	start := time.Now()
	traj, err := integrators.Integrate(d.stepper, derive, grid, x0)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory:  traj,
		Times:       grid,
		Metrics:     make(map[string]float64),
		Evaluations: evaluations,
		Elapsed:     time.Since(start),
	}

	if d.metrics != nil {
		ms := d.metrics()
		for _, m := range ms {
			m.Reset()
		}
		for k, x := range traj {
			for _, m := range ms {
				m.Observe(x, masses, grid[k])
			}
		}
		for _, m := range ms {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	return result, nil
}
