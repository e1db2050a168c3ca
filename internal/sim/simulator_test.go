package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ephemeris"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// spyStepper records whether the driver ever reached the integrator.
type spyStepper struct {
	calls int
}

func (s *spyStepper) Name() string { return "spy" }
func (s *spyStepper) Order() int   { return 0 }
func (s *spyStepper) Step(f dynamo.DerivativeFunc, x dynamo.State, t, h float64) (dynamo.State, error) {
	s.calls++
	return x, nil
}

var _ = Describe("Driver", func() {
	var (
		ctx    context.Context
		driver *sim.Driver
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = sim.New()
	})

	Describe("a valid run", func() {
		var (
			system *ephemeris.System
			grid   dynamo.TimeGrid
		)

		BeforeEach(func() {
			var err error
			system, err = ephemeris.SolarSystem().Subset("Sun", "Earth", "Moon")
			Expect(err).NotTo(HaveOccurred())
			grid = dynamo.Uniform(0, 1, 30)
		})

		It("returns one row per sample and keeps the seed row exact", func() {
			x0 := system.State()

			res, err := driver.Run(ctx, system.Masses(), x0, grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trajectory).To(HaveLen(len(grid)))
			Expect(res.Times).To(Equal(grid))
			Expect(res.Trajectory[0]).To(Equal(x0))
			Expect(res.Evaluations).To(Equal(4 * (len(grid) - 1)))
		})

		It("keeps every row at the 6N width", func() {
			res, err := driver.Run(ctx, system.Masses(), system.State(), grid)
			Expect(err).NotTo(HaveOccurred())
			for _, row := range res.Trajectory {
				Expect(row).To(HaveLen(18))
				Expect(row.IsValid()).To(BeTrue())
			}
		})

		It("is stateless across calls", func() {
			first, err := driver.Run(ctx, system.Masses(), system.State(), grid)
			Expect(err).NotTo(HaveOccurred())

			other, _ := ephemeris.SolarSystem().Subset("Sun", "Jupiter")
			_, err = driver.Run(ctx, other.Masses(), other.State(), dynamo.Uniform(0, 10, 5))
			Expect(err).NotTo(HaveOccurred())

			second, err := driver.Run(ctx, system.Masses(), system.State(), grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Trajectory).To(Equal(first.Trajectory))
		})

		It("reports conservation metrics when asked", func() {
			driver = sim.New(sim.WithMetrics(metrics.Standard))

			res, err := driver.Run(ctx, system.Masses(), system.State(), grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKey("energy_drift"))
			Expect(res.Metrics).To(HaveKey("momentum_drift"))
			Expect(res.Metrics["com_drift"]).To(BeNumerically("<", 1e-9))
		})

		It("accepts an alternative stepper", func() {
			spy := &spyStepper{}
			driver = sim.New(sim.WithStepper(spy))

			res, err := driver.Run(ctx, system.Masses(), system.State(), grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(spy.calls).To(Equal(len(grid) - 1))
			Expect(res.Trajectory).To(HaveLen(len(grid)))
		})
	})

	Describe("a single body", func() {
		It("moves in a straight line", func() {
			x0 := dynamo.State{1, 2, 3, 0.1, -0.2, 0.05}
			grid := dynamo.Uniform(0, 0.5, 20)

			res, err := driver.Run(ctx, dynamo.Masses{1.98841e30}, x0, grid)
			Expect(err).NotTo(HaveOccurred())

			for k, row := range res.Trajectory {
				t := grid[k]
				for axis := 0; axis < 3; axis++ {
					want := x0[axis] + x0[3+axis]*t
					Expect(row[axis]).To(BeNumerically("~", want, 1e-12))
					Expect(row[3+axis]).To(Equal(x0[3+axis]))
				}
			}
		})
	})

	Describe("two bodies with equal and opposite momenta", func() {
		It("keeps the centre of mass stationary", func() {
			const m = 1e30
			masses := dynamo.Masses{2 * m, m}
			x0 := dynamo.State{
				-0.5, 0, 0,
				1, 0, 0,
				0, -0.005, 0,
				0, 0.01, 0,
			}
			grid := dynamo.Uniform(0, 1, 200)

			res, err := driver.Run(ctx, masses, x0, grid)
			Expect(err).NotTo(HaveOccurred())

			for _, row := range res.Trajectory {
				com := physics.CenterOfMass(row, masses)
				norm := math.Sqrt(com[0]*com[0] + com[1]*com[1] + com[2]*com[2])
				Expect(norm).To(BeNumerically("<", 1e-10))
			}
		})
	})

	Describe("failures", func() {
		It("fails with a collision when two bodies start at the same place", func() {
			x0 := dynamo.State{
				1, 1, 0,
				1, 1, 0,
				0, 0, 0,
				0, 0.01, 0,
			}

			res, err := driver.Run(ctx, dynamo.Masses{1e24, 1e24}, x0, dynamo.Uniform(0, 1, 10))
			Expect(res).To(BeNil())

			var collision *dynamo.CollisionError
			Expect(errors.As(err, &collision)).To(BeTrue())
			Expect(collision.I).To(Equal(0))
			Expect(collision.J).To(Equal(1))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(0))
			Expect(simErr.Time).To(Equal(0.0))
		})

		DescribeTable("rejects mis-shaped input before integrating",
			func(masses dynamo.Masses, stateLen int) {
				spy := &spyStepper{}
				driver = sim.New(sim.WithStepper(spy))

				res, err := driver.Run(ctx, masses, make(dynamo.State, stateLen), dynamo.Uniform(0, 1, 3))
				Expect(res).To(BeNil())
				Expect(err).To(MatchError(dynamo.ErrShapeMismatch))

				var shapeErr *dynamo.ShapeMismatchError
				Expect(errors.As(err, &shapeErr)).To(BeTrue())
				Expect(shapeErr.StateLen).To(Equal(stateLen))
				Expect(spy.calls).To(BeZero())
			},
			Entry("length not a multiple of six", dynamo.Masses{1}, 7),
			Entry("too few masses", dynamo.Masses{1}, 12),
			Entry("too many masses", dynamo.Masses{1, 1, 1}, 12),
			Entry("empty state", dynamo.Masses{1}, 0),
		)

		It("rejects non-positive masses", func() {
			_, err := driver.Run(ctx, dynamo.Masses{1, -1}, make(dynamo.State, 12), dynamo.Uniform(0, 1, 3))
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
		})

		It("rejects a time grid that is not strictly increasing", func() {
			x0 := dynamo.State{0, 0, 0, 0, 0, 0}
			_, err := driver.Run(ctx, dynamo.Masses{1}, x0, dynamo.TimeGrid{0, 1, 1, 2})
			Expect(err).To(MatchError(dynamo.ErrInvalidTimeGrid))

			var gridErr *dynamo.InvalidTimeGridError
			Expect(errors.As(err, &gridErr)).To(BeTrue())
			Expect(gridErr.Index).To(Equal(2))
		})
	})
})
