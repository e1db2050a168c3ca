package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// G is the gravitational constant in AU^3 kg^-1 day^-2.
const G = 1.48819e-34

// ParallelThreshold is the body count below which Derive never fans out.
const ParallelThreshold = 32

// Gravity is the context value for one run: the mass table, the coupling
// constant and the number of goroutines the acceleration loop may use.
type Gravity struct {
	Masses  dynamo.Masses
	G       float64
	Workers int
}

// NewGravity returns a sequential model using the standard constant.
func NewGravity(masses dynamo.Masses) *Gravity {
	return &Gravity{
		Masses:  masses,
		G:       G,
		Workers: 1,
	}
}

// Derivative is the plain form of the force model. It validates its inputs
// on every call; collisions are reported with Time 0 since no instant is
// known here.
func Derivative(x dynamo.State, masses dynamo.Masses) (dynamo.State, error) {
	if err := masses.Validate(); err != nil {
		return nil, err
	}
	return NewGravity(masses).Derive(x, 0)
}

func (g *Gravity) Bodies() int { return len(g.Masses) }

// Derive returns [velocities, accelerations] for x. It matches
// dynamo.DerivativeFunc.
func (g *Gravity) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := g.Masses.CheckShape(x); err != nil {
		return nil, err
	}

	n := len(g.Masses)
	half := n * dynamo.Dim
	dx := make(dynamo.State, len(x))
	copy(dx[:half], x[half:])

	acc := dx[half:]
	compute := func(start, end int) error {
		return g.accumulate(x, acc, start, end, t)
	}

	var err error
	if g.Workers > 1 && n >= ParallelThreshold {
		err = dynamo.ParallelFor(n, ParallelThreshold/4, g.Workers, compute)
	} else {
		err = compute(0, n)
	}
	if err != nil {
		return nil, err
	}

	return dx, nil
}

// accumulate writes the acceleration of bodies [start, end) into acc.
// Each body only writes its own three slots, so disjoint ranges can run
// concurrently.
func (g *Gravity) accumulate(x, acc dynamo.State, start, end int, t float64) error {
	n := len(g.Masses)

	for i := start; i < end; i++ {
		xi, yi, zi := x[i*3], x[i*3+1], x[i*3+2]
		ax, ay, az := 0.0, 0.0, 0.0

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			rx := x[j*3] - xi
			ry := x[j*3+1] - yi
			rz := x[j*3+2] - zi
			r := math.Sqrt(rx*rx + ry*ry + rz*rz)

			if r == 0 {
				a, b := i, j
				if b < a {
					a, b = b, a
				}
				return &dynamo.CollisionError{I: a, J: b, Time: t, State: x.Clone()}
			}

			f := g.G * g.Masses[j] / (r * r * r)
			ax += f * rx
			ay += f * ry
			az += f * rz
		}

		acc[i*3] = ax
		acc[i*3+1] = ay
		acc[i*3+2] = az
	}

	return nil
}

// Energy returns kinetic plus potential energy in kg AU^2 day^-2.
// Coincident pairs are skipped.
func Energy(x dynamo.State, masses dynamo.Masses) float64 {
	n := len(masses)
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		v := x.Velocity(i)
		ke += 0.5 * masses[i] * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])

		pi := x.Position(i)
		for j := i + 1; j < n; j++ {
			pj := x.Position(j)
			r := distance(pi, pj)
			if r == 0 {
				continue
			}
			pe -= G * masses[i] * masses[j] / r
		}
	}

	return ke + pe
}

func Momentum(x dynamo.State, masses dynamo.Masses) [3]float64 {
	var p [3]float64
	for i, m := range masses {
		v := x.Velocity(i)
		for k := 0; k < 3; k++ {
			p[k] += m * v[k]
		}
	}
	return p
}

func AngularMomentum(x dynamo.State, masses dynamo.Masses) [3]float64 {
	var L [3]float64
	for i, m := range masses {
		r := x.Position(i)
		v := x.Velocity(i)
		L[0] += m * (r[1]*v[2] - r[2]*v[1])
		L[1] += m * (r[2]*v[0] - r[0]*v[2])
		L[2] += m * (r[0]*v[1] - r[1]*v[0])
	}
	return L
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(x dynamo.State, masses dynamo.Masses) [3]float64 {
	var c [3]float64
	total := masses.Total()
	if total == 0 {
		return c
	}
	for i, m := range masses {
		r := x.Position(i)
		for k := 0; k < 3; k++ {
			c[k] += m * r[k]
		}
	}
	for k := range c {
		c[k] /= total
	}
	return c
}

func distance(a, b [3]float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	dz := b[2] - a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
