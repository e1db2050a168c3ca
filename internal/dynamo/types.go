package dynamo

import (
	"fmt"
	"math"
)

// Components per body in each half of the state (x, y, z).
const Dim = 3

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Bodies returns N for a 6N-length state.
func (s State) Bodies() (int, error) {
	if len(s) == 0 || len(s)%(2*Dim) != 0 {
		return 0, &ShapeMismatchError{StateLen: len(s), Bodies: -1}
	}
	return len(s) / (2 * Dim), nil
}

func (s State) half() int { return len(s) / 2 }

// Position returns body i's position. The state must be well formed.
func (s State) Position(i int) [3]float64 {
	return [3]float64{s[i*Dim], s[i*Dim+1], s[i*Dim+2]}
}

// Velocity returns body i's velocity. The state must be well formed.
func (s State) Velocity(i int) [3]float64 {
	off := s.half() + i*Dim
	return [3]float64{s[off], s[off+1], s[off+2]}
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + other[i]
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// AddScaled returns s + h*k as a new vector.
func (s State) AddScaled(k State, h float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + h*k[i]
	}
	return result
}

// DerivativeFunc computes d(state)/dt. The time argument is only used to
// give failures context; the gravitational model is autonomous.
type DerivativeFunc func(x State, t float64) (State, error)

type Masses []float64

// Validate checks that there is at least one body and every mass is a
// finite positive number.
func (m Masses) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidMass)
	}
	for i, v := range m {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: body %d has mass %g", ErrInvalidMass, i, v)
		}
	}
	return nil
}

// CheckShape verifies that x has exactly 6 entries per mass.
func (m Masses) CheckShape(x State) error {
	if len(x) != 2*Dim*len(m) {
		return &ShapeMismatchError{StateLen: len(x), Bodies: len(m)}
	}
	return nil
}

func (m Masses) Total() float64 {
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum
}

// TimeGrid holds the sample instants in days.
type TimeGrid []float64

// Validate requires at least one finite sample and strictly increasing values.
func (g TimeGrid) Validate() error {
	if len(g) == 0 {
		return &InvalidTimeGridError{Index: 0, Reason: "empty grid"}
	}
	for i, t := range g {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return &InvalidTimeGridError{Index: i, Prev: t, Next: t, Reason: "non-finite sample"}
		}
		if i > 0 && !(t > g[i-1]) {
			return &InvalidTimeGridError{Index: i, Prev: g[i-1], Next: t, Reason: "not strictly increasing"}
		}
	}
	return nil
}

// Span is the elapsed time between the first and last samples.
func (g TimeGrid) Span() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1] - g[0]
}

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) TimeGrid {
	if n <= 0 {
		return TimeGrid{}
	}
	g := make(TimeGrid, n)
	if n == 1 {
		g[0] = start
		return g
	}
	step := (stop - start) / float64(n-1)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	g[n-1] = stop
	return g
}

// Uniform returns n samples start, start+step, ...
func Uniform(start, step float64, n int) TimeGrid {
	if n <= 0 {
		return TimeGrid{}
	}
	g := make(TimeGrid, n)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	return g
}

// Trajectory holds one state per time grid sample, in order.
type Trajectory []State

// Matrix returns the [T x 6N] row-major view. Rows are shared, not copied.
func (tr Trajectory) Matrix() [][]float64 {
	m := make([][]float64, len(tr))
	for i, row := range tr {
		m[i] = row
	}
	return m
}

// PositionSeries returns one position component of body i for every row.
func (tr Trajectory) PositionSeries(i, axis int) []float64 {
	out := make([]float64, len(tr))
	for k, row := range tr {
		out[k] = row[i*Dim+axis]
	}
	return out
}

// VelocitySeries returns one velocity component of body i for every row.
func (tr Trajectory) VelocitySeries(i, axis int) []float64 {
	out := make([]float64, len(tr))
	for k, row := range tr {
		out[k] = row[row.half()+i*Dim+axis]
	}
	return out
}

// Metric accumulates a diagnostic over the rows of a trajectory.
type Metric interface {
	Name() string
	Observe(x State, masses Masses, t float64)
	Value() float64
	Reset()
}
