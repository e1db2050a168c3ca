// Package integrators advances states across a time grid.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Stepper advances a state by one step of size h starting at time t.
type Stepper interface {
	Name() string
	Order() int
	Step(f dynamo.DerivativeFunc, x dynamo.State, t, h float64) (dynamo.State, error)
}

// Integrate produces one state per grid sample. The grid is checked before
// any derivative evaluation, row 0 is a copy of x0 and each later row is built
// from the previous one with h = grid[k+1] - grid[k]. Any failure discards
// the rows computed so far and comes back as a *dynamo.SimulationError
// naming the step and the time it started from.
func Integrate(s Stepper, f dynamo.DerivativeFunc, grid dynamo.TimeGrid, x0 dynamo.State) (dynamo.Trajectory, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	traj := make(dynamo.Trajectory, len(grid))
	traj[0] = x0.Clone()

	for k := 0; k < len(grid)-1; k++ {
		t := grid[k]
		h := grid[k+1] - t

		next, err := s.Step(f, traj[k], t, h)
		if err != nil {
			return nil, &dynamo.SimulationError{Step: k, Time: t, Wrapped: err}
		}
		traj[k+1] = next
	}

	return traj, nil
}

var registry = map[string]func() Stepper{
	"rk4":   func() Stepper { return NewRK4() },
	"euler": func() Stepper { return NewEuler() },
}

// New returns the stepper registered under name.
func New(name string) (Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
