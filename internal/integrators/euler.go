package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// Euler is the explicit first-order method. It is only a reference point
// for comparing against RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Order() int { return 1 }

func (e *Euler) Step(f dynamo.DerivativeFunc, x dynamo.State, t, h float64) (dynamo.State, error) {
	dx, err := f(x, t)
	if err != nil {
		return nil, err
	}
	return x.AddScaled(dx, h), nil
}
