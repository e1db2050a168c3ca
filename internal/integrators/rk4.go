package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// RK4 is the classic four-stage fixed-step Runge-Kutta method. It keeps no
// state between steps and is safe to share.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Order() int { return 4 }

// Step advances x from t to t+h. Every stage input is a new vector; x is
// left untouched.
func (r *RK4) Step(f dynamo.DerivativeFunc, x dynamo.State, t, h float64) (dynamo.State, error) {
	halfH := h * 0.5

	k1, err := f(x, t)
	if err != nil {
		return nil, err
	}

	k2, err := f(x.AddScaled(k1, halfH), t+halfH)
	if err != nil {
		return nil, err
	}

	k3, err := f(x.AddScaled(k2, halfH), t+halfH)
	if err != nil {
		return nil, err
	}

	k4, err := f(x.AddScaled(k3, h), t+h)
	if err != nil {
		return nil, err
	}

	n := len(x)
	result := make(dynamo.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result, nil
}

// Integrate runs RK4 over grid starting from x0.
func (r *RK4) Integrate(f dynamo.DerivativeFunc, grid dynamo.TimeGrid, x0 dynamo.State) (dynamo.Trajectory, error) {
	return Integrate(r, f, grid, x0)
}
