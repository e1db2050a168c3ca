package physics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	sunMass   = 1.988410e30
	earthMass = 5.97219e24
)

func twoBodyState() dynamo.State {
	return dynamo.State{
		0, 0, 0,
		1, 0.2, -0.1,
		0, 0, 0,
		0, 0.0172, 0,
	}
}

func TestDerivative_SingleBodyHasNoAcceleration(t *testing.T) {
	x := dynamo.State{1, 2, 3, 0.1, -0.2, 0.3}
	dx, err := Derivative(x, dynamo.Masses{sunMass})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for k := 0; k < 3; k++ {
		if dx[k] != x[3+k] {
			t.Errorf("position derivative[%d] = %v, want velocity %v", k, dx[k], x[3+k])
		}
		if dx[3+k] != 0 {
			t.Errorf("acceleration[%d] = %v, want 0", k, dx[3+k])
		}
	}
}

func TestDerivative_Layout(t *testing.T) {
	x := twoBodyState()
	dx, err := Derivative(x, dynamo.Masses{sunMass, earthMass})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dx) != len(x) {
		t.Fatalf("derivative length %d, want %d", len(dx), len(x))
	}
	for k := 0; k < 6; k++ {
		if dx[k] != x[6+k] {
			t.Errorf("dx[%d] = %v, want velocity %v", k, dx[k], x[6+k])
		}
	}

	// Earth is pulled back toward the Sun at the origin.
	r := math.Sqrt(1 + 0.04 + 0.01)
	want := -G * sunMass * 1 / (r * r * r)
	if got := dx[9]; math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Errorf("earth ax = %v, want %v", got, want)
	}
}

func TestDerivative_NewtonsThirdLaw(t *testing.T) {
	masses := dynamo.Masses{sunMass, earthMass}
	dx, err := Derivative(twoBodyState(), masses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a0 := [3]float64{dx[6], dx[7], dx[8]}
	a1 := [3]float64{dx[9], dx[10], dx[11]}
	ratio := masses[1] / masses[0]

	for k := 0; k < 3; k++ {
		want := -ratio * a1[k]
		if math.Abs(a0[k]-want) > 1e-12*math.Abs(a1[k])*ratio+1e-300 {
			t.Errorf("axis %d: a0 = %v, want %v", k, a0[k], want)
		}

		dp := masses[0]*a0[k] + masses[1]*a1[k]
		scale := masses[1] * math.Abs(a1[k])
		if math.Abs(dp) > 1e-12*scale+1e-300 {
			t.Errorf("axis %d: momentum derivative %v not zero", k, dp)
		}
	}
}

func TestDerivative_Collision(t *testing.T) {
	x := dynamo.State{
		1, 1, 1,
		5, 5, 5,
		1, 1, 1,
		0, 0, 0,
		0, 0, 0,
		0, 0, 0,
	}
	grav := NewGravity(dynamo.Masses{1e24, 1e24, 1e24})

	dx, err := grav.Derive(x, 42)
	if dx != nil {
		t.Error("expected no derivative on collision")
	}

	var collision *dynamo.CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
	if collision.I != 0 || collision.J != 2 {
		t.Errorf("collision pair = (%d, %d), want (0, 2)", collision.I, collision.J)
	}
	if collision.Time != 42 {
		t.Errorf("collision time = %v, want 42", collision.Time)
	}
	if len(collision.State) != len(x) {
		t.Errorf("collision state length = %d", len(collision.State))
	}
}

func TestDerivative_ShapeMismatch(t *testing.T) {
	_, err := Derivative(make(dynamo.State, 6), dynamo.Masses{1, 1})
	if !errors.Is(err, dynamo.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	_, err = Derivative(make(dynamo.State, 6), dynamo.Masses{0})
	if !errors.Is(err, dynamo.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}
}

func randomCluster(n int, seed int64) (dynamo.State, dynamo.Masses) {
	rng := rand.New(rand.NewSource(seed))
	x := make(dynamo.State, 6*n)
	masses := make(dynamo.Masses, n)
	for i := range masses {
		masses[i] = 1e23 + rng.Float64()*1e27
	}
	for i := range x {
		x[i] = rng.NormFloat64() * 5
	}
	return x, masses
}

func TestGravity_ParallelMatchesSequential(t *testing.T) {
	x, masses := randomCluster(64, 7)

	seq := NewGravity(masses)
	par := NewGravity(masses)
	par.Workers = 4

	want, err := seq.Derive(x, 0)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	got, err := par.Derive(x, 0)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	for i := range want {
		tol := 1e-12 * (math.Abs(want[i]) + 1e-300)
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("component %d: parallel %v, sequential %v", i, got[i], want[i])
		}
	}
}

func TestGravity_ParallelCollision(t *testing.T) {
	x, masses := randomCluster(64, 11)
	copy(x[50*3:50*3+3], x[10*3:10*3+3])

	grav := NewGravity(masses)
	grav.Workers = 8

	_, err := grav.Derive(x, 1)
	var collision *dynamo.CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
	if collision.I != 10 || collision.J != 50 {
		t.Errorf("collision pair = (%d, %d), want (10, 50)", collision.I, collision.J)
	}
}

func TestEnergy_TwoBody(t *testing.T) {
	masses := dynamo.Masses{sunMass, earthMass}
	x := dynamo.State{
		0, 0, 0,
		1, 0, 0,
		0, 0, 0,
		0, 0.01, 0,
	}

	ke := 0.5 * earthMass * 0.01 * 0.01
	pe := -G * sunMass * earthMass
	want := ke + pe

	if got := Energy(x, masses); math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Errorf("Energy = %v, want %v", got, want)
	}
}

func TestMomentumAndCenterOfMass(t *testing.T) {
	masses := dynamo.Masses{3, 1}
	x := dynamo.State{
		0, 0, 0,
		4, 0, 0,
		1, 0, 0,
		-3, 2, 0,
	}

	p := Momentum(x, masses)
	if p != [3]float64{0, 2, 0} {
		t.Errorf("Momentum = %v", p)
	}

	c := CenterOfMass(x, masses)
	if c != [3]float64{1, 0, 0} {
		t.Errorf("CenterOfMass = %v", c)
	}

	L := AngularMomentum(x, masses)
	if L != [3]float64{0, 0, 8} {
		t.Errorf("AngularMomentum = %v", L)
	}
}

func BenchmarkDerive_SolarSized(b *testing.B) {
	x, masses := randomCluster(10, 1)
	grav := NewGravity(masses)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = grav.Derive(x, 0)
	}
}

func BenchmarkDerive_Parallel128(b *testing.B) {
	x, masses := randomCluster(128, 1)
	grav := NewGravity(masses)
	grav.Workers = 4

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = grav.Derive(x, 0)
	}
}
