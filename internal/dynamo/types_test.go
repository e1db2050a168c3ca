package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Bodies(t *testing.T) {
	tests := []struct {
		name    string
		len     int
		want    int
		wantErr bool
	}{
		{"empty", 0, 0, true},
		{"one body", 6, 1, false},
		{"ten bodies", 60, 10, false},
		{"not multiple of six", 7, 0, true},
		{"odd triple", 9, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := make(State, tt.len).Bodies()
			if tt.wantErr {
				if !errors.Is(err, ErrShapeMismatch) {
					t.Fatalf("expected ErrShapeMismatch, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.want {
				t.Errorf("Bodies() = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestState_Layout(t *testing.T) {
	x := State{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}

	if p := x.Position(1); p != [3]float64{4, 5, 6} {
		t.Errorf("Position(1) = %v", p)
	}
	if v := x.Velocity(0); v != [3]float64{7, 8, 9} {
		t.Errorf("Velocity(0) = %v", v)
	}
	if v := x.Velocity(1); v != [3]float64{10, 11, 12} {
		t.Errorf("Velocity(1) = %v", v)
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	stage := a.AddScaled(b, 0.5)
	if stage[0] != 3 || stage[1] != 4.5 || stage[2] != 6 {
		t.Errorf("AddScaled failed: got %v", stage)
	}

	if a[0] != 1 || a[1] != 2 || a[2] != 3 {
		t.Errorf("receiver mutated: %v", a)
	}
}

func TestMasses_Validate(t *testing.T) {
	tests := []struct {
		name    string
		masses  Masses
		wantErr bool
	}{
		{"ok", Masses{1.989e30, 5.97e24}, false},
		{"empty", Masses{}, true},
		{"zero", Masses{1, 0}, true},
		{"negative", Masses{-1}, true},
		{"NaN", Masses{math.NaN()}, true},
		{"Inf", Masses{math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.masses.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidMass) {
				t.Errorf("expected ErrInvalidMass, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMasses_CheckShape(t *testing.T) {
	m := Masses{1, 1}
	if err := m.CheckShape(make(State, 12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := m.CheckShape(make(State, 6))
	var shapeErr *ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeMismatchError, got %v", err)
	}
	if shapeErr.StateLen != 6 || shapeErr.Bodies != 2 {
		t.Errorf("unexpected context: %+v", shapeErr)
	}
}

func TestTimeGrid_Validate(t *testing.T) {
	tests := []struct {
		name      string
		grid      TimeGrid
		wantErr   bool
		wantIndex int
	}{
		{"single sample", TimeGrid{0}, false, 0},
		{"increasing", TimeGrid{0, 1, 2.5, 3}, false, 0},
		{"empty", TimeGrid{}, true, 0},
		{"repeated", TimeGrid{0, 1, 1, 2}, true, 2},
		{"decreasing", TimeGrid{0, 2, 1}, true, 2},
		{"NaN", TimeGrid{0, math.NaN()}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var gridErr *InvalidTimeGridError
			if !errors.As(err, &gridErr) {
				t.Fatalf("expected *InvalidTimeGridError, got %v", err)
			}
			if gridErr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", gridErr.Index, tt.wantIndex)
			}
			if !errors.Is(err, ErrInvalidTimeGrid) {
				t.Error("error does not unwrap to ErrInvalidTimeGrid")
			}
		})
	}
}

func TestLinspace(t *testing.T) {
	g := Linspace(0, 10, 11)
	if len(g) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(g))
	}
	for i, v := range g {
		if math.Abs(v-float64(i)) > 1e-12 {
			t.Errorf("g[%d] = %v", i, v)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("linspace grid invalid: %v", err)
	}

	if g := Linspace(3, 5, 1); len(g) != 1 || g[0] != 3 {
		t.Errorf("single sample linspace = %v", g)
	}
}

func TestUniform(t *testing.T) {
	g := Uniform(1, 0.5, 4)
	want := TimeGrid{1, 1.5, 2, 2.5}
	for i := range want {
		if g[i] != want[i] {
			t.Errorf("g[%d] = %v, want %v", i, g[i], want[i])
		}
	}
	if g.Span() != 1.5 {
		t.Errorf("Span() = %v", g.Span())
	}
}

func TestTrajectory_Series(t *testing.T) {
	tr := Trajectory{
		{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3},
		{10, 0, 0, 11, 1, 1, 12, 2, 2, 13, 3, 3},
	}

	xs := tr.PositionSeries(1, 0)
	if xs[0] != 1 || xs[1] != 11 {
		t.Errorf("PositionSeries = %v", xs)
	}

	vs := tr.VelocitySeries(1, 0)
	if vs[0] != 3 || vs[1] != 13 {
		t.Errorf("VelocitySeries = %v", vs)
	}

	if m := tr.Matrix(); len(m) != 2 || len(m[0]) != 12 {
		t.Errorf("Matrix shape = %dx%d", len(m), len(m[0]))
	}
}

func TestSimulationError(t *testing.T) {
	cause := &CollisionError{I: 0, J: 1, Time: 2}
	err := &SimulationError{Step: 3, Time: 2, Wrapped: cause}

	if !errors.Is(err, ErrCollision) {
		t.Error("SimulationError does not unwrap to ErrCollision")
	}
	want := "step 3 (t=2.0000): dynamo: bodies collided: bodies 0 and 1 share a position at t=2"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParallelFor(t *testing.T) {
	var covered [100]int32
	err := ParallelFor(100, 10, 4, func(start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&covered[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range covered {
		if c != 1 {
			t.Errorf("index %d visited %d times", i, c)
		}
	}

	boom := errors.New("boom")
	err = ParallelFor(100, 10, 4, func(start, end int) error {
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected chunk error, got %v", err)
	}
}
