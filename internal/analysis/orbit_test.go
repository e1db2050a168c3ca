package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func TestFFT_Impulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0, 0, 0, 0, 0})
	for k, v := range out {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", k, v)
		}
	}
}

func TestPadPow2(t *testing.T) {
	if got := len(PadPow2(make([]float64, 5))); got != 8 {
		t.Errorf("padded length = %d, want 8", got)
	}
	if got := len(PadPow2(make([]float64, 16))); got != 16 {
		t.Errorf("padded length = %d, want 16", got)
	}
}

func TestDominantPeriod_Sine(t *testing.T) {
	grid := dynamo.Uniform(0, 1, 1024)
	series := make([]float64, len(grid))
	for i, tt := range grid {
		series[i] = 3 + math.Sin(2*math.Pi*tt/64)
	}

	period, err := DominantPeriod(series, grid)
	if err != nil {
		t.Fatalf("dominant period: %v", err)
	}
	if math.Abs(period-64) > 1e-9 {
		t.Errorf("period = %v, want 64", period)
	}
}

func TestDominantPeriod_Constant(t *testing.T) {
	grid := dynamo.Uniform(0, 1, 16)
	series := make([]float64, 16)
	for i := range series {
		series[i] = 2
	}
	if _, err := DominantPeriod(series, grid); !errors.Is(err, ErrNoPeriod) {
		t.Errorf("expected ErrNoPeriod, got %v", err)
	}
}

func TestSeparationAndClosestApproach(t *testing.T) {
	traj := dynamo.Trajectory{
		{0, 0, 0, 3, 4, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0},
	}
	grid := dynamo.TimeGrid{0, 0.5, 1}

	sep := Separation(traj, 0, 1)
	want := []float64{5, 1, 2}
	for i := range want {
		if sep[i] != want[i] {
			t.Errorf("sep[%d] = %v, want %v", i, sep[i], want[i])
		}
	}

	a, err := ClosestApproach(traj, grid, 0, 1)
	if err != nil {
		t.Fatalf("closest approach: %v", err)
	}
	if a.Index != 1 || a.Time != 0.5 || a.Distance != 1 {
		t.Errorf("unexpected approach %+v", a)
	}

	if _, err := ClosestApproach(traj, grid[:2], 0, 1); err == nil {
		t.Error("expected error for misaligned grid")
	}
}
