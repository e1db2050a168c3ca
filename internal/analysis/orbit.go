package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

var ErrNoPeriod = errors.New("analysis: no periodic component found")

// Separation returns |r_j - r_i| for every row.
func Separation(traj dynamo.Trajectory, i, j int) []float64 {
	out := make([]float64, len(traj))
	for k, row := range traj {
		a := row.Position(i)
		b := row.Position(j)
		dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
		out[k] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return out
}

type Approach struct {
	Index    int
	Time     float64
	Distance float64
}

// ClosestApproach returns the sample at which bodies i and j are nearest.
func ClosestApproach(traj dynamo.Trajectory, grid dynamo.TimeGrid, i, j int) (Approach, error) {
	if len(traj) == 0 || len(traj) != len(grid) {
		return Approach{}, fmt.Errorf("trajectory has %d rows for %d samples", len(traj), len(grid))
	}
	sep := Separation(traj, i, j)
	best := Approach{Index: 0, Time: grid[0], Distance: sep[0]}
	for k, d := range sep {
		if d < best.Distance {
			best = Approach{Index: k, Time: grid[k], Distance: d}
		}
	}
	return best, nil
}

// DominantPeriod returns the period, in grid units, of the strongest
// non-constant frequency in series. The grid must be uniform; only its
// first step is used to convert bins to time.
func DominantPeriod(series []float64, grid dynamo.TimeGrid) (float64, error) {
	if len(series) < 4 || len(series) != len(grid) {
		return 0, fmt.Errorf("need at least 4 aligned samples, got %d values for %d times", len(series), len(grid))
	}

	ps := PowerSpectrum(series)
	n := 2 * len(ps)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0, ErrNoPeriod
	}

	dt := grid[1] - grid[0]
	return float64(n) * dt / float64(maxIdx), nil
}
