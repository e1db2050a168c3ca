package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

var axes = [3]string{"x", "y", "z"}

// Header returns "time" followed by every position column and then every
// velocity column, named after the bodies.
func Header(names []string) []string {
	header := make([]string, 0, 1+6*len(names))
	header = append(header, "time")
	for _, name := range names {
		for _, a := range axes {
			header = append(header, name+"_"+a)
		}
	}
	for _, name := range names {
		for _, a := range axes {
			header = append(header, name+"_v"+a)
		}
	}
	return header
}

// WriteCSV writes one row per sample. Values use the shortest
// representation that parses back to the same float64.
func WriteCSV(w io.Writer, names []string, times dynamo.TimeGrid, traj dynamo.Trajectory) error {
	if len(times) != len(traj) {
		return fmt.Errorf("%d times for %d rows", len(times), len(traj))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(names)); err != nil {
		return err
	}

	width := 6 * len(names)
	for k, state := range traj {
		if len(state) != width {
			return fmt.Errorf("row %d has %d columns, want %d", k, len(state), width)
		}
		row := make([]string, 0, 1+width)
		row = append(row, strconv.FormatFloat(times[k], 'g', -1, 64))
		for _, v := range state {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Body names are recovered from
// the position columns.
func ReadCSV(r io.Reader) ([]string, dynamo.TimeGrid, dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil, fmt.Errorf("empty csv")
	}

	header := records[0]
	if len(header) < 1 || (len(header)-1)%6 != 0 {
		return nil, nil, nil, fmt.Errorf("header has %d columns", len(header))
	}
	n := (len(header) - 1) / 6
	names := make([]string, n)
	for i := range names {
		col := header[1+3*i]
		if len(col) < 2 {
			return nil, nil, nil, fmt.Errorf("bad column %q", col)
		}
		names[i] = col[:len(col)-2]
	}

	times := make(dynamo.TimeGrid, 0, len(records)-1)
	traj := make(dynamo.Trajectory, 0, len(records)-1)
	for line, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		state := make(dynamo.State, len(record)-1)
		for j := range state {
			state[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("line %d: %w", line+2, err)
			}
		}
		times = append(times, t)
		traj = append(traj, state)
	}

	return names, times, traj, nil
}
