// Package export writes trajectories in the formats external consumers
// read: JSON documents, CSV tables and SVG orbit projections.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Document is the JSON shape of a finished run. States is the [T x 6N]
// row-major matrix in the usual position-then-velocity layout.
type Document struct {
	System     string             `json:"system"`
	Integrator string             `json:"integrator"`
	Bodies     []string           `json:"bodies"`
	Masses     []float64          `json:"masses"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// NewDocument checks that names, masses, times and rows line up.
func NewDocument(system, integrator string, names []string, masses dynamo.Masses, times dynamo.TimeGrid, traj dynamo.Trajectory, metrics map[string]float64) (*Document, error) {
	if len(names) != len(masses) {
		return nil, fmt.Errorf("%d names for %d masses", len(names), len(masses))
	}
	if len(times) != len(traj) {
		return nil, fmt.Errorf("%d times for %d rows", len(times), len(traj))
	}
	for k, row := range traj {
		if err := masses.CheckShape(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", k, err)
		}
	}

	return &Document{
		System:     system,
		Integrator: integrator,
		Bodies:     names,
		Masses:     masses,
		Steps:      len(times),
		Times:      times,
		States:     traj.Matrix(),
		Metrics:    metrics,
	}, nil
}

func WriteJSON(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Trajectory converts the document's matrix back into states.
func (d *Document) Trajectory() dynamo.Trajectory {
	traj := make(dynamo.Trajectory, len(d.States))
	for i, row := range d.States {
		traj[i] = row
	}
	return traj
}
