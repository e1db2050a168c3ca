// Package metrics holds diagnostics computed over finished trajectories.
package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Standard returns fresh instances of every conservation metric.
func Standard() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewCenterOfMassDrift(),
	}
}

// EnergyDrift tracks the largest relative deviation of total energy from
// its value at the first observed row.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, masses dynamo.Masses, t float64) {
	energy := physics.Energy(x, masses)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
