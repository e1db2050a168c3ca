package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrShapeMismatch indicates a state whose length is not 6x the mass count.
	ErrShapeMismatch = errors.New("dynamo: state shape does not match body count")

	// ErrInvalidTimeGrid indicates an empty or non strictly increasing grid.
	ErrInvalidTimeGrid = errors.New("dynamo: invalid time grid")

	// ErrCollision indicates two bodies at exactly the same position.
	ErrCollision = errors.New("dynamo: bodies collided")

	// ErrInvalidMass indicates a missing, zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: invalid mass")
)

// ShapeMismatchError reports a state length that does not fit the body count.
// Bodies is -1 when the length is not a multiple of 6 at all.
type ShapeMismatchError struct {
	StateLen int
	Bodies   int
}

func (e *ShapeMismatchError) Error() string {
	if e.Bodies < 0 {
		return fmt.Sprintf("%s: length %d is not a positive multiple of %d", ErrShapeMismatch, e.StateLen, 2*Dim)
	}
	return fmt.Sprintf("%s: length %d, want %d for %d bodies", ErrShapeMismatch, e.StateLen, 2*Dim*e.Bodies, e.Bodies)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

type InvalidTimeGridError struct {
	Index  int
	Prev   float64
	Next   float64
	Reason string
}

func (e *InvalidTimeGridError) Error() string {
	if e.Index == 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidTimeGrid, e.Reason)
	}
	return fmt.Sprintf("%s: %s at sample %d (%g -> %g)", ErrInvalidTimeGrid, e.Reason, e.Index, e.Prev, e.Next)
}

func (e *InvalidTimeGridError) Unwrap() error { return ErrInvalidTimeGrid }

// CollisionError identifies the pair of bodies whose separation is exactly
// zero and the state being evaluated when it happened.
type CollisionError struct {
	I, J  int
	Time  float64
	State State
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: bodies %d and %d share a position at t=%g", ErrCollision, e.I, e.J, e.Time)
}

func (e *CollisionError) Unwrap() error { return ErrCollision }

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
