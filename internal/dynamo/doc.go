// Package dynamo provides the shared data conventions for N-body integration.
//
// The package defines the flat state layout every other package agrees on:
//
//   - [State]: 6N reals, all positions (AU) followed by all velocities (AU/day)
//   - [Masses]: N positive masses (kg), parallel to body indices
//   - [TimeGrid]: strictly increasing sample instants (days)
//   - [Trajectory]: one [State] per grid sample
//   - [DerivativeFunc]: the time derivative of a [State]
//
// # Layout
//
// Body i occupies columns [3i, 3i+3) for its position and [3N+3i, 3N+3i+3)
// for its velocity:
//
//	x := dynamo.State{x0, y0, z0, x1, y1, z1, vx0, vy0, vz0, vx1, vy1, vz1}
//	n, _ := x.Bodies() // 2
//	p1 := x.Position(1)
//
// # Immutability
//
// The arithmetic helpers never modify their receiver; every stage of an
// integration step produces a new vector.
package dynamo
