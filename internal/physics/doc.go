// Package physics provides the Newtonian gravity force model.
//
// [Gravity] binds a mass table to the all-pairs acceleration law and exposes
// it as a [dynamo.DerivativeFunc] through [Gravity.Derive]:
//
//	grav := physics.NewGravity(masses)
//	dx, err := grav.Derive(x, t)
//
// The derivative of every position is the body's velocity; the derivative of
// every velocity is the summed acceleration
//
//	G * m_j * (r_j - r_i) / |r_j - r_i|^3
//
// over all other bodies j. Two bodies at exactly the same position make the
// law singular and yield a [dynamo.CollisionError]. There is no softening.
//
// # Units
//
// Positions are in AU, velocities in AU/day, masses in kg and [G] is
// expressed in AU^3 kg^-1 day^-2.
//
// # Diagnostics
//
// [Energy], [Momentum], [AngularMomentum] and [CenterOfMass] evaluate the
// conserved quantities of a state and back the metrics package.
package physics
