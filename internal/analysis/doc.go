// Package analysis derives orbital quantities from a finished trajectory.
//
//   - [Separation]: distance between two bodies at every sample
//   - [ClosestApproach]: minimum of that distance and when it happened
//   - [DominantPeriod]: strongest periodic component of a sampled series
//   - [PowerSpectrum]: magnitude spectrum used by [DominantPeriod]
//
// # Orbital Period
//
// The period of a planet around the Sun can be read off its heliocentric
// distance:
//
//	sep := analysis.Separation(traj, sun, earth)
//	period, err := analysis.DominantPeriod(sep, grid)
package analysis
