// Package particles simulates the visible grains of solute in the beaker.
//
// Two engines each own a [Pool]:
//
//   - [ShakerParticles]: grains falling from the shaker. Stepped once per
//     frame; integrates motion under gravity, bounces off the beaker's left
//     wall and dissolves grains that reach the solution surface, crediting
//     their moles to the solution.
//   - [PrecipitateParticles]: grains resting on the beaker floor. Not
//     stepped; the pool is reconciled against the solution's precipitate
//     amount whenever it changes.
//
// Both engines flush their pool when the solute changes, except for
// updates flagged as restoring, which leave repopulation to
// [ShakerParticles.Restore] and [PrecipitateParticles.Restore].
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. Engines run on the
// host's update goroutine, inside property notifications.
package particles
