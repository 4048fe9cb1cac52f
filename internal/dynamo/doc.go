// Package dynamo provides the primitives shared by the physics core.
//
// The package defines the small vocabulary every other package speaks:
//
//   - [Vec2]: 2D vector used for anchors, bobs and parameter values
//   - [Linear]: constraint for integrable state types (add, scale)
//   - [State]: flat state vector for slice-based systems
//   - domain errors such as [ErrInvalidState] and [ErrUnknownNode]
//   - [ParallelFor]: chunked fan-out used by the parallel update pass
//
// # Example
//
//	next := integrators.StepRK4(s, t, dt, deriv)
//	if !dynamo.Finite(anchor) {
//	    // hold previous output
//	}
//
// # Thread Safety
//
// Values in this package are plain data and safe to copy. Nothing here
// holds shared mutable state.
package dynamo
