// Package physics implements the two secondary-motion models driven by
// a moving anchor:
//
//   - [RigidPendulum]: a rigid rod swinging under gravity, thrown around
//     by the acceleration of its pivot
//   - [SpringPendulum]: a damped point mass hanging from the anchor on a
//     spring with a configurable resonant frequency
//
// The set is closed. [System] is sealed and [Tick] dispatches with an
// exhaustive type switch; there is no registration hook for other models.
//
// Every quantity a model reads comes from [Props], where each tunable is
// the product of an authored base value and a runtime offset:
//
//	p := physics.DefaultProps()
//	p.Length = 120
//	p.OffsetLength = 1.1 // animated at runtime
//	_ = p.FinalLength()  // 132
//
// Coordinates are screen space in pixels with +y pointing down, so a
// pendulum at rest hangs at anchor + (0, length).
package physics
