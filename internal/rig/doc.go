// Package rig binds physics models to a puppet.
//
// A [Driver] owns one physics system together with its parameter set,
// the node it hangs from and the animation parameter it writes. A [Pass]
// holds every driver of a puppet and runs them once per animation tick
// against a [Rig], the caller's node graph and parameter table:
//
//	pass := rig.NewPass(physics.DefaultEnv(), drivers...)
//	stats := pass.Update(puppet, dt)
//
// Drivers never read each other's output, so the pass may tick them in
// any order or concurrently; parameter writes always happen on the
// calling goroutine in driver order.
package rig
