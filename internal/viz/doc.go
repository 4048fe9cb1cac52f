// Package viz renders a running scene in the terminal.
//
// The live view is a Bubble Tea program around a [sim.Simulator]:
//
//   - [Model]: steps the scene at 60fps, draws anchors and bobs on a
//     braille [Canvas], graphs each parameter's output and lets the
//     user tune runtime offsets of the selected driver
//   - [Watcher]: reports edits to scene files so the view can reload
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	R     - Reset scene and offsets
//	Tab   - Select next driver
//	O     - Select next offset
//	Up/K  - Offset +5%
//	Down/J - Offset -5%
//	0     - Clear offsets of every driver
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
