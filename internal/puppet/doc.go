// Package puppet is a small in-memory rig: a tree of named nodes whose
// translations follow scripted motions, and a table of 2D parameters.
// It implements rig.Rig so scenes can be simulated without a renderer.
package puppet
