package rig

import (
	"math"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
)

const (
	// DefaultMaxStep is the longest single integration step a driver takes.
	DefaultMaxStep = 1.0 / 60.0
	// DefaultMaxSubsteps bounds the work done for one long frame. Frames
	// longer than MaxStep*MaxSubsteps are clamped.
	DefaultMaxSubsteps = 8
)

// NodeID identifies a node in the caller's node graph.
type NodeID string

// ParamID identifies an animation parameter.
type ParamID string

// Driver is one physics-enabled node: a model, its props and the
// parameter it drives. It is mutated only by its own Tick.
type Driver struct {
	Param     ParamID
	Node      NodeID
	System    physics.System
	MapMode   physics.MapMode
	Props     physics.Props
	LocalOnly bool

	// Anchor and Output as of the last successful tick.
	Anchor dynamo.Vec2
	Output dynamo.Vec2

	MaxStep     float64
	MaxSubsteps int

	hasAnchor bool
	held      bool
}

// NewDriver builds a driver with a fresh system of the given kind.
func NewDriver(param ParamID, node NodeID, kind physics.Kind, mode physics.MapMode, props physics.Props) (*Driver, error) {
	sys, err := physics.NewSystem(kind)
	if err != nil {
		return nil, err
	}
	return &Driver{
		Param:       param,
		Node:        node,
		System:      sys,
		MapMode:     mode,
		Props:       props,
		MaxStep:     DefaultMaxStep,
		MaxSubsteps: DefaultMaxSubsteps,
	}, nil
}

// Tick advances the driver's system by dt towards anchor and returns the
// mapped output. Long frames are split into equal substeps with the
// anchor interpolated linearly from the previous frame's anchor. A
// non-finite anchor, a dt that is zero, negative or non-finite, or a step
// the model refuses holds the previous output; see Held.
func (d *Driver) Tick(anchor dynamo.Vec2, env physics.Env, dt float64) dynamo.Vec2 {
	d.held = true
	if !dynamo.Finite(anchor) || !(dt > 0) || !dynamo.IsFinite(dt) {
		return d.Output
	}

	n, h := d.substeps(dt)
	from := anchor
	if d.hasAnchor {
		from = d.Anchor
	}

	var bob dynamo.Vec2
	for i := 1; i <= n; i++ {
		a := anchor
		if i < n {
			a = from.Add(anchor.Sub(from).Mul(float64(i) / float64(n)))
		}
		var ok bool
		if bob, ok = physics.Tick(d.System, a, &d.Props, env, d.MapMode, h); !ok {
			return d.Output
		}
	}

	out := physics.Map(d.MapMode, anchor, bob, &d.Props)
	if !dynamo.Finite(out) {
		return d.Output
	}
	d.Anchor = anchor
	d.hasAnchor = true
	d.Output = out
	d.held = false
	return d.Output
}

// Held reports whether the last Tick kept the previous output.
func (d *Driver) Held() bool { return d.held }

// substeps returns how many steps of which size cover dt.
func (d *Driver) substeps(dt float64) (int, float64) {
	maxStep := d.MaxStep
	if !(maxStep > 0) {
		maxStep = DefaultMaxStep
	}
	maxSub := d.MaxSubsteps
	if maxSub < 1 {
		maxSub = DefaultMaxSubsteps
	}

	if limit := maxStep * float64(maxSub); dt > limit {
		dt = limit
	}

	// the slack keeps dt == maxStep from rounding up to two steps
	n := int(math.Ceil(dt/maxStep - 1e-9))
	if n < 1 {
		n = 1
	}
	return n, dt / float64(n)
}

// Reset puts the system back at rest and forgets the anchor history.
func (d *Driver) Reset() {
	d.System.Reset()
	d.Anchor = dynamo.Vec2{}
	d.Output = dynamo.Vec2{}
	d.hasAnchor = false
	d.held = false
}
