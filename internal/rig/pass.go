package rig

import (
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/physics"
)

// AnchorSource resolves where a node is this frame. ok is false when the
// node, its transform or its render context is unavailable.
type AnchorSource interface {
	Anchor(node NodeID, localOnly bool) (anchor dynamo.Vec2, ok bool)
}

// ParamWriter receives driver outputs.
type ParamWriter interface {
	SetParam(param ParamID, value dynamo.Vec2)
}

// Rig is the puppet as seen by the update pass.
type Rig interface {
	AnchorSource
	ParamWriter
}

// Stats summarises one Update.
type Stats struct {
	// Ticked counts drivers that were advanced and written.
	Ticked int
	// Held counts drivers that did not advance: a non-finite anchor, a
	// zero dt or a step the model refused. Their previous output was
	// written again.
	Held int
	// Skipped counts drivers whose anchor was unavailable.
	Skipped int
	// Rejected is set when dt was negative or non-finite and nothing ran.
	Rejected bool
}

// Pass runs every driver of one puppet once per animation tick.
type Pass struct {
	Env     physics.Env
	Drivers []*Driver
	// Parallel ticks drivers concurrently. Output is identical to the
	// sequential pass.
	Parallel bool

	anchors []dynamo.Vec2
	found   []bool
}

func NewPass(env physics.Env, drivers ...*Driver) *Pass {
	return &Pass{Env: env, Drivers: drivers}
}

// Update advances all drivers by dt and writes their outputs to r.
func (p *Pass) Update(r Rig, dt float64) Stats {
	var rep Stats
	if !(dt >= 0) || !dynamo.IsFinite(dt) {
		rep.Rejected = true
		return rep
	}

	n := len(p.Drivers)
	if cap(p.anchors) < n {
		p.anchors = make([]dynamo.Vec2, n)
		p.found = make([]bool, n)
	}
	p.anchors, p.found = p.anchors[:n], p.found[:n]

	for i, d := range p.Drivers {
		p.anchors[i], p.found[i] = r.Anchor(d.Node, d.LocalOnly)
	}

	tick := func(start, end int) {
		for i := start; i < end; i++ {
			if p.found[i] {
				p.Drivers[i].Tick(p.anchors[i], p.Env, dt)
			}
		}
	}
	if p.Parallel {
		dynamo.ParallelFor(n, 4, tick)
	} else {
		tick(0, n)
	}

	for i, d := range p.Drivers {
		if !p.found[i] {
			rep.Skipped++
			continue
		}
		if d.Held() {
			rep.Held++
		} else {
			rep.Ticked++
		}
		r.SetParam(d.Param, d.Output)
	}
	return rep
}

// Driver returns the driver writing param, or nil.
func (p *Pass) Driver(param ParamID) *Driver {
	for _, d := range p.Drivers {
		if d.Param == param {
			return d
		}
	}
	return nil
}

// Reset returns every driver to rest.
func (p *Pass) Reset() {
	for _, d := range p.Drivers {
		d.Reset()
	}
}

// ResetOffsets clears every runtime offset back to the identity.
func (p *Pass) ResetOffsets() {
	for _, d := range p.Drivers {
		d.Props.ResetOffsets()
	}
}
