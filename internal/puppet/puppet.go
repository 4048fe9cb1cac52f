package puppet

import (
	"fmt"
	"sort"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/rig"
)

// Node is a translation-only transform. Its local translation is
// Offset plus its motion; its world translation adds the parent's.
type Node struct {
	Name   rig.NodeID
	Parent rig.NodeID
	Offset dynamo.Vec2
	Motion Motion
	// Hidden nodes have no render context; anchors on them are unavailable.
	Hidden bool
}

type transform struct {
	local, world dynamo.Vec2
}

// Puppet holds nodes, their transforms at the current time, and the
// parameter table written by physics drivers.
type Puppet struct {
	nodes  map[rig.NodeID]*Node
	order  []rig.NodeID // parents before children
	xform  map[rig.NodeID]transform
	params map[rig.ParamID]dynamo.Vec2
	time   float64
}

// New builds a puppet at time zero. Node names must be unique and every
// parent must exist; cycles are rejected.
func New(nodes []Node) (*Puppet, error) {
	p := &Puppet{
		nodes:  make(map[rig.NodeID]*Node, len(nodes)),
		xform:  make(map[rig.NodeID]transform, len(nodes)),
		params: make(map[rig.ParamID]dynamo.Vec2),
	}
	for i := range nodes {
		n := nodes[i]
		if n.Name == "" {
			return nil, fmt.Errorf("node %d: empty name", i)
		}
		if _, dup := p.nodes[n.Name]; dup {
			return nil, fmt.Errorf("node %q: duplicate name", n.Name)
		}
		if n.Motion.Kind == MotionKeys {
			keys := append([]Key(nil), n.Motion.Keys...)
			sort.SliceStable(keys, func(a, b int) bool { return keys[a].T < keys[b].T })
			n.Motion.Keys = keys
		}
		p.nodes[n.Name] = &n
	}

	order, err := p.sortNodes(nodes)
	if err != nil {
		return nil, err
	}
	p.order = order
	p.update()
	return p, nil
}

// sortNodes orders nodes so every parent precedes its children.
func (p *Puppet) sortNodes(nodes []Node) ([]rig.NodeID, error) {
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[rig.NodeID]int, len(nodes))
	order := make([]rig.NodeID, 0, len(nodes))

	var visit func(id rig.NodeID) error
	visit = func(id rig.NodeID) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("node %q: parent cycle", id)
		}
		state[id] = visiting
		if parent := p.nodes[id].Parent; parent != "" {
			if _, ok := p.nodes[parent]; !ok {
				return fmt.Errorf("node %q: %w: parent %q", id, dynamo.ErrUnknownNode, parent)
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		state[id] = done
		order = append(order, id)
		return nil
	}

	for _, n := range nodes {
		if err := visit(n.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (p *Puppet) update() {
	for _, id := range p.order {
		n := p.nodes[id]
		local := n.Offset.Add(n.Motion.Offset(p.time))
		world := local
		if n.Parent != "" {
			world = p.xform[n.Parent].world.Add(local)
		}
		p.xform[id] = transform{local: local, world: world}
	}
}

// Time is the animation time transforms were last evaluated at.
func (p *Puppet) Time() float64 { return p.time }

// Advance moves animation time forward by dt and re-evaluates transforms.
func (p *Puppet) Advance(dt float64) {
	p.SetTime(p.time + dt)
}

func (p *Puppet) SetTime(t float64) {
	p.time = t
	p.update()
}

// Anchor implements rig.AnchorSource.
func (p *Puppet) Anchor(node rig.NodeID, localOnly bool) (dynamo.Vec2, bool) {
	n, ok := p.nodes[node]
	if !ok || n.Hidden {
		return dynamo.Vec2{}, false
	}
	x := p.xform[node]
	if localOnly {
		return x.local, true
	}
	return x.world, true
}

// SetParam implements rig.ParamWriter.
func (p *Puppet) SetParam(param rig.ParamID, v dynamo.Vec2) {
	p.params[param] = v
}

func (p *Puppet) Param(param rig.ParamID) (dynamo.Vec2, bool) {
	v, ok := p.params[param]
	return v, ok
}

// Params returns the written parameter ids in sorted order.
func (p *Puppet) Params() []rig.ParamID {
	ids := make([]rig.ParamID, 0, len(p.params))
	for id := range p.params {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Nodes returns node names with parents first.
func (p *Puppet) Nodes() []rig.NodeID {
	return append([]rig.NodeID(nil), p.order...)
}

// Reset rewinds time to zero and clears the parameter table.
func (p *Puppet) Reset() {
	clear(p.params)
	p.SetTime(0)
}

var _ rig.Rig = (*Puppet)(nil)
