package rig

import "github.com/san-kum/dangle/internal/dynamo"

// fakeRig is a map-backed Rig. Nodes absent from anchors are unavailable.
type fakeRig struct {
	anchors map[NodeID]dynamo.Vec2
	params  map[ParamID]dynamo.Vec2
	writes  int
}

func newFakeRig() *fakeRig {
	return &fakeRig{
		anchors: map[NodeID]dynamo.Vec2{},
		params:  map[ParamID]dynamo.Vec2{},
	}
}

func (r *fakeRig) Anchor(node NodeID, _ bool) (dynamo.Vec2, bool) {
	a, ok := r.anchors[node]
	return a, ok
}

func (r *fakeRig) SetParam(param ParamID, v dynamo.Vec2) {
	r.params[param] = v
	r.writes++
}

// near compares by distance; mgl's ApproxEqual is relative and breaks down at zero.
func near(a, b dynamo.Vec2, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
