package metrics

import (
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/rig"
	"github.com/san-kum/dangle/internal/sim"
)

// baseline tracks the reference value of one parameter.
type baseline struct {
	param rig.ParamID
	ref   dynamo.Vec2
	seen  bool
}

// deviation returns the distance from the first observed value.
func (b *baseline) deviation(f sim.Frame) (float64, bool) {
	v, ok := f.Value(b.param)
	if !ok {
		return 0, false
	}
	if !b.seen {
		b.ref, b.seen = v, true
	}
	return v.Sub(b.ref).Len(), true
}

// Peak is the largest deviation seen.
type Peak struct {
	name string
	base baseline
	peak float64
}

func NewPeak(param rig.ParamID) *Peak {
	return &Peak{
		name: "peak." + string(param),
		base: baseline{param: param},
	}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(f sim.Frame) {
	if d, ok := p.base.deviation(f); ok && d > p.peak {
		p.peak = d
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.base.seen = false
	p.peak = 0
}
