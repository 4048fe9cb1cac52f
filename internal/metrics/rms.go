package metrics

import (
	"math"

	"github.com/san-kum/dangle/internal/rig"
	"github.com/san-kum/dangle/internal/sim"
)

// RMS is the root mean square deviation over all frames.
type RMS struct {
	name    string
	base    baseline
	sum     float64
	samples int
}

func NewRMS(param rig.ParamID) *RMS {
	return &RMS{
		name: "rms." + string(param),
		base: baseline{param: param},
	}
}

func (r *RMS) Name() string {
	return r.name
}

func (r *RMS) Observe(f sim.Frame) {
	d, ok := r.base.deviation(f)
	if !ok {
		return
	}
	r.sum += d * d
	r.samples++
}

func (r *RMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sum / float64(r.samples))
}

func (r *RMS) Reset() {
	r.base.seen = false
	r.sum = 0
	r.samples = 0
}
