package sim

import (
	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/rig"
)

// Frame is the state of every driven parameter after one pass.
type Frame struct {
	Index  int
	Time   float64
	Stats  rig.Stats
	Params []rig.ParamID
	Values []dynamo.Vec2
}

// Value returns the output written to param this frame.
func (f Frame) Value(param rig.ParamID) (dynamo.Vec2, bool) {
	for i, p := range f.Params {
		if p == param {
			return f.Values[i], true
		}
	}
	return dynamo.Vec2{}, false
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Params  []rig.ParamID
	Times   []float64
	Outputs [][]dynamo.Vec2 // [frame][param]
	Metrics map[string]float64
	Errors  []error

	Skipped int
	Held    int
}

// Series returns the x and y components of param over time.
func (r *Result) Series(param rig.ParamID) (xs, ys []float64, ok bool) {
	col := -1
	for i, p := range r.Params {
		if p == param {
			col = i
		}
	}
	if col < 0 {
		return nil, nil, false
	}
	xs = make([]float64, len(r.Outputs))
	ys = make([]float64, len(r.Outputs))
	for i, row := range r.Outputs {
		xs[i], ys[i] = row[col][0], row[col][1]
	}
	return xs, ys, true
}
