package metrics

import (
	"github.com/san-kum/dangle/internal/rig"
	"github.com/san-kum/dangle/internal/sim"
)

// SettleTime is the time of the last frame whose deviation exceeded the
// tolerance, or zero if the output never left it.
type SettleTime struct {
	name      string
	base      baseline
	tolerance float64
	last      float64
}

func NewSettleTime(param rig.ParamID, tolerance float64) *SettleTime {
	return &SettleTime{
		name:      "settle." + string(param),
		base:      baseline{param: param},
		tolerance: tolerance,
	}
}

func (s *SettleTime) Name() string {
	return s.name
}

func (s *SettleTime) Observe(f sim.Frame) {
	if d, ok := s.base.deviation(f); ok && d > s.tolerance {
		s.last = f.Time
	}
}

func (s *SettleTime) Value() float64 {
	return s.last
}

func (s *SettleTime) Reset() {
	s.base.seen = false
	s.last = 0
}

// ForParams returns peak, RMS and settle-time metrics for every param.
func ForParams(params []rig.ParamID, tolerance float64) []sim.Metric {
	out := make([]sim.Metric, 0, 3*len(params))
	for _, p := range params {
		out = append(out, NewPeak(p), NewRMS(p), NewSettleTime(p, tolerance))
	}
	return out
}
