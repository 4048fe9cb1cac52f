package puppet

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/dangle/internal/dynamo"
)

type MotionKind string

const (
	MotionStatic MotionKind = "static"
	MotionSine   MotionKind = "sine"
	MotionCircle MotionKind = "circle"
	MotionStep   MotionKind = "step"
	MotionKeys   MotionKind = "keys"
)

func ParseMotionKind(s string) (MotionKind, error) {
	switch k := MotionKind(s); k {
	case "":
		return MotionStatic, nil
	case MotionStatic, MotionSine, MotionCircle, MotionStep, MotionKeys:
		return k, nil
	}
	return "", fmt.Errorf("unknown motion kind %q", s)
}

// Key is one keyframe of a MotionKeys track.
type Key struct {
	T     float64
	Value dynamo.Vec2
}

// Motion is a translation offset scripted as a pure function of time.
type Motion struct {
	Kind      MotionKind
	Amplitude dynamo.Vec2
	Frequency float64
	Phase     float64
	At        float64
	Keys      []Key
}

// Offset returns the translation at time t.
func (m Motion) Offset(t float64) dynamo.Vec2 {
	w := 2*math.Pi*m.Frequency*t + m.Phase
	switch m.Kind {
	case MotionSine:
		return m.Amplitude.Mul(math.Sin(w))
	case MotionCircle:
		// starts at the origin and orbits around (-Ax cos(phase), -Ay sin(phase))
		return dynamo.Vec2{
			m.Amplitude[0] * (math.Cos(w) - math.Cos(m.Phase)),
			m.Amplitude[1] * (math.Sin(w) - math.Sin(m.Phase)),
		}
	case MotionStep:
		if t >= m.At {
			return m.Amplitude
		}
		return dynamo.Vec2{}
	case MotionKeys:
		return sampleKeys(m.Keys, t)
	}
	return dynamo.Vec2{}
}

// sampleKeys interpolates linearly between keys sorted by time and holds
// the end values outside the track.
func sampleKeys(keys []Key, t float64) dynamo.Vec2 {
	switch {
	case len(keys) == 0:
		return dynamo.Vec2{}
	case t <= keys[0].T:
		return keys[0].Value
	case t >= keys[len(keys)-1].T:
		return keys[len(keys)-1].Value
	}

	i := sort.Search(len(keys), func(i int) bool { return keys[i].T > t })
	a, b := keys[i-1], keys[i]
	span := b.T - a.T
	if span <= 0 {
		return b.Value
	}
	return a.Value.Add(b.Value.Sub(a.Value).Mul((t - a.T) / span))
}
