package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/dangle/internal/dynamo"
)

// MapMode selects how a bob position becomes a parameter value.
type MapMode int

const (
	// AngleLength maps to (swing angle / pi, distance / length). A bob hanging
	// at rest maps to (0, 1).
	AngleLength MapMode = iota
	// XY maps to the bob offset from its rest point in units of length, with
	// y flipped so up is positive. A bob hanging at rest maps to (0, 0).
	XY
)

func (m MapMode) String() string {
	switch m {
	case AngleLength:
		return "angle_length"
	case XY:
		return "xy"
	}
	return fmt.Sprintf("MapMode(%d)", int(m))
}

func ParseMapMode(s string) (MapMode, error) {
	switch s {
	case "angle_length", "anglelength", "AngleLength":
		return AngleLength, nil
	case "xy", "XY":
		return XY, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownMapMode, s)
}

// Map converts a bob position relative to anchor into a parameter value,
// scaled component-wise by the final output scale.
func Map(mode MapMode, anchor, bob dynamo.Vec2, p *Props) dynamo.Vec2 {
	rel := bob.Sub(anchor).Mul(1 / p.length())

	var v dynamo.Vec2
	switch mode {
	case AngleLength:
		v = dynamo.Vec2{math.Atan2(rel[0], rel[1]) / math.Pi, rel.Len()}
	case XY:
		v = dynamo.Vec2{rel[0], 1 - rel[1]}
	}

	scale := p.FinalOutputScale()
	return dynamo.Vec2{v[0] * scale[0], v[1] * scale[1]}
}
