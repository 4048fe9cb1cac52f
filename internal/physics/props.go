package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/dangle/internal/dynamo"
)

const (
	// MinLength is the smallest rest length a model will use, in pixels.
	MinLength = 1e-3
	// MinFrequency is the smallest resonant frequency a model will use, in Hz.
	MinFrequency = 1e-3
	// MaxStepRate bounds |lambda|*dt of an oscillator's stiffest mode. RK4
	// is stable out to about 2.8 on both the real and imaginary axes.
	MaxStepRate = 2.0
)

// Props is the physics parameter set of one driver. Every field pairs an
// authored base value with a multiplicative offset the animation system
// may vary at runtime. Models only ever read the Final* products.
type Props struct {
	// Gravity scale (1.0 = puppet gravity).
	Gravity       float64
	OffsetGravity float64
	// Rest length of the rod or spring, pixels.
	Length       float64
	OffsetLength float64
	// Resonant frequency, Hz.
	Frequency       float64
	OffsetFrequency float64
	// Angular damping ratio.
	AngleDamping       float64
	OffsetAngleDamping float64
	// Radial damping ratio.
	LengthDamping       float64
	OffsetLengthDamping float64

	OutputScale       dynamo.Vec2
	OffsetOutputScale dynamo.Vec2
}

func DefaultProps() Props {
	return Props{
		Gravity:             1,
		OffsetGravity:       1,
		Length:              1,
		OffsetLength:        1,
		Frequency:           1,
		OffsetFrequency:     1,
		AngleDamping:        0.5,
		OffsetAngleDamping:  1,
		LengthDamping:       0.5,
		OffsetLengthDamping: 1,
		OutputScale:         dynamo.Vec2{1, 1},
		OffsetOutputScale:   dynamo.Vec2{1, 1},
	}
}

func (p *Props) FinalGravity() float64 { return p.Gravity * p.OffsetGravity }
func (p *Props) FinalLength() float64 { return p.Length * p.OffsetLength }
func (p *Props) FinalFrequency() float64 { return p.Frequency * p.OffsetFrequency }
func (p *Props) FinalAngleDamping() float64 { return p.AngleDamping * p.OffsetAngleDamping }
func (p *Props) FinalLengthDamping() float64 { return p.LengthDamping * p.OffsetLengthDamping }

func (p *Props) FinalOutputScale() dynamo.Vec2 {
	return dynamo.Vec2{
		p.OutputScale[0] * p.OffsetOutputScale[0],
		p.OutputScale[1] * p.OffsetOutputScale[1],
	}
}

// ResetOffsets sets every offset back to the identity.
func (p *Props) ResetOffsets() {
	p.OffsetGravity = 1
	p.OffsetLength = 1
	p.OffsetFrequency = 1
	p.OffsetAngleDamping = 1
	p.OffsetLengthDamping = 1
	p.OffsetOutputScale = dynamo.Vec2{1, 1}
}

// length is FinalLength clamped away from zero. NaN clamps too.
func (p *Props) length() float64 {
	l := p.FinalLength()
	if !(l > MinLength) {
		return MinLength
	}
	return l
}

func (p *Props) frequency() float64 {
	f := p.FinalFrequency()
	if !(f > MinFrequency) {
		return MinFrequency
	}
	return f
}

// stableOmega lowers the natural frequency omega, if needed, so that a
// damped oscillator with ratio zeta keeps its stiffest mode within
// MaxStepRate at step dt. Very short or very stiff setups then respond as
// fast as the step allows instead of blowing up.
func stableOmega(omega, zeta, dt float64) float64 {
	zeta = math.Abs(zeta)
	stiff := 1.0
	if zeta > 1 {
		stiff = zeta + math.Sqrt(zeta*zeta-1)
	}
	if limit := MaxStepRate / (stiff * dt); omega > limit {
		return limit
	}
	return omega
}

// Offsets returns the scalar offsets keyed by name, for runtime tuning.
func (p *Props) Offsets() map[string]float64 {
	return map[string]float64{
		"gravity":        p.OffsetGravity,
		"length":         p.OffsetLength,
		"frequency":      p.OffsetFrequency,
		"angle_damping":  p.OffsetAngleDamping,
		"length_damping": p.OffsetLengthDamping,
		"output_scale_x": p.OffsetOutputScale[0],
		"output_scale_y": p.OffsetOutputScale[1],
	}
}

// OffsetNames lists the keys accepted by SetOffset in a stable order.
func OffsetNames() []string {
	p := DefaultProps()
	names := make([]string, 0, 7)
	for k := range p.Offsets() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p *Props) SetOffset(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("offset %s: %w", name, dynamo.ErrParameterBounds)
	}
	switch name {
	case "gravity":
		p.OffsetGravity = value
	case "length":
		p.OffsetLength = value
	case "frequency":
		p.OffsetFrequency = value
	case "angle_damping":
		p.OffsetAngleDamping = value
	case "length_damping":
		p.OffsetLengthDamping = value
	case "output_scale_x":
		p.OffsetOutputScale[0] = value
	case "output_scale_y":
		p.OffsetOutputScale[1] = value
	default:
		return fmt.Errorf("unknown offset: %s", name)
	}
	return nil
}

// Env is the puppet-wide physics environment shared by every driver.
type Env struct {
	// Gravity in m/s^2.
	Gravity        float64
	PixelsPerMeter float64
}

func DefaultEnv() Env {
	return Env{Gravity: 9.8, PixelsPerMeter: 1000}
}

// gravity returns the acceleration a model sees, in px/s^2.
func (e Env) gravity(p *Props) float64 {
	return p.FinalGravity() * e.Gravity * e.PixelsPerMeter
}
