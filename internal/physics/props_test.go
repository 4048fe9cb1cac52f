package physics

import (
	"math"
	"testing"

	"github.com/san-kum/dangle/internal/dynamo"
)

func TestFinalDampingIsProduct(t *testing.T) {
	tests := []struct {
		base, offset float64
	}{
		{0.5, 1},
		{0.5, 0.5},
		{1, 0},
		{0, 3},
		{0.3, 1.7},
		{-2.25, 0.1},
		{1e-9, 1e9},
	}

	for _, tt := range tests {
		p := DefaultProps()
		p.AngleDamping, p.OffsetAngleDamping = tt.base, tt.offset
		p.LengthDamping, p.OffsetLengthDamping = tt.offset, tt.base

		if got, want := p.FinalAngleDamping(), tt.base*tt.offset; got != want {
			t.Errorf("FinalAngleDamping(%v, %v) = %v, want %v", tt.base, tt.offset, got, want)
		}
		if got, want := p.FinalLengthDamping(), tt.offset*tt.base; got != want {
			t.Errorf("FinalLengthDamping(%v, %v) = %v, want %v", tt.offset, tt.base, got, want)
		}
	}
}

func TestFinalValuesAreProducts(t *testing.T) {
	p := Props{
		Gravity: 2, OffsetGravity: 0.5,
		Length: 80, OffsetLength: 1.5,
		Frequency: 3, OffsetFrequency: 2,
		OutputScale: dynamo.Vec2{2, -1}, OffsetOutputScale: dynamo.Vec2{0.5, 4},
	}

	if p.FinalGravity() != 1 {
		t.Errorf("FinalGravity = %v, want 1", p.FinalGravity())
	}
	if p.FinalLength() != 120 {
		t.Errorf("FinalLength = %v, want 120", p.FinalLength())
	}
	if p.FinalFrequency() != 6 {
		t.Errorf("FinalFrequency = %v, want 6", p.FinalFrequency())
	}
	if s := p.FinalOutputScale(); s != (dynamo.Vec2{1, -4}) {
		t.Errorf("FinalOutputScale = %v, want [1 -4]", s)
	}
}

func TestResetOffsets(t *testing.T) {
	p := DefaultProps()
	for _, name := range OffsetNames() {
		if err := p.SetOffset(name, 3); err != nil {
			t.Fatalf("SetOffset(%s): %v", name, err)
		}
	}
	p.ResetOffsets()

	for name, v := range p.Offsets() {
		if v != 1 {
			t.Errorf("offset %s = %v after reset, want 1", name, v)
		}
	}
}

func TestSetOffsetRejects(t *testing.T) {
	p := DefaultProps()
	if err := p.SetOffset("mass", 2); err == nil {
		t.Error("expected error for unknown offset")
	}
	if err := p.SetOffset("length", math.NaN()); err == nil {
		t.Error("expected error for NaN offset")
	}
	if p.OffsetLength != 1 {
		t.Errorf("rejected SetOffset mutated props: %v", p.OffsetLength)
	}
}

func TestClampedLengthAndFrequency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"zero", 0},
		{"negative", -50},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProps()
			p.Length = tt.value
			p.Frequency = tt.value
			if got := p.length(); got != MinLength {
				t.Errorf("length() = %v, want %v", got, MinLength)
			}
			if got := p.frequency(); got != MinFrequency {
				t.Errorf("frequency() = %v, want %v", got, MinFrequency)
			}
		})
	}
}

func TestEnvGravity(t *testing.T) {
	p := DefaultProps()
	p.Gravity = 0.5
	p.OffsetGravity = 2
	env := Env{Gravity: 9.8, PixelsPerMeter: 100}

	if got := env.gravity(&p); math.Abs(got-980) > 1e-9 {
		t.Errorf("gravity = %v, want 980", got)
	}
}

func near(a, b dynamo.Vec2, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
