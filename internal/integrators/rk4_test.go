package integrators

import (
	"math"
	"testing"
)

// slice is a variable-length state.
type slice []float64

func (s slice) Add(o slice) slice {
	out := make(slice, len(s))
	for i := range s {
		out[i] = s[i] + o[i]
	}
	return out
}

func (s slice) Scale(f float64) slice {
	out := make(slice, len(s))
	for i := range s {
		out[i] = s[i] * f
	}
	return out
}

func oscillator(x slice, t float64) slice {
	return slice{x[1], -x[0]}
}

func TestRK4Accuracy(t *testing.T) {
	x := slice{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = StepRK4(x, float64(i)*dt, dt, oscillator)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

// Halving dt should cut the global error by roughly 2^4.
func TestRK4Order(t *testing.T) {
	run := func(dt float64) float64 {
		x := slice{1.0, 0.0}
		n := int(math.Round(2.0 / dt))
		for i := 0; i < n; i++ {
			x = StepRK4(x, float64(i)*dt, dt, oscillator)
		}
		return math.Abs(x[0] - math.Cos(2.0))
	}

	coarse := run(0.1)
	fine := run(0.05)
	ratio := coarse / fine
	if ratio < 12 || ratio > 20 {
		t.Errorf("expected error ratio near 16, got %.2f (coarse=%e fine=%e)", ratio, coarse, fine)
	}
}

type scalar float64

func (s scalar) Add(o scalar) scalar { return s + o }
func (s scalar) Scale(f float64) scalar { return s * scalar(f) }
func decay(s scalar, t float64) scalar { return -s }
func timeOnly(s scalar, t float64) scalar { return scalar(t * t * t) }

func TestRK4GenericState(t *testing.T) {
	s := scalar(1)
	for i := 0; i < 100; i++ {
		s = StepRK4(s, float64(i)*0.01, 0.01, decay)
	}
	if math.Abs(float64(s)-math.Exp(-1)) > 1e-9 {
		t.Errorf("expected e^-1, got %.12f", float64(s))
	}
}

// RK4 integrates cubics in t exactly.
func TestRK4ExactForCubic(t *testing.T) {
	s := StepRK4(scalar(0), 0, 2, timeOnly)
	if math.Abs(float64(s)-4) > 1e-12 {
		t.Errorf("expected 4, got %v", float64(s))
	}
}

func TestRK4ZeroStepIsIdentity(t *testing.T) {
	x := slice{0.3, -1.2}
	got := StepRK4(x, 0, 0, oscillator)
	if got[0] != x[0] || got[1] != x[1] {
		t.Errorf("dt=0 changed state: %v -> %v", x, got)
	}
}
