package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is the 2D vector used throughout the core. Screen space, +y down.
type Vec2 = mgl64.Vec2

// Linear is satisfied by any state that supports the two operations an
// explicit Runge-Kutta stepper needs.
type Linear[S any] interface {
	Add(other S) S
	Scale(factor float64) S
}

// Finite reports whether both components of v are neither NaN nor Inf.
func Finite(v Vec2) bool {
	return IsFinite(v[0]) && IsFinite(v[1])
}

// IsFinite reports whether x is neither NaN nor Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
