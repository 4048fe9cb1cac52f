package integrators

import "github.com/san-kum/dangle/internal/dynamo"

// Derivative returns ds/dt for state s at time t.
type Derivative[S any] func(s S, t float64) S

// StepRK4 advances s by one classical fourth-order Runge-Kutta step of
// size dt. It never subdivides dt; callers that may see long frames
// substep before calling.
func StepRK4[S dynamo.Linear[S]](s S, t, dt float64, f Derivative[S]) S {
	half := dt * 0.5

	k1 := f(s, t)
	k2 := f(s.Add(k1.Scale(half)), t+half)
	k3 := f(s.Add(k2.Scale(half)), t+half)
	k4 := f(s.Add(k3.Scale(dt)), t+dt)

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return s.Add(sum.Scale(dt / 6.0))
}
