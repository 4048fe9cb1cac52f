package physics

import (
	"math"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/integrators"
)

// RigidPendulum is a massless rod of length FinalLength with a point bob,
// hinged at the anchor. Angle 0 hangs straight down; positive angles swing
// the bob towards +x.
type RigidPendulum struct {
	Angle    float64
	Velocity float64

	bob dynamo.Vec2

	// anchor history for the pivot acceleration estimate
	primed     bool
	prevAnchor dynamo.Vec2
	prevVel    dynamo.Vec2
}

type angular struct {
	theta, omega float64
}

func (a angular) Add(o angular) angular {
	return angular{a.theta + o.theta, a.omega + o.omega}
}

func (a angular) Scale(f float64) angular {
	return angular{a.theta * f, a.omega * f}
}

// NewRigidPendulum returns a pendulum hanging at rest.
func NewRigidPendulum() *RigidPendulum {
	return &RigidPendulum{}
}

func (r *RigidPendulum) system() {}

func (r *RigidPendulum) Kind() Kind { return KindRigidPendulum }

// Bob returns the bob position computed by the last successful tick.
func (r *RigidPendulum) Bob() dynamo.Vec2 { return r.bob }

func (r *RigidPendulum) Reset() {
	*r = RigidPendulum{}
}

// pivotAccel estimates the anchor acceleration from the last two anchor
// samples by finite differences. Before the first sample the pivot is
// treated as having been at rest.
func (r *RigidPendulum) pivotAccel(anchor dynamo.Vec2, dt float64) (vel, accel dynamo.Vec2) {
	if !r.primed {
		return dynamo.Vec2{}, dynamo.Vec2{}
	}
	vel = anchor.Sub(r.prevAnchor).Mul(1 / dt)
	accel = vel.Sub(r.prevVel).Mul(1 / dt)
	return vel, accel
}

// tick advances the pendulum by dt:
//
//	theta'' = -(g/L) sin(theta) - c*omega - (a.x cos(theta) - a.y sin(theta)) / L
//
// where c is the angle damping ratio times the small-angle critical
// damping 2*sqrt(g/L) and a is the pivot acceleration. When sqrt(g/L) is
// too fast for dt the rod is simulated as long as dt can resolve; the bob
// still sits at FinalLength. ok is false when the state was left alone.
func (r *RigidPendulum) tick(anchor dynamo.Vec2, p *Props, env Env, dt float64) (bob dynamo.Vec2, ok bool) {
	if !dynamo.Finite(anchor) || !(dt > 0) || !dynamo.IsFinite(dt) {
		return r.bob, false
	}

	length := p.length()
	g := env.gravity(p)
	zeta := p.FinalAngleDamping()
	omega0 := math.Sqrt(math.Abs(g) / length)

	// reach is the length the dynamics see
	reach := length
	if w := stableOmega(omega0, zeta, dt); w < omega0 {
		omega0 = w
		reach = math.Abs(g) / (w * w)
	}
	ratio := math.Copysign(omega0*omega0, g)
	damping := zeta * 2 * omega0
	vel, accel := r.pivotAccel(anchor, dt)

	deriv := func(s angular, t float64) angular {
		sin, cos := math.Sincos(s.theta)
		alpha := -ratio*sin - damping*s.omega - (accel[0]*cos-accel[1]*sin)/reach
		return angular{s.omega, alpha}
	}

	next := integrators.StepRK4(angular{r.Angle, r.Velocity}, 0, dt, deriv)
	if !dynamo.IsFinite(next.theta) || !dynamo.IsFinite(next.omega) {
		return r.bob, false
	}

	r.Angle, r.Velocity = next.theta, next.omega
	r.prevAnchor, r.prevVel = anchor, vel
	r.primed = true

	sin, cos := math.Sincos(r.Angle)
	r.bob = anchor.Add(dynamo.Vec2{sin, cos}.Mul(length))
	return r.bob, true
}
