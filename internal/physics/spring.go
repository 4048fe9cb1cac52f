package physics

import (
	"math"

	"github.com/san-kum/dangle/internal/dynamo"
	"github.com/san-kum/dangle/internal/integrators"
)

// SpringPendulum is a unit point mass tied to the anchor by a damped
// spring. Stiffness follows the resonant frequency, k = (2*pi*f)^2, and
// the spring is pre-stretched so the loaded bob rests at
// anchor + (0, FinalLength).
type SpringPendulum struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2

	placed bool
}

type planar struct {
	pos, vel dynamo.Vec2
}

func (s planar) Add(o planar) planar {
	return planar{s.pos.Add(o.pos), s.vel.Add(o.vel)}
}

func (s planar) Scale(f float64) planar {
	return planar{s.pos.Mul(f), s.vel.Mul(f)}
}

// NewSpringPendulum returns a spring with zero velocity. The bob is placed
// at its rest point on the first tick with a finite anchor.
func NewSpringPendulum() *SpringPendulum {
	return &SpringPendulum{}
}

func (s *SpringPendulum) system() {}

func (s *SpringPendulum) Kind() Kind { return KindSpringPendulum }

func (s *SpringPendulum) Bob() dynamo.Vec2 { return s.Position }

func (s *SpringPendulum) Reset() {
	*s = SpringPendulum{}
}

// Place puts the bob at rest below anchor.
func (s *SpringPendulum) Place(anchor dynamo.Vec2, p *Props) {
	s.Position = anchor.Add(dynamo.Vec2{0, p.length()})
	s.Velocity = dynamo.Vec2{}
	s.placed = true
}

// dampingForce splits the velocity along the anchor->bob axis in
// AngleLength mode so radial and swinging motion decay independently.
// XY mode damps both axes with the length ratio.
func dampingForce(vel, offset dynamo.Vec2, mode MapMode, radial, tangential float64) dynamo.Vec2 {
	if mode != AngleLength {
		return vel.Mul(radial)
	}
	dist := offset.Len()
	if dist < MinLength {
		return vel.Mul(radial)
	}
	n := offset.Mul(1 / dist)
	along := n.Mul(vel.Dot(n))
	across := vel.Sub(along)
	return along.Mul(radial).Add(across.Mul(tangential))
}

// tick advances the spring by dt with the anchor held fixed:
//
//	x'' = -k (x - rest) + (0, g) - damping(x')
//
// A spring too stiff for dt is softened to the stiffest one dt resolves.
// ok is false when the state was left alone.
func (s *SpringPendulum) tick(anchor dynamo.Vec2, p *Props, env Env, mode MapMode, dt float64) (bob dynamo.Vec2, ok bool) {
	if !dynamo.Finite(anchor) || !(dt > 0) || !dynamo.IsFinite(dt) {
		return s.Position, false
	}
	if !s.placed {
		s.Place(anchor, p)
	}

	zeta := math.Max(math.Abs(p.FinalLengthDamping()), math.Abs(p.FinalAngleDamping()))
	omega := stableOmega(2*math.Pi*p.frequency(), zeta, dt)
	k := omega * omega
	g := env.gravity(p)
	rest := anchor.Add(dynamo.Vec2{0, p.length() - g/k})
	gravity := dynamo.Vec2{0, g}
	radial := p.FinalLengthDamping() * 2 * omega
	tangential := p.FinalAngleDamping() * 2 * omega

	deriv := func(st planar, t float64) planar {
		force := rest.Sub(st.pos).Mul(k).Add(gravity)
		force = force.Sub(dampingForce(st.vel, st.pos.Sub(anchor), mode, radial, tangential))
		return planar{st.vel, force}
	}

	next := integrators.StepRK4(planar{s.Position, s.Velocity}, 0, dt, deriv)
	if !dynamo.Finite(next.pos) || !dynamo.Finite(next.vel) {
		return s.Position, false
	}

	s.Position, s.Velocity = next.pos, next.vel
	return s.Position, true
}
