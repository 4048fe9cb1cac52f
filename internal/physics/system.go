package physics

import (
	"fmt"

	"github.com/san-kum/dangle/internal/dynamo"
)

// Kind names one of the two physics models.
type Kind int

const (
	KindRigidPendulum Kind = iota
	KindSpringPendulum
)

func (k Kind) String() string {
	switch k {
	case KindRigidPendulum:
		return "rigid_pendulum"
	case KindSpringPendulum:
		return "spring_pendulum"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "rigid_pendulum", "rigid":
		return KindRigidPendulum, nil
	case "spring_pendulum", "spring":
		return KindSpringPendulum, nil
	}
	return 0, fmt.Errorf("%w: %q", dynamo.ErrUnknownSystem, s)
}

// System is the closed set of physics models. Only *RigidPendulum and
// *SpringPendulum implement it.
type System interface {
	Kind() Kind
	// Bob returns the simulated point in anchor space, as of the last tick.
	Bob() dynamo.Vec2
	// Reset returns the model to its rest state with zero velocity.
	Reset()

	system()
}

// NewSystem builds a model of the given kind in its rest state.
func NewSystem(k Kind) (System, error) {
	switch k {
	case KindRigidPendulum:
		return NewRigidPendulum(), nil
	case KindSpringPendulum:
		return NewSpringPendulum(), nil
	}
	return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownSystem, k)
}

// Tick advances sys by dt towards the given anchor and returns the new
// bob position. A non-finite anchor, a dt that is not strictly positive or
// a step that would leave the state non-finite leaves the state untouched,
// returns the previous bob and ok == false.
func Tick(sys System, anchor dynamo.Vec2, p *Props, env Env, mode MapMode, dt float64) (bob dynamo.Vec2, ok bool) {
	switch s := sys.(type) {
	case *RigidPendulum:
		return s.tick(anchor, p, env, dt)
	case *SpringPendulum:
		return s.tick(anchor, p, env, mode, dt)
	}
	panic(fmt.Sprintf("physics: %T is not a physics system", sys))
}
