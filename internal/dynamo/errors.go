package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and rig setup.
var (
	// ErrInvalidTimestep indicates a negative or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be finite and non-negative")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownSystem indicates a physics system name that is not one of the two models.
	ErrUnknownSystem = errors.New("dynamo: unknown physics system")

	// ErrUnknownMapMode indicates an unrecognised parameter mapping mode.
	ErrUnknownMapMode = errors.New("dynamo: unknown map mode")

	// ErrUnknownNode indicates a reference to a node the rig does not have.
	ErrUnknownNode = errors.New("dynamo: unknown node")

	// ErrUnknownParam indicates a reference to a parameter the rig does not have.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// SimulationError wraps an error with the frame it happened on.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
