package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector or frame with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name the scene does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownLiquid indicates a liquid outside the fixed catalog.
	ErrUnknownLiquid = errors.New("dynamo: unknown liquid")

	// ErrUnknownMedium indicates a wave medium outside the fixed table.
	ErrUnknownMedium = errors.New("dynamo: unknown medium")

	// ErrUnknownScene indicates a demo name with no registered constructor.
	ErrUnknownScene = errors.New("dynamo: unknown scene")

	// ErrUnknownPreset indicates a preset name the demo does not define.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownIntegrator indicates an integrator name with no implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimError records where a driven run had to stop.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
