package domain

import (
	"errors"
	"fmt"
)

// Configuration sentinels. Wrapped by ConfigurationError.
var (
	// ErrDuplicate is returned when a state, counter or transition name is registered twice.
	ErrDuplicate = errors.New("duplicate registration")

	// ErrUnknownReference is returned when a transition refers to a state or counter that was never registered.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrReserved is returned when a caller tries to register a reserved name (Void, t).
	ErrReserved = errors.New("reserved name")

	// ErrInvalidConfig covers malformed run settings (max time, step size, solver).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSealed is returned when registering after the first solve.
	ErrSealed = errors.New("chain is sealed")
)

// Numerical sentinels. Wrapped by NumericalError.
var (
	// ErrNegativeRate is returned when a transition reports a rate below zero.
	ErrNegativeRate = errors.New("negative rate")

	// ErrNonFiniteRate is returned when a transition reports NaN or Inf.
	ErrNonFiniteRate = errors.New("non-finite rate")

	// ErrRatePanic is returned when a rate function panics.
	ErrRatePanic = errors.New("rate function panicked")

	// ErrStepTooLarge is returned when an Euler batch drives a source state below zero.
	ErrStepTooLarge = errors.New("step size too large")
)

// ErrEventLimit is returned when a run exceeds its configured event budget.
var ErrEventLimit = errors.New("event limit exceeded")

// ConfigurationError reports a registration or setup problem detected before the run starts.
type ConfigurationError struct {
	Kind   string // "state", "counter", "transition", "run"
	Name   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Kind, e.Name, e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NumericalError reports a rate that cannot drive the process. It is fatal for the run.
type NumericalError struct {
	TransitionID string
	Time         float64
	Value        float64
	Err          error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("transition %q at t=%g: %v (rate=%g)", e.TransitionID, e.Time, e.Err, e.Value)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}

// Configf builds a ConfigurationError around one of the configuration sentinels.
func Configf(kind, name string, err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Kind:   kind,
		Name:   name,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
