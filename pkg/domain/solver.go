package domain

import (
	"fmt"
	"strings"
)

// SolverMode selects the stepping strategy of a run. It is fixed once per run.
type SolverMode int

const (
	// SolverExact fires one transition per event, with exponential waiting times.
	SolverExact SolverMode = iota
	// SolverEuler applies every rate as a deterministic flow over a fixed step.
	SolverEuler
	// SolverTauLeap draws a Poisson firing count per transition over a fixed step.
	SolverTauLeap
)

func (m SolverMode) String() string {
	switch m {
	case SolverExact:
		return "exact"
	case SolverEuler:
		return "euler"
	case SolverTauLeap:
		return "tau-leap"
	default:
		return fmt.Sprintf("SolverMode(%d)", int(m))
	}
}

// Approximate reports whether the mode advances by a fixed step.
func (m SolverMode) Approximate() bool {
	return m == SolverEuler || m == SolverTauLeap
}

// Valid reports whether m is a known mode.
func (m SolverMode) Valid() bool {
	return m >= SolverExact && m <= SolverTauLeap
}

// ParseSolverMode accepts a mode name or the numeric host code (0, 1, 2).
func ParseSolverMode(s string) (SolverMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "gillespie", "ssa", "0":
		return SolverExact, nil
	case "euler", "ode", "1":
		return SolverEuler, nil
	case "tau-leap", "tauleap", "tau", "2":
		return SolverTauLeap, nil
	}
	return 0, Configf("run", "solver", ErrInvalidConfig, "unknown solver mode %q", s)
}

// Interpolation selects how the resampler fills grid points between observations.
type Interpolation int

const (
	// InterpolateLinear draws a straight line between bracketing observations.
	InterpolateLinear Interpolation = iota
	// InterpolateStep carries the last observation forward.
	InterpolateStep
)

func (p Interpolation) String() string {
	switch p {
	case InterpolateLinear:
		return "linear"
	case InterpolateStep:
		return "step"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(p))
	}
}

// ParseInterpolation accepts "linear" or "step" (aliases "hold", "constant").
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return InterpolateLinear, nil
	case "step", "hold", "constant":
		return InterpolateStep, nil
	}
	return 0, Configf("run", "interpolation", ErrInvalidConfig, "unknown interpolation %q", s)
}
