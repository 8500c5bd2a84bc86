package model

import (
	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
)

// RunSpec is the run section of a model file.
type RunSpec struct {
	MaxTime float64 `yaml:"max_time"`
	// Dt is the step of the approximate solvers.
	Dt float64 `yaml:"dt,omitempty"`
	// OutputDt is the spacing of the output grid; it defaults to Dt, then to 1.
	OutputDt float64 `yaml:"output_dt,omitempty"`
	// Solver is a mode name or the numeric code 0, 1 or 2.
	Solver        string  `yaml:"solver,omitempty"`
	Interpolation string  `yaml:"interpolation,omitempty"`
	Seed          *uint64 `yaml:"seed,omitempty"`
	MaxEvents     int     `yaml:"max_events,omitempty"`
	Replicates    int     `yaml:"replicates,omitempty"`
}

// Mode parses the solver; empty means exact.
func (r RunSpec) Mode() (domain.SolverMode, error) {
	if r.Solver == "" {
		return domain.SolverExact, nil
	}
	return domain.ParseSolverMode(r.Solver)
}

// Policy parses the interpolation; empty means linear.
func (r RunSpec) Policy() (domain.Interpolation, error) {
	return domain.ParseInterpolation(r.Interpolation)
}

// Grid returns the output grid: max_time/output_dt + 1 points starting at 0.
func (r RunSpec) Grid() (serializer.Grid, error) {
	dt := r.OutputDt
	if dt == 0 {
		dt = r.Dt
	}
	if dt == 0 {
		dt = 1
	}
	return serializer.NewGrid(0, dt, r.MaxTime)
}

// Options returns the chain options the run section implies.
func (r RunSpec) Options() []markovchain.Option {
	var opts []markovchain.Option
	if r.Seed != nil {
		opts = append(opts, markovchain.WithSeed(*r.Seed))
	}
	if r.MaxEvents > 0 {
		opts = append(opts, markovchain.WithMaxEvents(r.MaxEvents))
	}
	return opts
}
