package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/pkg/domain"
)

type stateDecl struct {
	name    string
	initial float64
}

// Builder manages the model construction.
type Builder struct {
	states   []stateDecl
	counters []string
	flows    []*FlowBuilder

	maxTime  float64
	solver   *domain.SolverMode
	stepSize float64
}

// New creates a new model builder.
func New() *Builder {
	return &Builder{}
}

// State declares a state with its initial value.
func (b *Builder) State(name string, initial float64) *Builder {
	b.states = append(b.states, stateDecl{name: name, initial: initial})
	return b
}

// Counter declares an output-only accumulator.
func (b *Builder) Counter(name string) *Builder {
	b.counters = append(b.counters, name)
	return b
}

// Flow starts a transition from source to destination. Either side may be domain.Void.
func (b *Builder) Flow(source, destination string) *FlowBuilder {
	fb := &FlowBuilder{source: source, destination: destination}
	b.flows = append(b.flows, fb)
	return fb
}

// Birth starts a transition from Void into destination.
func (b *Builder) Birth(destination string) *FlowBuilder {
	return b.Flow(domain.Void, destination)
}

// Death starts a transition from source into Void.
func (b *Builder) Death(source string) *FlowBuilder {
	return b.Flow(source, domain.Void)
}

// Until sets the time horizon.
func (b *Builder) Until(maxTime float64) *Builder {
	b.maxTime = maxTime
	return b
}

// Solver selects the stepping strategy; dt is required by the approximate ones.
func (b *Builder) Solver(mode domain.SolverMode, dt float64) *Builder {
	b.solver = &mode
	b.stepSize = dt
	return b
}

// Build registers everything on a new chain. All registration errors are joined.
func (b *Builder) Build(opts ...markovchain.Option) (*markovchain.Chain, error) {
	chain := markovchain.New(opts...)
	var errs []error

	for _, s := range b.states {
		if err := chain.RegisterState(s.name, s.initial); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range b.counters {
		if err := chain.RegisterCounter(c); err != nil {
			errs = append(errs, err)
		}
	}
	for i, fb := range b.flows {
		tr, err := fb.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("flow %d (%s -> %s): %w", i, fb.source, fb.destination, err))
			continue
		}
		if err := chain.RegisterTransition(tr); err != nil {
			errs = append(errs, err)
		}
	}

	if b.maxTime != 0 {
		if err := chain.SetMaxTime(b.maxTime); err != nil {
			errs = append(errs, err)
		}
	}
	if b.solver != nil {
		if err := chain.SetSolver(*b.solver); err != nil {
			errs = append(errs, err)
		}
		if b.solver.Approximate() {
			if err := chain.SetStepSize(b.stepSize); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build chain: %w", err)
	}
	return chain, nil
}
