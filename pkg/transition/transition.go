// Package transition defines the jumps a chain can take and their rate laws.
//
// Variants follow two independent axes. Direction comes from where Void sits
// (state to state, state to Void, Void to state). Rate kind decides the formula
// (individual, mass action, frequency dependent, constant, custom).
package transition

import (
	"fmt"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/state"
)

// Kind names the rate law of a transition.
type Kind string

const (
	KindIndividual             Kind = "individual"
	KindMassAction             Kind = "mass_action"
	KindMassActionByPopulation Kind = "mass_action_by_population"
	KindConstant               Kind = "constant"
	KindCustom                 Kind = "custom"
)

// Transition is a possible jump with a rate function and a mutation effect.
type Transition interface {
	// ID identifies the transition in errors, hooks and metrics.
	ID() string
	Kind() Kind
	Source() string
	Destination() string
	// Governing lists the states summed into the rate formula.
	Governing() []string
	// Counters lists the counters incremented whenever the transition fires.
	Counters() []string
	// Rate returns the instantaneous rate for the current state.
	Rate(v state.View) float64
	// Apply moves amount from source to destination and bumps the counters by amount.
	// Exact solvers always use amount 1; approximate solvers apply flows or batches.
	Apply(t, amount float64, s *state.Store)
}

// Fire applies a single jump.
func Fire(tr Transition, t float64, s *state.Store) {
	tr.Apply(t, 1, s)
}

// Option configures the shared part of every variant.
type Option func(*edge)

// WithID sets an explicit identity. Explicit IDs must be unique within a chain.
func WithID(id string) Option {
	return func(e *edge) {
		e.id = id
		e.explicitID = true
	}
}

// WithCounters registers counters bumped whenever the transition fires.
func WithCounters(counters ...string) Option {
	return func(e *edge) {
		e.counters = append(e.counters, counters...)
	}
}

// WithGoverning overrides the governing states (default: the destination).
func WithGoverning(states ...string) Option {
	return func(e *edge) {
		e.governing = append([]string(nil), states...)
		e.explicitGov = true
	}
}

// edge carries direction, identity and counters. Every variant embeds it.
type edge struct {
	id          string
	explicitID  bool
	kind        Kind
	source      string
	destination string
	governing   []string
	explicitGov bool
	counters    []string
}

func newEdge(kind Kind, source, destination string, opts []Option) edge {
	e := edge{kind: kind, source: source, destination: destination}
	for _, opt := range opts {
		opt(&e)
	}
	if !e.explicitID {
		e.id = fmt.Sprintf("%s:%s->%s", kind, source, destination)
	}
	if len(e.governing) == 0 {
		e.governing = []string{destination}
		e.explicitGov = false
	}
	return e
}

func (e *edge) ID() string          { return e.id }
func (e *edge) Kind() Kind          { return e.kind }
func (e *edge) Source() string      { return e.source }
func (e *edge) Destination() string { return e.destination }

func (e *edge) Governing() []string {
	return append([]string(nil), e.governing...)
}

func (e *edge) Counters() []string {
	return append([]string(nil), e.counters...)
}

// ExplicitID reports whether the ID was chosen by the caller rather than derived.
func (e *edge) ExplicitID() bool { return e.explicitID }

// Apply works for every direction because the store discards Void writes.
func (e *edge) Apply(_ float64, amount float64, s *state.Store) {
	s.Add(e.source, -amount)
	s.Add(e.destination, amount)
	for _, c := range e.counters {
		s.Increment(c, amount)
	}
}

// Renamed returns tr reporting id instead of its own identity.
func Renamed(tr Transition, id string) Transition {
	return &renamed{Transition: tr, id: id}
}

type renamed struct {
	Transition
	id string
}

func (r *renamed) ID() string { return r.id }

// ExplicitID reports true: a renamed transition has a caller-chosen identity.
func (r *renamed) ExplicitID() bool { return true }

// Validate forwards to the wrapped transition when it can validate itself.
func (r *renamed) Validate() error {
	if v, ok := r.Transition.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// IsVoid reports whether name is the reserved source/sink.
func IsVoid(name string) bool {
	return name == domain.Void
}
