package dsl

import (
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/transition"
)

// FlowBuilder provides a fluent API for configuring one transition.
// Exactly one rate law must be chosen.
type FlowBuilder struct {
	source      string
	destination string

	kind       transition.Kind
	k          float64
	population []string
	fn         transition.RateFunc
	params     transition.Params

	opts []transition.Option
}

// Individual sets the rate to k times the source.
func (f *FlowBuilder) Individual(k float64) *FlowBuilder {
	f.kind, f.k = transition.KindIndividual, k
	return f
}

// MassAction sets the rate to k times the source times the governing sum.
func (f *FlowBuilder) MassAction(k float64) *FlowBuilder {
	f.kind, f.k = transition.KindMassAction, k
	return f
}

// MassActionByPopulation divides the mass-action rate by the sum over population.
func (f *FlowBuilder) MassActionByPopulation(k float64, population ...string) *FlowBuilder {
	f.kind, f.k, f.population = transition.KindMassActionByPopulation, k, population
	return f
}

// Constant sets a fixed rate k, live while the source is non-empty.
func (f *FlowBuilder) Constant(k float64) *FlowBuilder {
	f.kind, f.k = transition.KindConstant, k
	return f
}

// Custom sets a user rate function with its parameter bag.
func (f *FlowBuilder) Custom(fn transition.RateFunc, params map[string]float64) *FlowBuilder {
	f.kind, f.fn, f.params = transition.KindCustom, fn, transition.NewParams(params)
	return f
}

// ID sets an explicit identity.
func (f *FlowBuilder) ID(id string) *FlowBuilder {
	f.opts = append(f.opts, transition.WithID(id))
	return f
}

// Governing sets the states summed into the rate.
func (f *FlowBuilder) Governing(states ...string) *FlowBuilder {
	f.opts = append(f.opts, transition.WithGoverning(states...))
	return f
}

// Count increments the given counters by every fired amount.
func (f *FlowBuilder) Count(counters ...string) *FlowBuilder {
	f.opts = append(f.opts, transition.WithCounters(counters...))
	return f
}

func (f *FlowBuilder) build() (transition.Transition, error) {
	switch f.kind {
	case transition.KindIndividual:
		if f.source == domain.Void {
			return transition.NewIndividualFromVoid(f.destination, f.k, f.opts...), nil
		}
		return transition.NewIndividual(f.source, f.destination, f.k, f.opts...), nil
	case transition.KindMassAction:
		return transition.NewMassAction(f.source, f.destination, f.k, f.opts...), nil
	case transition.KindMassActionByPopulation:
		return transition.NewMassActionByPopulation(f.source, f.destination, f.k, f.population, f.opts...), nil
	case transition.KindConstant:
		return transition.NewConstant(f.source, f.destination, f.k, f.opts...), nil
	case transition.KindCustom:
		return transition.NewCustom(f.source, f.destination, f.params, f.fn, f.opts...), nil
	}
	return nil, domain.Configf("transition", f.source+"->"+f.destination, domain.ErrInvalidConfig, "no rate law chosen")
}
