package transition

import (
	"fmt"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/state"
)

// RateFunc computes a rate from the full state and the transition's own parameters.
// It must be pure. Domain clamping (e.g. a fraction bounded to [0,1]) belongs here;
// returning a negative or non-finite value aborts the run.
type RateFunc func(v state.View, p Params) float64

// Individual fires at k times the source population.
type Individual struct {
	edge
	k float64
}

// NewIndividual builds a source -> destination jump with rate k·source.
func NewIndividual(source, destination string, k float64, opts ...Option) *Individual {
	return &Individual{edge: newEdge(KindIndividual, source, destination, opts), k: k}
}

// NewIndividualToVoid builds a removal (death, emigration) with rate k·source.
func NewIndividualToVoid(source string, k float64, opts ...Option) *Individual {
	return NewIndividual(source, domain.Void, k, opts...)
}

// Rate returns k·source.
func (t *Individual) Rate(v state.View) float64 {
	return t.k * v.Get(t.source)
}

// Coefficient returns k.
func (t *Individual) Coefficient() float64 { return t.k }

// FromVoid creates mass in the destination (birth, import).
// Its rate is k, or k·Σgoverning when governing states were given explicitly.
type FromVoid struct {
	edge
	k float64
}

// NewIndividualFromVoid builds a creation transition.
func NewIndividualFromVoid(destination string, k float64, opts ...Option) *FromVoid {
	return &FromVoid{edge: newEdge(KindIndividual, domain.Void, destination, opts), k: k}
}

// Rate returns k or k·Σgoverning.
func (t *FromVoid) Rate(v state.View) float64 {
	if !t.explicitGov {
		return t.k
	}
	return t.k * v.Sum(t.governing...)
}

// Coefficient returns k.
func (t *FromVoid) Coefficient() float64 { return t.k }

// MassAction is density-dependent contact: k·source·Σgoverning.
type MassAction struct {
	edge
	k float64
}

// NewMassAction builds a density-dependent transition. Governing defaults to the destination.
func NewMassAction(source, destination string, k float64, opts ...Option) *MassAction {
	return &MassAction{edge: newEdge(KindMassAction, source, destination, opts), k: k}
}

// Rate returns k·source·Σgoverning.
func (t *MassAction) Rate(v state.View) float64 {
	return t.k * v.Get(t.source) * v.Sum(t.governing...)
}

// Coefficient returns k.
func (t *MassAction) Coefficient() float64 { return t.k }

// MassActionByPopulation is frequency-dependent contact:
// k·source·Σgoverning / Σpopulation, and 0 for an empty population.
type MassActionByPopulation struct {
	edge
	k          float64
	population []string
}

// NewMassActionByPopulation builds a frequency-dependent transition.
func NewMassActionByPopulation(source, destination string, k float64, population []string, opts ...Option) *MassActionByPopulation {
	return &MassActionByPopulation{
		edge:       newEdge(KindMassActionByPopulation, source, destination, opts),
		k:          k,
		population: append([]string(nil), population...),
	}
}

// Rate returns the frequency-dependent rate.
func (t *MassActionByPopulation) Rate(v state.View) float64 {
	n := v.Sum(t.population...)
	if n == 0 {
		return 0
	}
	return t.k * v.Get(t.source) * v.Sum(t.governing...) / n
}

// Population returns the states forming the denominator.
func (t *MassActionByPopulation) Population() []string {
	return append([]string(nil), t.population...)
}

// Coefficient returns k.
func (t *MassActionByPopulation) Coefficient() float64 { return t.k }

// Constant fires at rate k while the source is non-empty.
type Constant struct {
	edge
	k float64
}

// NewConstant builds a constant-rate transition.
func NewConstant(source, destination string, k float64, opts ...Option) *Constant {
	return &Constant{edge: newEdge(KindConstant, source, destination, opts), k: k}
}

// Rate returns k when the source holds mass (Void always does), 0 otherwise.
func (t *Constant) Rate(v state.View) float64 {
	if IsVoid(t.source) || v.Get(t.source) > 0 {
		return t.k
	}
	return 0
}

// Coefficient returns k.
func (t *Constant) Coefficient() float64 { return t.k }

// Custom delegates the rate to a user-supplied function.
type Custom struct {
	edge
	params Params
	fn     RateFunc
}

// NewCustom builds a source -> destination transition with an arbitrary rate law.
func NewCustom(source, destination string, params Params, fn RateFunc, opts ...Option) *Custom {
	return &Custom{
		edge:   newEdge(KindCustom, source, destination, opts),
		params: NewParams(params.values),
		fn:     fn,
	}
}

// NewCustomToVoid builds a custom removal.
func NewCustomToVoid(source string, params Params, fn RateFunc, opts ...Option) *Custom {
	return NewCustom(source, domain.Void, params, fn, opts...)
}

// NewCustomFromVoid builds a custom creation.
func NewCustomFromVoid(destination string, params Params, fn RateFunc, opts ...Option) *Custom {
	return NewCustom(domain.Void, destination, params, fn, opts...)
}

// Rate calls the user function.
func (t *Custom) Rate(v state.View) float64 {
	return t.fn(v, t.params)
}

// Params returns the bound parameter bag.
func (t *Custom) Params() Params { return t.params }

// Validate rejects a custom transition without a rate function.
func (t *Custom) Validate() error {
	if t.fn == nil {
		return domain.Configf("transition", t.id, domain.ErrInvalidConfig, "custom transition has no rate function")
	}
	return nil
}

// Describe renders a one-line summary of a transition.
func Describe(tr Transition) string {
	law := ""
	switch t := tr.(type) {
	case *renamed:
		return Describe(t.Transition)
	case *Individual:
		law = fmt.Sprintf("%g·%s", t.k, t.source)
	case *FromVoid:
		if t.explicitGov {
			law = fmt.Sprintf("%g·Σ%v", t.k, t.governing)
		} else {
			law = fmt.Sprintf("%g", t.k)
		}
	case *MassAction:
		law = fmt.Sprintf("%g·%s·Σ%v", t.k, t.source, t.governing)
	case *MassActionByPopulation:
		law = fmt.Sprintf("%g·%s·Σ%v/Σ%v", t.k, t.source, t.governing, t.population)
	case *Constant:
		law = fmt.Sprintf("%g while %s>0", t.k, t.source)
	case *Custom:
		law = fmt.Sprintf("custom%s", t.params)
	default:
		law = string(tr.Kind())
	}
	return fmt.Sprintf("%s -> %s [%s]", tr.Source(), tr.Destination(), law)
}
