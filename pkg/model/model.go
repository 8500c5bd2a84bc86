// Package model reads chain definitions from YAML files.
//
// A model file lists states, counters and transitions, plus a run section with the
// time horizon, solver and output grid:
//
//	name: sir
//	states:
//	  S: 990
//	  I: 10
//	  R: 0
//	counters: [infections]
//	transitions:
//	  - id: infect
//	    kind: mass_action_by_population
//	    from: S
//	    to: I
//	    rate: 0.3
//	    governing: [I]
//	    population: [S, I, R]
//	    counters: [infections]
//	  - kind: individual
//	    from: I
//	    to: R
//	    rate: 0.1
//	run:
//	  max_time: 100
//	  output_dt: 1
//	  solver: exact
//
// Custom rate laws are referenced by name (rate_fn) and resolved through a
// registry.Registry; their params are decoded leniently, so "0.5" and 0.5 both work.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/dsl"
	"github.com/aretw0/markovchain/pkg/registry"
	"github.com/aretw0/markovchain/pkg/transition"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// File is the parsed form of a model file.
type File struct {
	Name        string           `yaml:"name,omitempty"`
	Description string           `yaml:"description,omitempty"`
	States      States           `yaml:"states"`
	Counters    []string         `yaml:"counters,omitempty"`
	Transitions []TransitionSpec `yaml:"transitions"`
	Run         RunSpec          `yaml:"run"`
}

// TransitionSpec describes one transition. From or To left empty mean Void.
type TransitionSpec struct {
	ID         string         `yaml:"id,omitempty"`
	Kind       string         `yaml:"kind,omitempty"`
	From       string         `yaml:"from,omitempty"`
	To         string         `yaml:"to,omitempty"`
	Rate       float64        `yaml:"rate,omitempty"`
	Governing  []string       `yaml:"governing,omitempty"`
	Population []string       `yaml:"population,omitempty"`
	Counters   []string       `yaml:"counters,omitempty"`
	RateFn     string         `yaml:"rate_fn,omitempty"`
	Params     map[string]any `yaml:"params,omitempty"`
}

// Load reads and parses a model file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a model. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.Configf("model", "", domain.ErrInvalidConfig, "empty document")
		}
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return &f, nil
}

// Marshal encodes the model back to YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Builder translates the model into a dsl.Builder. Custom rate laws are looked up
// in reg, which may be nil when the model has none.
func (f *File) Builder(reg *registry.Registry) (*dsl.Builder, error) {
	b := dsl.New()
	for _, s := range f.States {
		b.State(s.Name, s.Initial)
	}
	for _, c := range f.Counters {
		b.Counter(c)
	}

	var errs []error
	for i, ts := range f.Transitions {
		if err := ts.apply(b, reg); err != nil {
			errs = append(errs, fmt.Errorf("transitions[%d]: %w", i, err))
		}
	}

	if f.Run.MaxTime != 0 {
		b.Until(f.Run.MaxTime)
	}
	mode, err := f.Run.Mode()
	if err != nil {
		errs = append(errs, err)
	} else {
		b.Solver(mode, f.Run.Dt)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

// Build creates a chain from the model. The run section contributes the seed and
// event limit; opts are applied after them.
func (f *File) Build(reg *registry.Registry, opts ...markovchain.Option) (*markovchain.Chain, error) {
	b, err := f.Builder(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain: %w", err)
	}
	all := append(f.Run.Options(), markovchain.WithName(f.Name))
	return b.Build(append(all, opts...)...)
}

func (ts TransitionSpec) apply(b *dsl.Builder, reg *registry.Registry) error {
	from, to := orVoid(ts.From), orVoid(ts.To)
	if from == domain.Void && to == domain.Void {
		return domain.Configf("transition", ts.ID, domain.ErrInvalidConfig, "from and to cannot both be %s", domain.Void)
	}
	fb := b.Flow(from, to)

	kind := ts.Kind
	if kind == "" {
		kind = "individual"
		if ts.RateFn != "" {
			kind = "custom"
		}
	}
	switch kind {
	case "individual", "jump":
		fb.Individual(ts.Rate)
	case "mass_action", "density":
		fb.MassAction(ts.Rate)
	case "mass_action_by_population", "frequency":
		fb.MassActionByPopulation(ts.Rate, ts.Population...)
	case "constant":
		fb.Constant(ts.Rate)
	case "custom":
		if reg == nil {
			return domain.Configf("transition", ts.ID, domain.ErrUnknownReference, "rate function %q needs a registry", ts.RateFn)
		}
		fn, err := reg.Lookup(ts.RateFn)
		if err != nil {
			return err
		}
		params, err := ts.Parameters()
		if err != nil {
			return err
		}
		fb.Custom(fn, params.Map())
	default:
		return domain.Configf("transition", ts.ID, domain.ErrInvalidConfig, "unknown kind %q", ts.Kind)
	}

	if ts.ID != "" {
		fb.ID(ts.ID)
	}
	if len(ts.Governing) > 0 {
		fb.Governing(ts.Governing...)
	}
	if len(ts.Counters) > 0 {
		fb.Count(ts.Counters...)
	}
	return nil
}

// Parameters decodes the params section into a bag. Values are read leniently,
// so "0.5" and 0.5 both work.
func (ts TransitionSpec) Parameters() (transition.Params, error) {
	values := map[string]float64{}
	if err := mapstructure.WeakDecode(ts.Params, &values); err != nil {
		return transition.Params{}, domain.Configf("transition", ts.ID, domain.ErrInvalidConfig, "bad params: %v", err)
	}
	return transition.NewParams(values), nil
}

func orVoid(name string) string {
	if name == "" {
		return domain.Void
	}
	return name
}
