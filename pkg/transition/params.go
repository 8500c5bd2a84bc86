package transition

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Params is an immutable bag of named scalars bound to one transition.
// The zero value is an empty bag.
type Params struct {
	values map[string]float64
}

// NewParams copies m into a new bag.
func NewParams(m map[string]float64) Params {
	p := Params{values: make(map[string]float64, len(m))}
	for k, v := range m {
		p.values[k] = v
	}
	return p
}

// Get returns a parameter, or 0 when it is missing.
func (p Params) Get(name string) float64 {
	return p.values[name]
}

// Has reports whether the parameter is set.
func (p Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.values)
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of p with name set to v. p itself is unchanged.
func (p Params) With(name string, v float64) Params {
	out := NewParams(p.values)
	out.values[name] = v
	return out
}

// Map returns a copy of the underlying values.
func (p Params) Map() map[string]float64 {
	return NewParams(p.values).values
}

// Decode binds the bag into a typed struct using `param` tags, e.g.
//
//	type eggParams struct {
//		Capacity float64 `param:"K"`
//	}
//
// Rate functions can decode once at construction and close over the result.
func (p Params) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "param",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to build params decoder: %w", err)
	}
	if err := dec.Decode(p.values); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}

func (p Params) String() string {
	s := "{"
	for i, k := range p.Keys() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", k, p.values[k])
	}
	return s + "}"
}
