package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/transition"
)

// Registry manages the named rate functions that model files can refer to.
// It is safe for concurrent use, so one registry can serve parallel replicates.
type Registry struct {
	mu    sync.RWMutex
	rates map[string]transition.RateFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rates: make(map[string]transition.RateFunc),
	}
}

// Register adds a rate function to the registry.
// If a function with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn transition.RateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[name] = fn
}

// Lookup returns the rate function registered under name.
// Returns a ConfigurationError wrapping domain.ErrUnknownReference if it is missing.
func (r *Registry) Lookup(name string) (transition.RateFunc, error) {
	r.mu.RLock()
	fn, ok := r.rates[name]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.Configf("rate", name, domain.ErrUnknownReference, "rate function not registered")
	}
	return fn, nil
}

// Names lists the registered rate functions in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rates))
	for n := range r.rates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String implements fmt.Stringer for diagnostics.
func (r *Registry) String() string {
	return fmt.Sprintf("registry%v", r.Names())
}
