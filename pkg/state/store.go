// Package state holds the named real-valued state vector that transitions read and mutate.
package state

import (
	"github.com/aretw0/markovchain/pkg/domain"
)

// View is the read-only face of a Store handed to rate functions.
// Counters are not visible through it.
type View interface {
	// Get returns the value of a state, or 0 for unknown names and Void.
	Get(name string) float64
	// Sum adds up the values of the given states.
	Sum(names ...string) float64
	// Has reports whether a state is registered.
	Has(name string) bool
}

// Store is a named state vector with a reserved Void entry and a set of counters.
// It is not safe for concurrent use: a Store belongs to exactly one run.
type Store struct {
	index    map[string]int
	names    []string
	values   []float64
	initial  []float64
	counters map[string]int
	cnames   []string
	cvalues  []float64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index:    make(map[string]int),
		counters: make(map[string]int),
	}
}

// Register adds a state with its initial value.
func (s *Store) Register(name string, initial float64) error {
	if err := s.checkName("state", name); err != nil {
		return err
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	s.values = append(s.values, initial)
	s.initial = append(s.initial, initial)
	return nil
}

// RegisterCounter adds a counter starting at zero.
func (s *Store) RegisterCounter(name string) error {
	if err := s.checkName("counter", name); err != nil {
		return err
	}
	s.counters[name] = len(s.cnames)
	s.cnames = append(s.cnames, name)
	s.cvalues = append(s.cvalues, 0)
	return nil
}

func (s *Store) checkName(kind, name string) error {
	switch name {
	case "":
		return domain.Configf(kind, name, domain.ErrInvalidConfig, "name must not be empty")
	case domain.Void, domain.TimeColumn:
		return domain.Configf(kind, name, domain.ErrReserved, "cannot register reserved name")
	}
	if _, ok := s.index[name]; ok {
		return domain.Configf(kind, name, domain.ErrDuplicate, "already registered as a state")
	}
	if _, ok := s.counters[name]; ok {
		return domain.Configf(kind, name, domain.ErrDuplicate, "already registered as a counter")
	}
	return nil
}

// Get returns the current value of a state. Unknown names and Void read as zero.
func (s *Store) Get(name string) float64 {
	if i, ok := s.index[name]; ok {
		return s.values[i]
	}
	return 0
}

// Set overwrites a state. Writes to unknown names and Void are discarded.
func (s *Store) Set(name string, v float64) {
	if i, ok := s.index[name]; ok {
		s.values[i] = v
	}
}

// Add shifts a state by delta, with the same discard rules as Set.
func (s *Store) Add(name string, delta float64) {
	if i, ok := s.index[name]; ok {
		s.values[i] += delta
	}
}

// Sum returns the aggregate mass of the given states.
func (s *Store) Sum(names ...string) float64 {
	var total float64
	for _, n := range names {
		total += s.Get(n)
	}
	return total
}

// Has reports whether name is a registered state.
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// HasCounter reports whether name is a registered counter.
func (s *Store) HasCounter(name string) bool {
	_, ok := s.counters[name]
	return ok
}

// Increment adds delta to a counter. Unknown counters are ignored.
func (s *Store) Increment(counter string, delta float64) {
	if i, ok := s.counters[counter]; ok {
		s.cvalues[i] += delta
	}
}

// Counter returns the current value of a counter.
func (s *Store) Counter(name string) float64 {
	if i, ok := s.counters[name]; ok {
		return s.cvalues[i]
	}
	return 0
}

// Names returns the state names in registration order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Counters returns the counter names in registration order.
func (s *Store) Counters() []string {
	return append([]string(nil), s.cnames...)
}

// Columns returns the snapshot layout: states followed by counters.
func (s *Store) Columns() []string {
	cols := make([]string, 0, len(s.names)+len(s.cnames))
	cols = append(cols, s.names...)
	return append(cols, s.cnames...)
}

// Width is the length of a snapshot.
func (s *Store) Width() int {
	return len(s.names) + len(s.cnames)
}

// Snapshot copies states then counters into dst, growing it if needed.
func (s *Store) Snapshot(dst []float64) []float64 {
	if cap(dst) < s.Width() {
		dst = make([]float64, s.Width())
	}
	dst = dst[:s.Width()]
	n := copy(dst, s.values)
	copy(dst[n:], s.cvalues)
	return dst
}

// Total returns the sum of every registered state (counters excluded).
func (s *Store) Total() float64 {
	var total float64
	for _, v := range s.values {
		total += v
	}
	return total
}

// Initial returns the registered initial value of a state, or 0.
func (s *Store) Initial(name string) float64 {
	if i, ok := s.index[name]; ok {
		return s.initial[i]
	}
	return 0
}

// Reset restores initial values and zeroes counters.
func (s *Store) Reset() {
	copy(s.values, s.initial)
	for i := range s.cvalues {
		s.cvalues[i] = 0
	}
}

// ReadOnly returns a View over s that exposes states only.
func (s *Store) ReadOnly() View {
	return readOnly{s: s}
}

type readOnly struct {
	s *Store
}

func (r readOnly) Get(name string) float64     { return r.s.Get(name) }
func (r readOnly) Sum(names ...string) float64 { return r.s.Sum(names...) }
func (r readOnly) Has(name string) bool        { return r.s.Has(name) }
