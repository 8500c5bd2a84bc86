package markovchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/aretw0/markovchain/internal/runtime"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
	"github.com/aretw0/markovchain/pkg/state"
	"github.com/aretw0/markovchain/pkg/transition"
)

// Statistics summarises a finished run.
type Statistics = runtime.Statistics

// Chain is the high-level entry point of the library.
// It owns the state store and the registered transitions, and drives runs over them.
// A Chain is not safe for concurrent use.
type Chain struct {
	store       *state.Store
	transitions []transition.Transition
	ids         map[string]struct{}
	serializer  serializer.Serializer
	cfg         runtime.Config
	sealed      bool

	src    rand.Source
	seed   *uint64
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	// Name labels the chain in logs.
	Name string
}

// Option defines a functional option for configuring the Chain.
type Option func(*Chain)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Chain) {
		c.hooks = hooks
	}
}

// WithSeed makes every Solve start from a PCG stream seeded with seed.
// Solving the same chain twice then yields the same trajectory.
func WithSeed(seed uint64) Option {
	return func(c *Chain) {
		c.seed = &seed
	}
}

// WithSource sets the random source used by every Solve. The source is not rewound
// between runs. It takes precedence over WithSeed.
func WithSource(src rand.Source) Option {
	return func(c *Chain) {
		c.src = src
	}
}

// WithMaxEvents aborts a run with domain.ErrEventLimit after n steps.
func WithMaxEvents(n int) Option {
	return func(c *Chain) {
		c.cfg.MaxEvents = n
	}
}

// WithName labels the chain in logs.
func WithName(name string) Option {
	return func(c *Chain) {
		c.Name = name
	}
}

// New creates an empty chain using the exact solver.
func New(opts ...Option) *Chain {
	c := &Chain{
		store: state.NewStore(),
		ids:   make(map[string]struct{}),
		cfg:   runtime.Config{Solver: domain.SolverExact},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Name != "" {
		c.logger = c.logger.With("chain", c.Name)
	}
	return c
}

// RegisterState adds a state with its initial value.
func (c *Chain) RegisterState(name string, initial float64) error {
	if c.sealed {
		return domain.Configf("state", name, domain.ErrSealed, "chain has already been solved")
	}
	if math.IsNaN(initial) || math.IsInf(initial, 0) {
		return domain.Configf("state", name, domain.ErrInvalidConfig, "initial value must be finite, got %g", initial)
	}
	return c.store.Register(name, initial)
}

// RegisterCounter adds an output-only accumulator that transitions can increment.
func (c *Chain) RegisterCounter(name string) error {
	if c.sealed {
		return domain.Configf("counter", name, domain.ErrSealed, "chain has already been solved")
	}
	return c.store.RegisterCounter(name)
}

// RegisterTransition adds a transition. Every state, governing state and counter it
// names must already be registered.
// Two transitions with the same derived identity are both kept, the later one
// suffixed with "#n"; a clash on an identity set with transition.WithID is an error.
func (c *Chain) RegisterTransition(tr transition.Transition) error {
	if tr == nil {
		return domain.Configf("transition", "", domain.ErrInvalidConfig, "transition is nil")
	}
	if c.sealed {
		return domain.Configf("transition", tr.ID(), domain.ErrSealed, "chain has already been solved")
	}
	if err := runtime.CheckReferences(c.store, tr); err != nil {
		return err
	}

	id := tr.ID()
	if _, dup := c.ids[id]; dup {
		if explicit, ok := tr.(interface{ ExplicitID() bool }); ok && explicit.ExplicitID() {
			return domain.Configf("transition", id, domain.ErrDuplicate, "identity already registered")
		}
		for n := 2; ; n++ {
			alt := fmt.Sprintf("%s#%d", id, n)
			if _, taken := c.ids[alt]; !taken {
				id = alt
				break
			}
		}
		tr = transition.Renamed(tr, id)
	}
	c.ids[id] = struct{}{}
	c.transitions = append(c.transitions, tr)
	c.logger.Debug("transition registered", "id", id, "source", tr.Source(), "destination", tr.Destination())
	return nil
}

// SetMaxTime sets the end of the simulated time horizon.
func (c *Chain) SetMaxTime(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return domain.Configf("run", "max_time", domain.ErrInvalidConfig, "must be positive and finite, got %g", t)
	}
	c.cfg.MaxTime = t
	return nil
}

// SetSolver selects the stepping strategy.
func (c *Chain) SetSolver(mode domain.SolverMode) error {
	if !mode.Valid() {
		return domain.Configf("run", "solver", domain.ErrInvalidConfig, "unknown solver %v", mode)
	}
	c.cfg.Solver = mode
	return nil
}

// SetStepSize sets the fixed step of the approximate solvers.
func (c *Chain) SetStepSize(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return domain.Configf("run", "dt", domain.ErrInvalidConfig, "must be positive and finite, got %g", dt)
	}
	c.cfg.StepSize = dt
	return nil
}

// SetSerializer sets the consumer of the event stream used by Solve.
func (c *Chain) SetSerializer(s serializer.Serializer) error {
	if s == nil {
		return domain.Configf("run", "serializer", domain.ErrInvalidConfig, "serializer is nil")
	}
	c.serializer = s
	return nil
}

// Solve runs the chain from its initial values to MaxTime, feeding the configured
// serializer. The chain is sealed afterwards; solving again restarts from the
// initial values.
func (c *Chain) Solve(ctx context.Context) (Statistics, error) {
	return c.solve(ctx, c.serializer)
}

// Run solves the chain and resamples the trajectory onto grid.
// A serializer set with SetSerializer still receives every event.
// On error no table is returned.
func (c *Chain) Run(ctx context.Context, grid serializer.Grid, policy domain.Interpolation) (*serializer.Table, error) {
	res := serializer.NewResampler(grid, policy)
	var ser serializer.Serializer = res
	if c.serializer != nil {
		ser = serializer.Tee(res, c.serializer)
	}
	if _, err := c.solve(ctx, ser); err != nil {
		return nil, err
	}
	return res.Table()
}

func (c *Chain) solve(ctx context.Context, ser serializer.Serializer) (Statistics, error) {
	eng := runtime.NewEngine(c.store, c.transitions, ser, c.cfg,
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithSource(c.source()),
	)
	// A chain that fails validation stays open for registration.
	if err := eng.Validate(); err != nil {
		return Statistics{Solver: c.cfg.Solver}, err
	}
	c.sealed = true
	c.store.Reset()
	return eng.Run(ctx)
}

func (c *Chain) source() rand.Source {
	switch {
	case c.src != nil:
		return c.src
	case c.seed != nil:
		return rand.NewPCG(*c.seed, *c.seed^0x9e3779b97f4a7c15)
	default:
		return nil
	}
}

// Validate runs the checks Solve performs, without running: the serializer, the
// run settings and every registration.
func (c *Chain) Validate() error {
	return runtime.NewEngine(c.store, c.transitions, c.serializer, c.cfg).Validate()
}

// States returns the registered state names in registration order.
func (c *Chain) States() []string { return c.store.Names() }

// Counters returns the registered counter names in registration order.
func (c *Chain) Counters() []string { return c.store.Counters() }

// Columns returns the output columns: states, then counters.
func (c *Chain) Columns() []string { return c.store.Columns() }

// Initial returns the registered initial value of a state.
func (c *Chain) Initial(name string) float64 { return c.store.Initial(name) }

// Value returns the current value of a state or counter; after Solve, its final value.
func (c *Chain) Value(name string) float64 {
	if c.store.HasCounter(name) {
		return c.store.Counter(name)
	}
	return c.store.Get(name)
}

// Transitions returns the registered transitions in registration order.
func (c *Chain) Transitions() []transition.Transition {
	return append([]transition.Transition(nil), c.transitions...)
}

// MaxTime returns the configured time horizon.
func (c *Chain) MaxTime() float64 { return c.cfg.MaxTime }

// Solver returns the configured solver.
func (c *Chain) Solver() domain.SolverMode { return c.cfg.Solver }

// StepSize returns the configured fixed step.
func (c *Chain) StepSize() float64 { return c.cfg.StepSize }

// Sealed reports whether the chain has been solved and no longer accepts registrations.
func (c *Chain) Sealed() bool { return c.sealed }
