package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
	"github.com/aretw0/markovchain/pkg/state"
	"github.com/aretw0/markovchain/pkg/transition"
)

// Config holds the settings fixed for one run.
type Config struct {
	MaxTime  float64
	Solver   domain.SolverMode
	StepSize float64 // fixed step for approximate solvers
	// MaxEvents aborts the run after that many steps (0 = unlimited).
	MaxEvents int
}

// Statistics summarises a finished run.
type Statistics struct {
	Solver     domain.SolverMode
	Steps      int
	Events     float64 // firings; for Euler, the number of steps
	FinalTime  float64
	Absorbed   bool
	AbsorbedAt float64
	// Fired holds the total amount moved by each transition, keyed by ID.
	Fired   map[string]float64
	Elapsed time.Duration
}

// Engine is the stepping loop of a Markov jump process.
// It owns nothing: the store, transitions and serializer are borrowed for the run.
type Engine struct {
	store       *state.Store
	view        state.View
	transitions []transition.Transition
	serializer  serializer.Serializer
	cfg         Config

	src    rand.Source
	rng    *rand.Rand
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	rates []float64
	fired []float64
	snap  []float64
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSource sets the random source. Two runs over the same model with sources in
// the same state produce the same trajectory.
func WithSource(src rand.Source) EngineOption {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(store *state.Store, transitions []transition.Transition, ser serializer.Serializer, cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		store:       store,
		view:        store.ReadOnly(),
		transitions: transitions,
		serializer:  ser,
		cfg:         cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	e.rng = rand.New(e.src)
	e.rates = make([]float64, len(transitions))
	e.fired = make([]float64, len(transitions))
	return e
}

// Validate checks the run settings and every transition reference.
func (e *Engine) Validate() error {
	if e.serializer == nil {
		return domain.Configf("run", "serializer", domain.ErrInvalidConfig, "no serializer set")
	}
	if !(e.cfg.MaxTime > 0) || math.IsInf(e.cfg.MaxTime, 0) {
		return domain.Configf("run", "max_time", domain.ErrInvalidConfig, "must be positive and finite, got %g", e.cfg.MaxTime)
	}
	if !e.cfg.Solver.Valid() {
		return domain.Configf("run", "solver", domain.ErrInvalidConfig, "unknown solver %v", e.cfg.Solver)
	}
	if e.cfg.Solver.Approximate() && (!(e.cfg.StepSize > 0) || math.IsInf(e.cfg.StepSize, 0)) {
		return domain.Configf("run", "dt", domain.ErrInvalidConfig, "%v solver needs a positive step size, got %g", e.cfg.Solver, e.cfg.StepSize)
	}
	if e.cfg.MaxEvents < 0 {
		return domain.Configf("run", "max_events", domain.ErrInvalidConfig, "must not be negative")
	}
	for _, tr := range e.transitions {
		if err := CheckReferences(e.store, tr); err != nil {
			return err
		}
	}
	return nil
}

// CheckReferences verifies that a transition only names registered states and counters.
func CheckReferences(store *state.Store, tr transition.Transition) error {
	check := func(role, name string) error {
		if name == domain.Void || store.Has(name) {
			return nil
		}
		return domain.Configf("transition", tr.ID(), domain.ErrUnknownReference, "%s %q is not a registered state", role, name)
	}
	if err := check("source", tr.Source()); err != nil {
		return err
	}
	if err := check("destination", tr.Destination()); err != nil {
		return err
	}
	if tr.Source() == domain.Void && tr.Destination() == domain.Void {
		return domain.Configf("transition", tr.ID(), domain.ErrInvalidConfig, "source and destination cannot both be %s", domain.Void)
	}
	for _, g := range tr.Governing() {
		if err := check("governing state", g); err != nil {
			return err
		}
	}
	if p, ok := tr.(interface{ Population() []string }); ok {
		for _, n := range p.Population() {
			if err := check("population state", n); err != nil {
				return err
			}
		}
	}
	for _, c := range tr.Counters() {
		if !store.HasCounter(c) {
			return domain.Configf("transition", tr.ID(), domain.ErrUnknownReference, "counter %q is not registered", c)
		}
	}
	if v, ok := tr.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the process from t=0 to MaxTime.
// The run is synchronous and is not interrupted by ctx; ctx is handed to hooks.
// On error the serializer is aborted so no partial trajectory escapes.
func (e *Engine) Run(ctx context.Context) (Statistics, error) {
	stats := Statistics{Solver: e.cfg.Solver}
	if err := e.Validate(); err != nil {
		return stats, err
	}
	start := time.Now()

	for i := range e.fired {
		e.fired[i] = 0
	}
	t := 0.0
	e.snap = e.store.Snapshot(e.snap)
	e.serializer.Begin(e.store.Columns(), t, e.snap)

	e.logger.Info("run started", "solver", e.cfg.Solver.String(), "max_time", e.cfg.MaxTime,
		"states", len(e.store.Names()), "transitions", len(e.transitions))
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{Type: domain.EventRunStart, Solver: e.cfg.Solver, MaxTime: e.cfg.MaxTime})
	}

	t, err := e.loop(ctx, t, &stats)
	stats.Elapsed = time.Since(start)
	stats.FinalTime = t
	stats.Fired = make(map[string]float64, len(e.transitions))
	for i, tr := range e.transitions {
		stats.Fired[tr.ID()] += e.fired[i]
	}

	end := &domain.RunEvent{
		Type:     domain.EventRunEnd,
		Solver:   e.cfg.Solver,
		Time:     t,
		MaxTime:  e.cfg.MaxTime,
		Events:   stats.Steps,
		Absorbed: stats.Absorbed,
		Elapsed:  stats.Elapsed,
		Err:      err,
	}
	if err != nil {
		e.serializer.Abort(err)
		e.logger.Error("run failed", "err", err, "t", t, "steps", stats.Steps)
		if e.hooks.OnRunEnd != nil {
			e.hooks.OnRunEnd(ctx, end)
		}
		return stats, err
	}

	e.snap = e.store.Snapshot(e.snap)
	e.serializer.Finish(t, e.snap)
	e.logger.Info("run finished", "t", t, "steps", stats.Steps, "absorbed", stats.Absorbed, "elapsed", stats.Elapsed)
	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, end)
	}
	return stats, nil
}

func (e *Engine) loop(ctx context.Context, t float64, stats *Statistics) (float64, error) {
	maxTime := e.cfg.MaxTime
	debug := e.logger.Enabled(ctx, slog.LevelDebug)

	for t < maxTime {
		total, err := e.evaluate(t)
		if err != nil {
			return t, err
		}
		if total <= 0 {
			stats.Absorbed = true
			stats.AbsorbedAt = t
			e.logger.Info("process absorbed", "t", t)
			if e.hooks.OnAbsorbed != nil {
				e.hooks.OnAbsorbed(ctx, &domain.RunEvent{Type: domain.EventAbsorbed, Solver: e.cfg.Solver, Time: t, MaxTime: maxTime, Events: stats.Steps, Absorbed: true})
			}
			return maxTime, nil
		}

		switch e.cfg.Solver {
		case domain.SolverExact:
			next, ok := e.nextExact(t, total)
			if !ok {
				return maxTime, nil
			}
			if err := e.checkLimit(t, stats.Steps); err != nil {
				return t, err
			}
			e.fireExact(ctx, next, total)
			t = next
			stats.Events++
		case domain.SolverEuler:
			if err := e.checkLimit(t, stats.Steps); err != nil {
				return t, err
			}
			next, err := e.stepEuler(ctx, t, stats.Steps)
			if err != nil {
				return t, err
			}
			t = next
			stats.Events++
		case domain.SolverTauLeap:
			if err := e.checkLimit(t, stats.Steps); err != nil {
				return t, err
			}
			var n float64
			t, n = e.stepTauLeap(ctx, t, stats.Steps)
			stats.Events += n
		}
		stats.Steps++

		e.snap = e.store.Snapshot(e.snap)
		e.serializer.Observe(t, e.snap)
		if debug {
			e.logger.Debug("step", "t", t, "total_rate", total, "step", stats.Steps)
		}
	}
	return t, nil
}

// checkLimit fails once a step beyond MaxEvents is about to be taken.
func (e *Engine) checkLimit(t float64, steps int) error {
	if e.cfg.MaxEvents > 0 && steps >= e.cfg.MaxEvents {
		return fmt.Errorf("%w: stopped at t=%g after %d steps", domain.ErrEventLimit, t, steps)
	}
	return nil
}

// evaluate fills e.rates and returns their sum. A bad rate is fatal.
func (e *Engine) evaluate(t float64) (float64, error) {
	var total float64
	for i, tr := range e.transitions {
		r, err := e.rate(tr, t)
		if err != nil {
			return 0, err
		}
		e.rates[i] = r
		total += r
	}
	return total, nil
}

func (e *Engine) rate(tr transition.Transition, t float64) (r float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &domain.NumericalError{
				TransitionID: tr.ID(),
				Time:         t,
				Value:        math.NaN(),
				Err:          &panicError{cause: p},
			}
		}
	}()
	r = tr.Rate(e.view)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return r, &domain.NumericalError{TransitionID: tr.ID(), Time: t, Value: r, Err: domain.ErrNonFiniteRate}
	case r < 0:
		return r, &domain.NumericalError{TransitionID: tr.ID(), Time: t, Value: r, Err: domain.ErrNegativeRate}
	}
	return r, nil
}

func (e *Engine) fire(ctx context.Context, i int, t, amount float64) {
	tr := e.transitions[i]
	tr.Apply(t, amount, e.store)
	e.fired[i] += amount
	if e.hooks.OnFire != nil {
		e.hooks.OnFire(ctx, &domain.FireEvent{TransitionID: tr.ID(), Time: t, Rate: e.rates[i], Amount: amount})
	}
}
