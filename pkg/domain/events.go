package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventFire     EventType = "fire"
	EventAbsorbed EventType = "absorbed"
	EventRunEnd   EventType = "run_end"
)

// RunEvent describes the start or the end of a run.
type RunEvent struct {
	Type     EventType     `json:"type"`
	Solver   SolverMode    `json:"solver"`
	Time     float64       `json:"time"`
	MaxTime  float64       `json:"max_time"`
	Events   int           `json:"events"`
	Absorbed bool          `json:"absorbed,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Err      error         `json:"-"`
}

// FireEvent describes one transition firing (or one batch contribution in approximate modes).
type FireEvent struct {
	TransitionID string  `json:"transition_id"`
	Time         float64 `json:"time"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any nil field is skipped. Hooks run synchronously on the solving goroutine.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnFire     func(context.Context, *FireEvent)
	OnAbsorbed func(context.Context, *RunEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chainRun(h.OnRunStart, other.OnRunStart),
		OnFire:     chainFire(h.OnFire, other.OnFire),
		OnAbsorbed: chainRun(h.OnAbsorbed, other.OnAbsorbed),
		OnRunEnd:   chainRun(h.OnRunEnd, other.OnRunEnd),
	}
}

func chainRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainFire(a, b func(context.Context, *FireEvent)) func(context.Context, *FireEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *FireEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
