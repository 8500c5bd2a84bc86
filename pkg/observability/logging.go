package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/markovchain/pkg/domain"
)

// LogHooks logs run boundaries at Info and every firing at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "solver", e.Solver.String(), "max_time", e.MaxTime)
		},
		OnFire: func(ctx context.Context, e *domain.FireEvent) {
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.DebugContext(ctx, "fire", "transition", e.TransitionID, "t", e.Time, "rate", e.Rate, "amount", e.Amount)
			}
		},
		OnAbsorbed: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "absorbed", "t", e.Time, "events", e.Events)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "run_end", "err", e.Err, "t", e.Time, "events", e.Events)
				return
			}
			logger.InfoContext(ctx, "run_end", "t", e.Time, "events", e.Events, "elapsed", e.Elapsed)
		},
	}
}
