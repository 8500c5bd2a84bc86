package runtime

import (
	"context"
	"math"
)

// nextExact draws the exponential waiting time of a Gillespie step from the first
// uniform draw. It reports false when the event would land past MaxTime.
func (e *Engine) nextExact(t, total float64) (float64, bool) {
	u := e.rng.Float64()
	next := t - math.Log1p(-u)/total
	if next > e.cfg.MaxTime {
		return e.cfg.MaxTime, false
	}
	return next, true
}

// fireExact selects the firing transition from the second uniform draw and fires it at next.
func (e *Engine) fireExact(ctx context.Context, next, total float64) {
	i := e.pick(e.rng.Float64() * total)
	e.fire(ctx, i, next, 1)
}

// pick returns the first transition whose cumulative rate exceeds target.
// Zero-rate transitions are never chosen; ties go to registration order.
func (e *Engine) pick(target float64) int {
	var cum float64
	last := -1
	for i, r := range e.rates {
		if r <= 0 {
			continue
		}
		cum += r
		last = i
		if target < cum {
			return i
		}
	}
	// Rounding can leave target == total; the last live transition owns that edge.
	return last
}
