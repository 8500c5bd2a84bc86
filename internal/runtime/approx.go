package runtime

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/markovchain/pkg/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// stepTime returns the end of fixed step k. Times are computed from k rather than
// accumulated, and the last step is cut short at MaxTime.
func (e *Engine) stepTime(k int) float64 {
	next := float64(k+1) * e.cfg.StepSize
	if next >= e.cfg.MaxTime || e.cfg.MaxTime-next < 1e-9*e.cfg.StepSize {
		return e.cfg.MaxTime
	}
	return next
}

// stepEuler moves rate·h along every transition. Rates were all evaluated
// against the state at t, so the batch does not depend on transition order.
// Flows are not clamped: a batch that drives a source state below zero means
// the step is too coarse, and the run fails with domain.ErrStepTooLarge.
func (e *Engine) stepEuler(ctx context.Context, t float64, k int) (float64, error) {
	next := e.stepTime(k)
	h := next - t
	for i, r := range e.rates {
		if r > 0 {
			e.fire(ctx, i, t, r*h)
		}
	}
	for i, r := range e.rates {
		src := e.transitions[i].Source()
		if r <= 0 || src == domain.Void {
			continue
		}
		if v := e.store.Get(src); v < 0 {
			return next, &domain.NumericalError{
				TransitionID: e.transitions[i].ID(),
				Time:         t,
				Value:        r,
				Err:          fmt.Errorf("%w: %s fell to %g over dt=%g", domain.ErrStepTooLarge, src, v, h),
			}
		}
	}
	return next, nil
}

// stepTauLeap draws a Poisson firing count per transition for the step and applies
// them as one batch. A count larger than what the source still holds is cut down
// to the available whole units, in registration order.
func (e *Engine) stepTauLeap(ctx context.Context, t float64, k int) (float64, float64) {
	next := e.stepTime(k)
	h := next - t

	counts := make([]float64, len(e.rates))
	for i, r := range e.rates {
		if r > 0 {
			counts[i] = distuv.Poisson{Lambda: r * h, Src: e.src}.Rand()
		}
	}

	var fired float64
	for i, n := range counts {
		if n == 0 {
			continue
		}
		if src := e.transitions[i].Source(); src != domain.Void {
			if avail := math.Floor(e.store.Get(src)); n > avail {
				n = math.Max(avail, 0)
			}
		}
		if n > 0 {
			e.fire(ctx, i, t, n)
			fired += n
		}
	}
	return next, fired
}
