package serializer

import (
	"fmt"
	"math"

	"github.com/aretw0/markovchain/pkg/domain"
)

// Grid is an ascending set of output timestamps.
type Grid []float64

// NewGrid builds t0, t0+dt, ... up to tEnd. Points are computed as t0+i·dt so
// rounding does not accumulate; tEnd is included when it lies on the grid.
func NewGrid(t0, dt, tEnd float64) (Grid, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, domain.Configf("run", "dt", domain.ErrInvalidConfig, "output step must be positive and finite, got %g", dt)
	}
	if tEnd < t0 || math.IsNaN(t0) || math.IsInf(tEnd, 0) {
		return nil, domain.Configf("run", "grid", domain.ErrInvalidConfig, "invalid range [%g, %g]", t0, tEnd)
	}
	n := int(math.Floor((tEnd-t0)/dt+1e-9)) + 1
	g := make(Grid, n)
	for i := range g {
		g[i] = t0 + float64(i)*dt
	}
	// Snap the last point onto tEnd to absorb representation error.
	if last := g[n-1]; math.Abs(last-tEnd) <= 1e-9*dt {
		g[n-1] = tEnd
	}
	return g, nil
}

// Points builds a grid from explicit timestamps, which must be strictly ascending.
func Points(ts ...float64) (Grid, error) {
	for i := 1; i < len(ts); i++ {
		if !(ts[i] > ts[i-1]) {
			return nil, domain.Configf("run", "grid", domain.ErrInvalidConfig,
				"points must be strictly ascending (%g after %g)", ts[i], ts[i-1])
		}
	}
	return append(Grid(nil), ts...), nil
}

// End returns the last point of the grid.
func (g Grid) End() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1]
}

func (g Grid) String() string {
	if len(g) == 0 {
		return "[]"
	}
	return fmt.Sprintf("[%g..%g, %d points]", g[0], g.End(), len(g))
}
