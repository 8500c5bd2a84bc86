package serializer

import (
	"github.com/aretw0/markovchain/pkg/domain"
)

// Resampler emits one row per grid point, filled from the observations around it.
type Resampler struct {
	grid   Grid
	policy domain.Interpolation

	next     int // index of the first grid point not yet emitted
	observed bool
	lastT    float64
	last     []float64

	table    *Table
	finished bool
	err      error
}

// NewResampler creates a resampler over grid with the given policy.
func NewResampler(grid Grid, policy domain.Interpolation) *Resampler {
	return &Resampler{
		grid:   append(Grid(nil), grid...),
		policy: policy,
	}
}

// Begin records the column layout and treats the initial snapshot as the first observation.
func (r *Resampler) Begin(columns []string, t0 float64, snapshot []float64) {
	r.table = newTable(columns, len(r.grid))
	r.next = 0
	r.observed = false
	r.finished = false
	r.err = nil
	r.Observe(t0, snapshot)
}

// Observe emits every pending grid point strictly before t.
// A point equal to t waits for the next observation, so it ends up with the
// value the state holds at t once every event at t has fired.
func (r *Resampler) Observe(t float64, snapshot []float64) {
	if r.table == nil {
		r.table = newTable(nil, len(r.grid))
	}
	for r.next < len(r.grid) && r.grid[r.next] < t {
		g := r.grid[r.next]
		switch {
		case !r.observed:
			// Nothing before g yet: hold the first observation backwards.
			r.table.appendRow(g, snapshot)
		case r.policy == domain.InterpolateStep:
			r.table.appendRow(g, r.last)
		default:
			r.table.appendInterpolated(g, r.lastT, r.last, t, snapshot)
		}
		r.next++
	}
	r.last = append(r.last[:0], snapshot...)
	r.lastT = t
	r.observed = true
}

// Finish flushes every remaining grid point using the final snapshot.
func (r *Resampler) Finish(t float64, snapshot []float64) {
	r.Observe(t, snapshot)
	for ; r.next < len(r.grid); r.next++ {
		r.table.appendRow(r.grid[r.next], snapshot)
	}
	r.finished = true
}

// Abort drops the partial output; Table then reports err.
func (r *Resampler) Abort(err error) {
	r.table = nil
	r.finished = false
	r.err = err
}

// Table returns the finished output. A run that failed or is still going has none.
func (r *Resampler) Table() (*Table, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.finished {
		return nil, ErrNotFinished
	}
	return r.table, nil
}

// Grid returns the output timestamps.
func (r *Resampler) Grid() Grid {
	return append(Grid(nil), r.grid...)
}
