package serializer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, t0, dt, tEnd float64) Grid {
	t.Helper()
	g, err := NewGrid(t0, dt, tEnd)
	require.NoError(t, err)
	return g
}

func TestResampler_LinearExactness(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 1, 4), domain.InterpolateLinear)

	r.Begin([]string{"A"}, 1, []float64{10})
	r.Observe(3, []float64{20})
	r.Finish(4, []float64{20})

	table, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, table.Time())
	assert.Equal(t, []float64{10, 10, 15, 20, 20}, table.Column("A"))
}

func TestResampler_StepHold(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 1, 4), domain.InterpolateStep)

	r.Begin([]string{"A"}, 1, []float64{10})
	r.Observe(3, []float64{20})
	r.Finish(4, []float64{20})

	table, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10, 20, 20}, table.Column("A"))
}

func TestResampler_CoincidentPointTakesEventValue(t *testing.T) {
	for _, policy := range []domain.Interpolation{domain.InterpolateLinear, domain.InterpolateStep} {
		t.Run(policy.String(), func(t *testing.T) {
			r := NewResampler(mustGrid(t, 0, 1, 2), policy)
			r.Begin([]string{"A"}, 0, []float64{0})
			r.Observe(1, []float64{7})
			r.Observe(1.5, []float64{9})
			r.Finish(2, []float64{9})

			table, err := r.Table()
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 7, 9}, table.Column("A"))
		})
	}
}

func TestResampler_SimultaneousEventsUseFinalValue(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 1, 2), domain.InterpolateLinear)
	r.Begin([]string{"A"}, 0, []float64{0})
	r.Observe(1, []float64{1})
	r.Observe(1, []float64{2})
	r.Finish(2, []float64{2})

	table, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 2}, table.Column("A"))
}

func TestResampler_ConstantRun(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 0.5, 2), domain.InterpolateLinear)
	r.Begin([]string{"A", "B"}, 0, []float64{3, 4})
	r.Finish(2, []float64{3, 4})

	table, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, []float64{3, 3, 3, 3, 3}, table.Column("A"))
	assert.Equal(t, []float64{4, 4, 4, 4, 4}, table.Column("B"))
}

func TestResampler_CopiesSnapshots(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 1, 2), domain.InterpolateStep)
	buf := []float64{1}
	r.Begin([]string{"A"}, 0, buf)
	buf[0] = 100 // driver reuses its buffer
	r.Observe(1.5, []float64{5})
	r.Finish(2, []float64{5})

	table, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 5}, table.Column("A"))
}

func TestResampler_AllOrNothing(t *testing.T) {
	r := NewResampler(mustGrid(t, 0, 1, 4), domain.InterpolateLinear)

	_, err := r.Table()
	assert.ErrorIs(t, err, ErrNotFinished)

	r.Begin([]string{"A"}, 0, []float64{1})
	r.Observe(2.5, []float64{2})
	_, err = r.Table()
	assert.ErrorIs(t, err, ErrNotFinished, "partial output must not be exposed")

	boom := errors.New("boom")
	r.Abort(boom)
	table, err := r.Table()
	assert.Nil(t, table)
	assert.ErrorIs(t, err, boom)
}

func TestGrid(t *testing.T) {
	g := mustGrid(t, 0, 0.1, 1)
	require.Len(t, g, 11)
	assert.Equal(t, 1.0, g.End())
	assert.InDelta(t, 0.3, g[3], 1e-15)

	g = mustGrid(t, 0, 0.3, 1)
	assert.Len(t, g, 4, "tEnd off the grid is not added")

	_, err := NewGrid(0, 0, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	_, err = NewGrid(2, 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = Points(0, 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	p, err := Points(0, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "[0..5, 3 points]", p.String())
}

func TestTable_MapAndCSV(t *testing.T) {
	table, err := NewTable([]float64{0, 1}, []string{"S", "I"}, [][]float64{{9, 8}, {1, 2}})
	require.NoError(t, err)

	m := table.Map()
	assert.Equal(t, []float64{0, 1}, m[domain.TimeColumn])
	assert.Equal(t, []float64{9, 8}, m["S"])
	assert.Nil(t, table.Column("missing"))
	assert.Equal(t, []float64{8, 2}, table.Row(1))

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))
	assert.Equal(t, "t,S,I\n0,9,1\n1,8,2\n", buf.String())

	_, err = NewTable([]float64{0}, []string{"S"}, [][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestRecorderAndTee(t *testing.T) {
	rec := NewRecorder()
	res := NewResampler(mustGrid(t, 0, 1, 1), domain.InterpolateStep)
	s := Tee(rec, res)

	s.Begin([]string{"A"}, 0, []float64{1})
	s.Observe(0.5, []float64{2})
	s.Finish(1, []float64{2})

	events, err := rec.Events()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 0.5, events[1].Time)
	assert.Equal(t, 0, rec.Index("A"))
	assert.Equal(t, -1, rec.Index("B"))

	table, err := res.Table()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, table.Column("A"))

	s.Abort(errors.New("late failure"))
	_, err = rec.Events()
	assert.Error(t, err)
}
