package model

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/registry"
	"github.com/aretw0/markovchain/pkg/state"
	"github.com/aretw0/markovchain/pkg/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SIR(t *testing.T) {
	f, err := Load("testdata/sir.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sir", f.Name)
	assert.Equal(t, []string{"S", "I", "R"}, f.States.Names())
	assert.Equal(t, 990.0, f.States[0].Initial)
	require.Len(t, f.Transitions, 2)
	assert.Equal(t, []string{"S", "I", "R"}, f.Transitions[0].Population)
	require.NotNil(t, f.Run.Seed)
	assert.Equal(t, uint64(42), *f.Run.Seed)

	grid, err := f.Run.Grid()
	require.NoError(t, err)
	assert.Len(t, grid, 31)

	chain, err := f.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "I", "R", "infections"}, chain.Columns())
	assert.Equal(t, 60.0, chain.MaxTime())

	policy, err := f.Run.Policy()
	require.NoError(t, err)
	first, err := chain.Run(context.Background(), grid, policy)
	require.NoError(t, err)

	again, err := f.Build(nil)
	require.NoError(t, err)
	second, err := again.Run(context.Background(), grid, policy)
	require.NoError(t, err)
	assert.Equal(t, first.Map(), second.Map(), "the seed in the run section makes runs repeatable")
}

func TestParse_StatesAsSequence(t *testing.T) {
	f, err := Parse(strings.NewReader(`
states:
  - {name: B, initial: 2}
  - {name: A, initial: 1}
transitions:
  - {from: B, to: A, rate: 1}
run: {max_time: 1}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, f.States.Names())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "states: {S: 1}\nbogus: true\n"},
		{"states scalar", "states: 3\n"},
		{"bad initial", "states: {S: lots}\n"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	doc := `
states: {S: 1, I: 0}
transitions:
  - {kind: warp, from: S, to: I, rate: 1}
  - {kind: custom, from: S, to: I, rate_fn: nowhere}
  - {kind: individual, from: S, to: Q, rate: 1}
  - {kind: constant, rate: 1}
run: {max_time: 10, solver: quantum}
`
	f, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = f.Build(registry.NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
	assert.Contains(t, err.Error(), `unknown kind "warp"`)
	assert.Contains(t, err.Error(), "transitions[3]")
}

func TestBuild_CustomRateFromRegistry(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("logistic", func(v state.View, p transition.Params) float64 {
		n := v.Get("N")
		return p.Get("r") * n * (1 - n/p.Get("K"))
	})

	doc := `
states: {N: 10}
transitions:
  - id: growth
    to: N
    rate_fn: logistic
    params: {r: "0.5", K: 100}
run: {max_time: 20, solver: 1, dt: 0.01, output_dt: 5}
`
	f, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	chain, err := f.Build(reg)
	require.NoError(t, err)
	assert.Equal(t, domain.SolverEuler, chain.Solver())
	trs := chain.Transitions()
	require.Len(t, trs, 1)
	assert.Equal(t, transition.KindCustom, trs[0].Kind())
	assert.Equal(t, domain.Void, trs[0].Source())

	grid, err := f.Run.Grid()
	require.NoError(t, err)
	table, err := chain.Run(context.Background(), grid, domain.InterpolateLinear)
	require.NoError(t, err)

	n := table.Column("N")
	require.Len(t, n, 5)
	for i := 1; i < len(n); i++ {
		assert.Greater(t, n[i], n[i-1])
	}
	assert.Less(t, n[len(n)-1], 100.0)
}

func TestMarshal_RoundTrip(t *testing.T) {
	f, err := Load("testdata/sir.yaml")
	require.NoError(t, err)

	data, err := f.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.Index(string(data), "S: 990") < strings.Index(string(data), "I: 10"))

	back, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestRunSpec_Defaults(t *testing.T) {
	var r RunSpec
	mode, err := r.Mode()
	require.NoError(t, err)
	assert.Equal(t, domain.SolverExact, mode)

	policy, err := r.Policy()
	require.NoError(t, err)
	assert.Equal(t, domain.InterpolateLinear, policy)
	assert.Empty(t, r.Options())

	r = RunSpec{MaxTime: 4, Dt: 0.5, Solver: "2"}
	mode, err = r.Mode()
	require.NoError(t, err)
	assert.Equal(t, domain.SolverTauLeap, mode)
	grid, err := r.Grid()
	require.NoError(t, err)
	assert.Len(t, grid, 9)
}

func TestTransitionSpec_Parameters(t *testing.T) {
	ts := TransitionSpec{ID: "laying", Params: map[string]any{"capacity": "400", "period": 365}}
	p, err := ts.Parameters()
	require.NoError(t, err)
	assert.Equal(t, 400.0, p.Get("capacity"))
	assert.Equal(t, 365.0, p.Get("period"))

	ts.Params["capacity"] = "lots"
	_, err = ts.Parameters()
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
