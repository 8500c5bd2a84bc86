package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSolverMode(t *testing.T) {
	tests := []struct {
		in   string
		want domain.SolverMode
	}{
		{"exact", domain.SolverExact},
		{"0", domain.SolverExact},
		{" Gillespie ", domain.SolverExact},
		{"euler", domain.SolverEuler},
		{"1", domain.SolverEuler},
		{"tau-leap", domain.SolverTauLeap},
		{"2", domain.SolverTauLeap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseSolverMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.ParseSolverMode("3")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.False(t, domain.SolverMode(3).Valid())
	assert.Equal(t, "SolverMode(3)", domain.SolverMode(3).String())
	assert.True(t, domain.SolverTauLeap.Approximate())
	assert.False(t, domain.SolverExact.Approximate())
}

func TestParseInterpolation(t *testing.T) {
	p, err := domain.ParseInterpolation("")
	require.NoError(t, err)
	assert.Equal(t, domain.InterpolateLinear, p)

	p, err = domain.ParseInterpolation("hold")
	require.NoError(t, err)
	assert.Equal(t, domain.InterpolateStep, p)

	_, err = domain.ParseInterpolation("cubic")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestErrors(t *testing.T) {
	cfg := domain.Configf("state", "S", domain.ErrDuplicate, "already registered")
	assert.Equal(t, `state "S": already registered: duplicate registration`, cfg.Error())
	assert.ErrorIs(t, cfg, domain.ErrDuplicate)

	anon := domain.Configf("run", "", domain.ErrInvalidConfig, "no transitions")
	assert.Equal(t, "run: no transitions: invalid configuration", anon.Error())

	var num error = &domain.NumericalError{TransitionID: "decay", Time: 1.5, Value: -2, Err: domain.ErrNegativeRate}
	assert.Equal(t, `transition "decay" at t=1.5: negative rate (rate=-2)`, num.Error())
	var target *domain.NumericalError
	require.True(t, errors.As(num, &target))
	assert.Equal(t, "decay", target.TransitionID)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "a.start") },
		OnFire:     func(context.Context, *domain.FireEvent) { calls = append(calls, "a.fire") },
	}
	b := domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) { calls = append(calls, "b.start") },
		OnRunEnd:   func(context.Context, *domain.RunEvent) { calls = append(calls, "b.end") },
	}

	m := a.Merge(b)
	ctx := context.Background()
	m.OnRunStart(ctx, &domain.RunEvent{})
	m.OnFire(ctx, &domain.FireEvent{})
	m.OnRunEnd(ctx, &domain.RunEvent{})
	assert.Nil(t, m.OnAbsorbed)
	assert.Equal(t, []string{"a.start", "b.start", "a.fire", "b.end"}, calls)
}
