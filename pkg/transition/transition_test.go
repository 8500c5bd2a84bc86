package transition

import (
	"testing"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, kv map[string]float64, counters ...string) *state.Store {
	t.Helper()
	s := state.NewStore()
	for _, name := range []string{"S", "I", "R", "E"} {
		if v, ok := kv[name]; ok {
			require.NoError(t, s.Register(name, v))
		}
	}
	for _, c := range counters {
		require.NoError(t, s.RegisterCounter(c))
	}
	return s
}

func TestRates(t *testing.T) {
	s := newStore(t, map[string]float64{"S": 90, "I": 10, "R": 0})

	tests := []struct {
		name string
		tr   Transition
		want float64
	}{
		{"individual", NewIndividual("I", "R", 0.5), 5},
		{"individual to void", NewIndividualToVoid("S", 0.1), 9},
		{"from void unconditional", NewIndividualFromVoid("S", 2), 2},
		{"from void governed", NewIndividualFromVoid("S", 2, WithGoverning("S", "I")), 200},
		{"mass action default governing", NewMassAction("S", "I", 0.01), 9},
		{"mass action explicit governing", NewMassAction("S", "I", 0.01, WithGoverning("I", "R")), 9},
		{"by population", NewMassActionByPopulation("S", "I", 0.3, []string{"S", "I", "R"}), 0.3 * 90 * 10 / 100},
		{"constant", NewConstant("I", "R", 4), 4},
		{"constant empty source", NewConstant("R", "S", 4), 0},
		{"constant from void", NewConstant(domain.Void, "S", 4), 4},
		{"custom", NewCustom("S", "I", NewParams(map[string]float64{"beta": 2}), func(v state.View, p Params) float64 {
			return p.Get("beta") * v.Get("I")
		}), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.tr.Rate(s), 1e-12)
		})
	}
}

func TestMassActionByPopulation_EmptyPopulation(t *testing.T) {
	s := newStore(t, map[string]float64{"S": 0, "I": 0})
	tr := NewMassActionByPopulation("S", "I", 1, []string{"S", "I"})
	assert.Zero(t, tr.Rate(s))
}

func TestFire_Directions(t *testing.T) {
	s := newStore(t, map[string]float64{"S": 5, "I": 5}, "infections", "deaths")

	Fire(NewIndividual("S", "I", 1, WithCounters("infections")), 0, s)
	assert.Equal(t, 4.0, s.Get("S"))
	assert.Equal(t, 6.0, s.Get("I"))
	assert.Equal(t, 1.0, s.Counter("infections"))

	Fire(NewIndividualToVoid("I", 1, WithCounters("deaths")), 0, s)
	assert.Equal(t, 5.0, s.Get("I"))
	assert.Equal(t, 9.0, s.Total())

	Fire(NewIndividualFromVoid("S", 1), 0, s)
	assert.Equal(t, 5.0, s.Get("S"))
	assert.Zero(t, s.Get(domain.Void))
}

func TestApply_Fractional(t *testing.T) {
	s := newStore(t, map[string]float64{"S": 10, "I": 0}, "flow")
	NewIndividual("S", "I", 1, WithCounters("flow")).Apply(0, 2.5, s)

	assert.Equal(t, 7.5, s.Get("S"))
	assert.Equal(t, 2.5, s.Get("I"))
	assert.Equal(t, 2.5, s.Counter("flow"))
}

func TestIdentity(t *testing.T) {
	tr := NewIndividual("S", "I", 1)
	assert.Equal(t, "individual:S->I", tr.ID())
	assert.False(t, tr.ExplicitID())

	named := NewIndividual("S", "I", 1, WithID("infection"))
	assert.Equal(t, "infection", named.ID())
	assert.True(t, named.ExplicitID())

	renamed := Renamed(tr, "individual:S->I#2")
	assert.Equal(t, "individual:S->I#2", renamed.ID())
	assert.Equal(t, "S", renamed.Source())
}

func TestGoverningDefaultsToDestination(t *testing.T) {
	tr := NewMassAction("S", "I", 1)
	assert.Equal(t, []string{"I"}, tr.Governing())

	gov := tr.Governing()
	gov[0] = "X"
	assert.Equal(t, []string{"I"}, tr.Governing(), "accessor must return a copy")
}

func TestCustom_Validate(t *testing.T) {
	err := NewCustom("S", "I", Params{}, nil).Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = Renamed(NewCustomToVoid("S", Params{}, nil), "x").(interface{ Validate() error }).Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "S -> I [0.5·S]", Describe(NewIndividual("S", "I", 0.5)))
	assert.Equal(t, "Void -> S [3]", Describe(NewIndividualFromVoid("S", 3)))
	assert.Contains(t, Describe(NewCustom("S", "I", NewParams(map[string]float64{"k": 1}), nil)), "custom{k=1}")
}
