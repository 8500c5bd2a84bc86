package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CSV(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), RunOptions{ModelPath: "testdata/sir.yaml"}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 32)
	assert.Equal(t, "t,S,I,R,infections", lines[0])
	assert.Equal(t, "0,990,10,0,0", lines[1])
	assert.True(t, strings.HasPrefix(lines[31], "60,"))
	assert.Contains(t, stderr.String(), "exact run finished at t=60")
}

func TestRun_OverridesAndTableFormat(t *testing.T) {
	seed := uint64(5)
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), RunOptions{
		ModelPath: "testdata/sir.yaml",
		Solver:    "1",
		Seed:      &seed,
		Format:    FormatTable,
		Quiet:     true,
	}, &stdout, &stderr)
	require.Error(t, err, "euler needs dt, which the model does not set")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	stdout.Reset()
	err = Run(context.Background(), RunOptions{
		ModelPath: "testdata/sir.yaml",
		Seed:      &seed,
		Format:    FormatTable,
		Quiet:     true,
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "| t | S | I | R | infections |\n"))
	assert.Empty(t, stderr.String())
}

func TestRun_ReplicatesAndMetrics(t *testing.T) {
	out := filepath.Join(t.TempDir(), "mean.csv")
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), RunOptions{
		ModelPath:  "testdata/sir.yaml",
		Replicates: 4,
		Workers:    2,
		OutPath:    out,
		Metrics:    true,
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "t,S,I,R,infections\n"))

	assert.Contains(t, stderr.String(), "4 replicates finished (seeds 42..45)")
	assert.Contains(t, stderr.String(), "# TYPE markov_runs_total counter")
	assert.Contains(t, stderr.String(), `markov_transition_firings_total{transition="infect"}`)
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), RunOptions{ModelPath: "testdata/missing.yaml"}, &stdout, &stderr)
	assert.Error(t, err)

	err = Run(context.Background(), RunOptions{ModelPath: "testdata/sir.yaml", Format: "xml", Quiet: true}, &stdout, &stderr)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	err = Run(context.Background(), RunOptions{ModelPath: "testdata/sir.yaml", LogLevel: "loud"}, &stdout, &stderr)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRun_LogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), RunOptions{ModelPath: "testdata/sir.yaml", LogLevel: "info", Quiet: true}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "msg=run_start")
	assert.Contains(t, stderr.String(), "chain=sir")
	assert.NotContains(t, stderr.String(), "msg=fire")
}

type closer struct{ err error }

func (c closer) Close() error { return c.err }

func TestCloseOutput(t *testing.T) {
	diskFull := errors.New("no space left on device")

	var err error
	closeOutput(closer{err: diskFull}, &err)
	assert.ErrorIs(t, err, diskFull)

	earlier := errors.New("write failed")
	err = earlier
	closeOutput(closer{err: diskFull}, &err)
	assert.Equal(t, earlier, err)

	err = nil
	closeOutput(closer{}, &err)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Validate("testdata/sir.yaml", nil, &buf))
	assert.Contains(t, buf.String(), "3 states, 1 counters, 2 transitions")

	err := Validate("testdata/broken.yaml", nil, &buf)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Describe("testdata/sir.yaml", nil, &buf, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# sir\n"))
	assert.Contains(t, out, "| S | 990 |")
	assert.Contains(t, out, "Counters: infections")
	assert.Contains(t, out, "| infect | mass_action_by_population | `S -> I [0.3·S·Σ[I]/Σ[S I R]]` | infections |")
	assert.Contains(t, out, "| individual:I->R | individual | `I -> R [0.1·I]` |  |")
	assert.Contains(t, out, "- solver: exact")
	assert.Contains(t, out, "- output grid: [0..60, 31 points]")
	assert.Contains(t, out, "- seed: 42")
	assert.Contains(t, out, "```mermaid\ngraph LR\n")
}

func TestGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Graph(context.Background(), "testdata/sir.yaml", nil, &buf, false))
	out := buf.String()
	assert.Contains(t, out, "S -- \"infect\" --> I")
	assert.Contains(t, out, "I -.-> counter_infections")
	assert.Contains(t, out, "I -- \"individual:I->R\" --> R")
	assert.NotContains(t, out, "classDef")

	buf.Reset()
	require.NoError(t, Graph(context.Background(), "testdata/sir.yaml", nil, &buf, true))
	assert.Contains(t, buf.String(), "S[\"S <br/> ")
	assert.Contains(t, buf.String(), "classDef empty")
}
