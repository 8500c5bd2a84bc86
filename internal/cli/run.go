package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/internal/presentation/tui"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/model"
	"github.com/aretw0/markovchain/pkg/observability"
	"github.com/aretw0/markovchain/pkg/registry"
	"github.com/aretw0/markovchain/pkg/replicate"
	"github.com/aretw0/markovchain/pkg/serializer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Output formats accepted by RunOptions.Format.
const (
	FormatAuto  = "auto"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// RunOptions carries the flags of the run command.
type RunOptions struct {
	ModelPath string
	// Solver overrides the model's solver when set.
	Solver string
	// Seed overrides the model's seed when non-nil.
	Seed       *uint64
	Replicates int
	Workers    int
	OutPath    string
	Format     string
	Metrics    bool
	Debug      bool
	LogLevel   string
	Quiet      bool
	Registry   *registry.Registry
}

// Run loads a model, solves it (once or as a batch of replicates) and writes the
// resampled table. Progress goes to stderr, the table to stdout or OutPath.
func Run(ctx context.Context, opts RunOptions, stdout, stderr io.Writer) error {
	f, err := model.Load(opts.ModelPath)
	if err != nil {
		return err
	}
	if opts.Solver != "" {
		f.Run.Solver = opts.Solver
	}
	if opts.Seed != nil {
		f.Run.Seed = opts.Seed
	}
	replicates := opts.Replicates
	if replicates == 0 {
		replicates = f.Run.Replicates
	}

	grid, err := f.Run.Grid()
	if err != nil {
		return err
	}
	policy, err := f.Run.Policy()
	if err != nil {
		return err
	}

	logger, err := createLogger(opts.Debug, opts.LogLevel, stderr)
	if err != nil {
		return err
	}
	hooks := observability.LogHooks(logger)
	var promReg *prometheus.Registry
	if opts.Metrics {
		promReg = prometheus.NewRegistry()
		m, err := observability.NewMetrics(promReg, "markov")
		if err != nil {
			return err
		}
		hooks = hooks.Merge(m.Hooks())
	}
	factory := func(extra ...markovchain.Option) (*markovchain.Chain, error) {
		base := []markovchain.Option{markovchain.WithLogger(logger), markovchain.WithLifecycleHooks(hooks)}
		return f.Build(opts.Registry, append(base, extra...)...)
	}

	var table *serializer.Table
	if replicates > 1 {
		seed := rand.Uint64()
		if f.Run.Seed != nil {
			seed = *f.Run.Seed
		}
		results, err := replicate.Run(ctx, replicate.Config{
			N: replicates, Seed: seed, Grid: grid, Policy: policy, Workers: opts.Workers,
		}, factory)
		if err != nil {
			if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
				printSystemMessage(stderr, "Interrupted by %s, pending replicates skipped.", sc.Signal())
			}
			return err
		}
		if table, err = replicate.Mean(results); err != nil {
			return err
		}
		if !opts.Quiet {
			tui.Status(stderr, "ok", fmt.Sprintf("%d replicates finished (seeds %d..%d), writing the mean", replicates, seed, seed+uint64(replicates-1)))
		}
	} else {
		chain, err := factory()
		if err != nil {
			return err
		}
		res, err := attachResampler(f, chain)
		if err != nil {
			return err
		}
		stats, err := chain.Solve(ctx)
		if err != nil {
			return err
		}
		if table, err = res.Table(); err != nil {
			return err
		}
		if !opts.Quiet {
			tui.Status(stderr, "ok", summary(stats))
		}
	}

	if err := writeTable(table, opts, stdout); err != nil {
		return err
	}
	if promReg != nil {
		return dumpMetrics(promReg, stderr)
	}
	return nil
}

func summary(stats markovchain.Statistics) string {
	msg := fmt.Sprintf("%s run finished at t=%g after %d steps (%g events) in %s",
		stats.Solver, stats.FinalTime, stats.Steps, stats.Events, stats.Elapsed)
	if stats.Absorbed {
		msg += fmt.Sprintf(", absorbed at t=%g", stats.AbsorbedAt)
	}
	return msg
}

func writeTable(table *serializer.Table, opts RunOptions, stdout io.Writer) (err error) {
	w := stdout
	if opts.OutPath != "" {
		f, ferr := os.Create(opts.OutPath)
		if ferr != nil {
			return fmt.Errorf("failed to create output: %w", ferr)
		}
		defer closeOutput(f, &err)
		w = f
	}

	format := strings.ToLower(opts.Format)
	if format == "" || format == FormatAuto {
		format = FormatCSV
		if isTerminal(w) {
			format = FormatTable
		}
	}

	switch format {
	case FormatCSV:
		return table.WriteCSV(w)
	case FormatTable:
		md := tui.TableMarkdown(table)
		if isTerminal(w) {
			render, err := tui.NewRenderer(terminalWidth(w))
			if err != nil {
				return err
			}
			if md, err = render(md); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
		}
		_, err := io.WriteString(w, md)
		return err
	}
	return domain.Configf("flag", "format", domain.ErrInvalidConfig, "unknown format %q (want csv, table or auto)", opts.Format)
}

// closeOutput closes f and reports its error unless an earlier one is set.
func closeOutput(f io.Closer, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close output: %w", cerr)
	}
}

func dumpMetrics(reg *prometheus.Registry, w io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
