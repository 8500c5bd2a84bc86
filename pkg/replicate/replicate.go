// Package replicate runs independent copies of a chain in parallel and summarises
// their output tables.
//
// Every replicate is built fresh by a Factory, so no state, serializer or random
// stream is shared. Replicate i is seeded with Seed+i, which makes a whole batch
// repeatable.
package replicate

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sort"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Factory builds a fresh chain. The options carry the replicate seed and must be
// passed on to markovchain.New (or dsl.Builder.Build, model.File.Build).
type Factory func(opts ...markovchain.Option) (*markovchain.Chain, error)

// Config describes a batch.
type Config struct {
	N      int
	Seed   uint64
	Grid   serializer.Grid
	Policy domain.Interpolation
	// Workers bounds the number of concurrent runs; 0 means GOMAXPROCS.
	Workers int
}

// Result is the outcome of one replicate.
type Result struct {
	Index int
	Seed  uint64
	Table *serializer.Table
	Stats markovchain.Statistics
}

// Run solves cfg.N replicates. The first failure cancels the replicates that have
// not started yet and is returned; runs already in flight finish normally.
func Run(ctx context.Context, cfg Config, factory Factory) ([]Result, error) {
	if cfg.N <= 0 {
		return nil, domain.Configf("replicate", "n", domain.ErrInvalidConfig, "need at least one replicate, got %d", cfg.N)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, cfg.N)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.N; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := cfg.Seed + uint64(i)
			chain, err := factory(markovchain.WithSeed(seed))
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			res := serializer.NewResampler(cfg.Grid, cfg.Policy)
			if err := chain.SetSerializer(res); err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			stats, err := chain.Solve(gctx)
			if err != nil {
				return fmt.Errorf("replicate %d (seed %d): %w", i, seed, err)
			}
			table, err := res.Table()
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			results[i] = Result{Index: i, Seed: seed, Table: table, Stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Mean returns the pointwise mean of the replicate tables.
func Mean(results []Result) (*serializer.Table, error) {
	return reduce(results, func(xs []float64) float64 {
		return stat.Mean(xs, nil)
	})
}

// Quantile returns the pointwise empirical p-quantile of the replicate tables.
func Quantile(results []Result, p float64) (*serializer.Table, error) {
	if p < 0 || p > 1 {
		return nil, domain.Configf("replicate", "quantile", domain.ErrInvalidConfig, "p must lie in [0, 1], got %g", p)
	}
	return reduce(results, func(xs []float64) float64 {
		sort.Float64s(xs)
		return stat.Quantile(p, stat.Empirical, xs, nil)
	})
}

func reduce(results []Result, fn func([]float64) float64) (*serializer.Table, error) {
	if len(results) == 0 {
		return nil, domain.Configf("replicate", "results", domain.ErrInvalidConfig, "no results to summarise")
	}
	first := results[0].Table
	columns := first.Columns()
	for _, r := range results[1:] {
		if r.Table.Len() != first.Len() || !slices.Equal(r.Table.Columns(), columns) {
			return nil, domain.Configf("replicate", "results", domain.ErrInvalidConfig, "replicate %d has a different shape", r.Index)
		}
	}

	series := make([][]float64, len(columns))
	xs := make([]float64, len(results))
	for c, name := range columns {
		cols := make([][]float64, len(results))
		for i, r := range results {
			cols[i] = r.Table.Column(name)
		}
		out := make([]float64, first.Len())
		for row := range out {
			for i := range cols {
				xs[i] = cols[i][row]
			}
			out[row] = fn(xs)
		}
		series[c] = out
	}
	return serializer.NewTable(first.Time(), columns, series)
}
