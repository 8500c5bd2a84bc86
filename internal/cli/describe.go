package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/internal/presentation/graph"
	"github.com/aretw0/markovchain/internal/presentation/tui"
	"github.com/aretw0/markovchain/pkg/model"
	"github.com/aretw0/markovchain/pkg/registry"
	"github.com/aretw0/markovchain/pkg/transition"
)

// Describe writes a markdown summary of a model, rendered when w is a terminal.
func Describe(path string, reg *registry.Registry, w io.Writer, raw bool) error {
	f, err := model.Load(path)
	if err != nil {
		return err
	}
	chain, err := f.Build(reg)
	if err != nil {
		return err
	}

	md := DescribeMarkdown(f, chain)
	if !raw && isTerminal(w) {
		render, err := tui.NewRenderer(terminalWidth(w))
		if err != nil {
			return err
		}
		if md, err = render(md); err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
	}
	_, err = io.WriteString(w, md)
	return err
}

// DescribeMarkdown summarises a built model.
func DescribeMarkdown(f *model.File, chain *markovchain.Chain) string {
	var sb strings.Builder
	name := f.Name
	if name == "" {
		name = "model"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if f.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", f.Description)
	}

	sb.WriteString("## States\n\n| state | initial |\n| --- | ---: |\n")
	for _, s := range chain.States() {
		fmt.Fprintf(&sb, "| %s | %g |\n", s, chain.Initial(s))
	}
	if counters := chain.Counters(); len(counters) > 0 {
		fmt.Fprintf(&sb, "\nCounters: %s\n", strings.Join(counters, ", "))
	}

	sb.WriteString("\n## Transitions\n\n| id | kind | law | counters |\n| --- | --- | --- | --- |\n")
	for _, tr := range chain.Transitions() {
		fmt.Fprintf(&sb, "| %s | %s | `%s` | %s |\n", tr.ID(), tr.Kind(), transition.Describe(tr), strings.Join(tr.Counters(), ", "))
	}

	sb.WriteString("\n## Graph\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(chain.States(), chain.Counters(), chain.Transitions(), nil))
	sb.WriteString("```\n")

	sb.WriteString("\n## Run\n\n")
	fmt.Fprintf(&sb, "- max_time: %g\n- solver: %s\n", chain.MaxTime(), chain.Solver())
	if chain.Solver().Approximate() {
		fmt.Fprintf(&sb, "- dt: %g\n", chain.StepSize())
	}
	if grid, err := f.Run.Grid(); err == nil {
		fmt.Fprintf(&sb, "- output grid: %s\n", grid)
	}
	if f.Run.Seed != nil {
		fmt.Fprintf(&sb, "- seed: %d\n", *f.Run.Seed)
	}
	return sb.String()
}

// Graph writes the Mermaid flowchart of a model. With final set, the model is
// solved first and every state is labelled with its final value.
func Graph(ctx context.Context, path string, reg *registry.Registry, w io.Writer, final bool) error {
	f, err := model.Load(path)
	if err != nil {
		return err
	}
	chain, err := f.Build(reg)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if final {
		if _, err := attachResampler(f, chain); err != nil {
			return err
		}
		if _, err := chain.Solve(ctx); err != nil {
			return err
		}
		overlay = &graph.Overlay{Values: make(map[string]float64)}
		for _, s := range chain.States() {
			overlay.Values[s] = chain.Value(s)
		}
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(chain.States(), chain.Counters(), chain.Transitions(), overlay))
	return err
}
