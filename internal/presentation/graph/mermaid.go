package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/transition"
)

// Overlay carries run results to show on the graph.
type Overlay struct {
	// Values labels each state with a value, typically the final one.
	Values map[string]float64
}

// GenerateMermaid produces a Mermaid flowchart of the transition graph.
// It applies semantic styling:
// - Void: ((Circle)), drawn separately as source and sink
// - State: [Rectangle]
// - Counter: {{Hexagon}}, linked by a dotted edge from the transitions that feed it
// With an overlay, empty states are greyed out.
func GenerateMermaid(states, counters []string, transitions []transition.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	usesSource, usesSink := false, false
	for _, tr := range transitions {
		usesSource = usesSource || tr.Source() == domain.Void
		usesSink = usesSink || tr.Destination() == domain.Void
	}
	if usesSource {
		sb.WriteString("    void_in((\"∅\"))\n")
	}

	for _, s := range states {
		label := s
		if overlay != nil {
			if v, ok := overlay.Values[s]; ok {
				label = fmt.Sprintf("%s <br/> %g", s, v)
			}
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(s), label)
	}
	for _, c := range counters {
		fmt.Fprintf(&sb, "    %s{{\"%s\"}}\n", counterID(c), c)
	}
	if usesSink {
		sb.WriteString("    void_out((\"∅\"))\n")
	}

	for _, tr := range transitions {
		from, to := sanitizeMermaidID(tr.Source()), sanitizeMermaidID(tr.Destination())
		if tr.Source() == domain.Void {
			from = "void_in"
		}
		if tr.Destination() == domain.Void {
			to = "void_out"
		}
		label := strings.ReplaceAll(tr.ID(), "\"", "'")
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, label, to)
		for _, c := range tr.Counters() {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", to, counterID(c))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef empty fill:#eeeeee,stroke:#9e9e9e,color:#616161;\n")
		for _, s := range states {
			if v, ok := overlay.Values[s]; ok && v == 0 {
				fmt.Fprintf(&sb, "    class %s empty;\n", sanitizeMermaidID(s))
			}
		}
	}

	return sb.String()
}

func counterID(name string) string {
	return "counter_" + sanitizeMermaidID(name)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
