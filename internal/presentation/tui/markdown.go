package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/aretw0/markovchain/pkg/serializer"
)

// TableMarkdown renders a table as a markdown table with the time column first.
func TableMarkdown(t *serializer.Table) string {
	var sb strings.Builder
	cols := append([]string{domain.TimeColumn}, t.Columns()...)
	fmt.Fprintf(&sb, "| %s |\n", strings.Join(cols, " | "))
	fmt.Fprintf(&sb, "|%s\n", strings.Repeat(" ---: |", len(cols)))

	times := t.Time()
	cells := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		cells[0] = formatNumber(times[i])
		for c, v := range t.Row(i) {
			cells[c+1] = formatNumber(v)
		}
		fmt.Fprintf(&sb, "| %s |\n", strings.Join(cells, " | "))
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
