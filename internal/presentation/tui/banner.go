package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the markov banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _ __ ___   __ _ _ __| | _______   __", "#818cf8"},
		{" | '_ ` _ \\ / _` | '__| |/ / _ \\ \\ / /", "#a78bfa"},
		{" | | | | | | (_| | |  |   < (_) \\ V / ", "#c084fc"},
		{" |_| |_| |_|\\__,_|_|  |_|\\_\\___/ \\_/  ", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  version "+version).Faint())
	fmt.Fprintln(w)
}

// Status writes a one-line outcome: green for success, yellow for a warning, red for failure.
func Status(w io.Writer, level, msg string) {
	out := termenv.NewOutput(w)
	var mark termenv.Style
	switch level {
	case "ok":
		mark = out.String("✔").Foreground(out.Color("#22c55e"))
	case "warn":
		mark = out.String("!").Foreground(out.Color("#eab308"))
	default:
		mark = out.String("✘").Foreground(out.Color("#ef4444"))
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg)
}
