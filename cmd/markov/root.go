package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "markov",
	Short: "markov simulates continuous-time Markov jump processes",
	Long: `markov reads a model file (states, transitions and a run section), solves it with
the exact, Euler or tau-leap solver and writes the trajectory resampled onto a
fixed time grid.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
