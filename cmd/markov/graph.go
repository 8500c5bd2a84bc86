package main

import (
	"github.com/aretw0/markovchain/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <model.yaml>",
	Short: "Export the transition graph visualization",
	Long:  `Loads a model and outputs a Mermaid diagram (graph LR) of its states, transitions and counters.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		final, _ := cmd.Flags().GetBool("final")
		return cli.Graph(cmd.Context(), args[0], rates, cmd.OutOrStdout(), final)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("final", false, "Solve the model and label states with their final values")
}
