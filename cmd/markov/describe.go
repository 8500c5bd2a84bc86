package main

import (
	"github.com/aretw0/markovchain/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <model.yaml>",
	Short: "Print a summary of a model's states, transitions and run settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		return cli.Describe(args[0], rates, cmd.OutOrStdout(), raw)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
