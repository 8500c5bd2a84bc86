package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/markovchain"
	"github.com/aretw0/markovchain/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of markov",
	Run: func(cmd *cobra.Command, args []string) {
		banner, _ := cmd.Flags().GetBool("banner")
		if banner {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(markovchain.Version))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "markov version %s\n", strings.TrimSpace(markovchain.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner too")
}
