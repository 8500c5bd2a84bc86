package main

import (
	"github.com/aretw0/markovchain/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <model.yaml>",
	Short: "Solve a model and write the resampled table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{ModelPath: args[0], Registry: rates}
		opts.Solver, _ = flags.GetString("solver")
		opts.Replicates, _ = flags.GetInt("replicates")
		opts.Workers, _ = flags.GetInt("workers")
		opts.OutPath, _ = flags.GetString("out")
		opts.Format, _ = flags.GetString("format")
		opts.Metrics, _ = flags.GetBool("metrics")
		opts.Debug, _ = flags.GetBool("debug")
		opts.LogLevel, _ = flags.GetString("log-level")
		opts.Quiet, _ = flags.GetBool("quiet")
		if flags.Changed("seed") {
			seed, _ := flags.GetUint64("seed")
			opts.Seed = &seed
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Run(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("solver", "", "Override the solver: exact, euler, tau-leap (or 0, 1, 2)")
	runCmd.Flags().Uint64("seed", 0, "Override the random seed")
	runCmd.Flags().IntP("replicates", "n", 0, "Number of independent replicates; more than one writes their mean")
	runCmd.Flags().Int("workers", 0, "Concurrent replicates (default GOMAXPROCS)")
	runCmd.Flags().StringP("out", "o", "", "Write the table to a file instead of stdout")
	runCmd.Flags().String("format", cli.FormatAuto, "Output format: csv, table or auto")
	runCmd.Flags().Bool("metrics", false, "Print Prometheus metrics to stderr after the run")
	runCmd.Flags().Bool("debug", false, "Log every firing to stderr")
	runCmd.Flags().String("log-level", "", "Log run boundaries to stderr at this level: debug, info, warn, error")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress the run summary")
}
