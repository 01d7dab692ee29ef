package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show occupancy and capacity totals",
		Long: `The stats command summarizes the table: partition counts, total, used and
free capacity, internal fragmentation and the largest free partition.

Example:
  partctl stats
  partctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context())
		},
	}
	return cmd
}

func runStats(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tbl, err := openStore().Load(ctx)
	if err != nil {
		return err
	}
	printVerbose("Policy: %s, unique names: %t\n", tbl.Policy(), tbl.UniqueNames())
	return newReporter().Stats(tbl.Stats())
}
