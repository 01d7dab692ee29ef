package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newShowCmd())
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"snapshot", "ls"},
		Short:   "Show every partition and its occupant",
		Long: `The show command lists all partitions in table order with their capacity
and either their occupant (name, size, internal fragmentation) or "free".

Example:
  partctl show
  partctl show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context())
		},
	}
	return cmd
}

func runShow(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tbl, err := openStore().Load(ctx)
	if err != nil {
		return err
	}
	return newReporter().Snapshot(tbl.Snapshot())
}
