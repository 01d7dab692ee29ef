package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newFragCmd())
}

func newFragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frag",
		Short: "Show total internal fragmentation",
		Long: `The frag command prints the capacity left unused inside occupied
partitions, summed over the table. Free partitions do not count.

Example:
  partctl frag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrag(cmd.Context())
		},
	}
	return cmd
}

func runFrag(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tbl, err := openStore().Load(ctx)
	if err != nil {
		return err
	}
	return newReporter().Total(tbl.TotalInternalFragmentation())
}
