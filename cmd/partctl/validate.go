package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joshuapare/partkit/partition/verify"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the state file against table invariants",
		Long: `The validate command loads the state file and checks that partition IDs
are unique, every occupant fits its partition, recorded fragmentation matches
capacity minus size, and the total matches the per-partition sum.

Example:
  partctl validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context())
		},
	}
	return cmd
}

func runValidate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tbl, err := openStore().Load(ctx)
	if err != nil {
		return err
	}
	if err := verify.Table(tbl); err != nil {
		return err
	}

	if jsonOut {
		return newReporter().Stats(tbl.Stats())
	}
	printInfo("%s: OK (%d partitions)\n", cfg.State, tbl.Len())
	return nil
}
