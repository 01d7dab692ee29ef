package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/partkit/partition"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "free <name>",
		Aliases: []string{"release"},
		Short:   "Release the partition holding a process",
		Long: `The free command releases the first partition (in table order) whose
occupant has the given name.

Example:
  partctl free B`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(cmd.Context(), args)
		},
	}
	return cmd
}

func runFree(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := args[0]

	var (
		res     partition.Release
		outcome error
	)
	_, err := openStore().Update(ctx, func(tbl *partition.Table) error {
		res, outcome = tbl.Free(name)
		if outcome != nil && !errors.Is(outcome, partition.ErrNotFound) {
			return outcome
		}
		return nil
	})
	if err != nil {
		return err
	}

	return newReporter().Release(name, res, outcome)
}
