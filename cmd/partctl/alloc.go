package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/partkit/partition"
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alloc <name> <size>",
		Aliases: []string{"allocate"},
		Short:   "Allocate a process into a free partition",
		Long: `The alloc command places a named process in the partition chosen by the
table's policy and reports the partition and its internal fragmentation.
When no free partition is large enough the table is left unchanged.

Example:
  partctl alloc A 90
  partctl alloc B 140 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(cmd.Context(), args)
		},
	}
	return cmd
}

func runAlloc(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	name := args[0]
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}

	var (
		res     partition.Allocation
		outcome error
	)
	_, err = openStore().Update(ctx, func(tbl *partition.Table) error {
		res, outcome = tbl.Allocate(name, size)
		if outcome != nil && !errors.Is(outcome, partition.ErrNoFit) {
			return outcome
		}
		return nil
	})
	if err != nil {
		return err
	}

	return newReporter().Allocation(name, size, res, outcome)
}
