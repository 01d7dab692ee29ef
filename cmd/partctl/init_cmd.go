package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/partkit/internal/store"
	"github.com/joshuapare/partkit/partition"
)

var (
	initForce bool
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing state file")
	cmd.Flags().String("policy", "", "Selection policy: first-fit, best-fit or worst-fit")
	cmd.Flags().Bool("unique-names", false, "Reject allocating a name that is already resident")
	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("unique_names", cmd.Flags().Lookup("unique-names"))
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [capacity...]",
		Short: "Create a partition table",
		Long: `The init command creates a new state file with one free partition per
capacity, numbered from 1 in the order given. Without arguments the configured
partition list is used (default: 100 150 200 250 300).

Example:
  partctl init
  partctl init 64 128 256 --policy best-fit
  partctl init 100 100 100 --unique-names --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), args)
		},
	}
	return cmd
}

func runInit(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	capacities := cfg.Partitions
	if len(args) > 0 {
		capacities = make([]int, len(args))
		for i, arg := range args {
			c, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid capacity %q: %w", arg, err)
			}
			capacities[i] = c
		}
	}

	layout := make([]partition.Spec, len(capacities))
	for i, c := range capacities {
		layout[i] = partition.Spec{Capacity: c}
	}

	printVerbose("Creating state file: %s\n", cfg.State)

	tbl, err := openStore().Init(ctx, layout, store.InitOptions{
		Policy:      cfg.policy(),
		UniqueNames: cfg.UniqueNames,
		Force:       initForce,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return newReporter().Snapshot(tbl.Snapshot())
	}
	printInfo("Initialized %d partitions (%s) in %s\n", tbl.Len(), tbl.Policy(), cfg.State)
	return nil
}
