package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/joshuapare/partkit/internal/script"
	"github.com/joshuapare/partkit/partition"
)

var (
	runDryRun bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "Run against the table without saving it")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script|->",
		Short: "Run a script of operations",
		Long: `The run command executes an operation script against the table in one
locked update. Each line holds one operation; a word starting with '#' or ';'
begins a comment:

  alloc <name> <size>    (alias: allocate)
  free <name>            (alias: release)
  show                   (alias: snapshot)
  frag

Failed allocations and unknown names are reported and the script continues.
Any other error aborts the script and nothing is saved.

Example:
  partctl run ops.txt
  partctl run - < ops.txt
  partctl run ops.txt --dry-run --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), args)
		},
	}
	return cmd
}

func runScript(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ops, err := readScript(args[0])
	if err != nil {
		return err
	}
	printVerbose("Parsed %d operation(s)\n", len(ops))

	var results []script.Result
	exec := func(tbl *partition.Table) error {
		var runErr error
		results, runErr = script.Run(ctx, tbl, ops)
		return runErr
	}

	if runDryRun {
		tbl, err := openStore().Load(ctx)
		if err != nil {
			return err
		}
		if err := exec(tbl); err != nil {
			return err
		}
	} else if _, err := openStore().Update(ctx, exec); err != nil {
		return err
	}

	return newReporter().Results(results)
}

func readScript(path string) ([]script.Op, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open script")
		}
		defer f.Close()
		r = f
	}
	return script.Parse(r)
}
