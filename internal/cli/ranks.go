package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// ranksCommand creates the ranks command for printing the inferred rank order.
func (c *CLI) ranksCommand() *cobra.Command {
	var f dataFlags

	cmd := &cobra.Command{
		Use:   "ranks [taxdump]",
		Short: "Print the inferred rank order",
		Long: `Print the ranks present under --root, one per line, in the order
inferred from the tree: a rank comes after every rank that directly
precedes it on some path from the root.

With --verbose each rank is followed by the ranks that directly precede it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRanks(cmd.Context(), cmd.OutOrStdout(), args, f)
		},
	}

	addDataFlags(cmd, &f, false)

	return cmd
}

// runRanks loads the tree and prints its rank order.
func (c *CLI) runRanks(ctx context.Context, stdout io.Writer, args []string, f dataFlags) error {
	ds, err := c.loadData(ctx, args, f, true)
	if err != nil {
		return err
	}
	ranks := ds.tree.OutputRanks(ds.root)

	if !c.flags.verbose {
		for _, r := range ranks {
			if _, err := fmt.Fprintln(stdout, r); err != nil {
				return err
			}
		}
		return nil
	}
	return writePredecessors(stdout, ranks, taxonomy.PredecessorSets(ds.root))
}

// writePredecessors prints "rank <- a, b" lines in rank order.
func writePredecessors(w io.Writer, ranks []string, preds map[string]map[string]struct{}) error {
	for _, r := range ranks {
		before := slices.Sorted(maps.Keys(preds[r]))
		line := r
		if len(before) > 0 {
			line += " <- " + strings.Join(before, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
