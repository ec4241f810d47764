package cli

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/errors"
	pkgio "github.com/taxmagick/taxmagick/pkg/io"
	"github.com/taxmagick/taxmagick/pkg/observability"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// treeCommand creates the tree command for printing an indented text tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		f      dataFlags
		level  int
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "tree [taxdump]",
		Short: "Print the taxonomy as an indented tree",
		Long: `Print the taxonomy as an indented tree, one taxon per line:

  |--- 1 "root" [no rank]
  |    |--- 131567 "cellular organisms" [no rank]

With --no-rank-suffix _ the root is ranked "root" and every "no rank" taxon
is named after its nearest ranked ancestor:

  |--- 1 "root" [root]
  |    |--- 131567 "cellular organisms" [root_]

The taxdump argument is a taxdump.tar.gz, .tar.xz, a directory holding
nodes.dmp and names.dmp, or a URL. Without it the configured URL (by default
the NCBI taxdump) is downloaded and cached.

Use --root to start at another taxon, --ids to keep only the branches
leading to the given taxa and -L to limit the depth.

-f json writes the tree as a node and edge list instead. Such a file can be
given back as the taxdump argument.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.names = true
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), args, f, level, output, format)
		},
	}

	addDataFlags(cmd, &f, false)
	cmd.Flags().IntVarP(&level, "level", "L", -1, "number of levels to print (-1 for all)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runTree loads the tree and writes it as indented text or JSON.
func (c *CLI) runTree(ctx context.Context, stdout io.Writer, args []string, f dataFlags, level int, output, format string) error {
	if format != "text" && format != "json" {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want text or json)", format)
	}

	ds, err := c.loadData(ctx, args, f, true)
	if err != nil {
		return err
	}

	out, err := openOutput(stdout, output)
	if err != nil {
		return coded(err, "create %s", output)
	}
	defer out.Close()

	start := time.Now()
	bw := bufio.NewWriter(out)
	kind := "tree"
	if format == "json" {
		kind = "json"
		err = pkgio.WriteJSON(ds.root, ds.tree.OutputRanks(ds.root), level, bw)
	} else {
		err = ds.root.WriteTree(bw, level, taxonomy.DefaultTreeMarker)
	}
	if err == nil {
		err = bw.Flush()
	}
	observability.Tree().OnOutput(ctx, kind, ds.root.Count(), time.Since(start), err)
	if err != nil {
		return coded(err, "write tree")
	}
	if err := out.Close(); err != nil {
		return coded(err, "write %s", output)
	}

	if output != "" && output != "-" {
		printSuccess("Tree written")
		printFile(output)
		printStats(ds.root.Count(), len(ds.tree.OutputRanks(ds.root)), ds.origin)
	}
	return nil
}
