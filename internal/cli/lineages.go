package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/observability"
	"github.com/taxmagick/taxmagick/pkg/sink"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// lineagesCommand creates the lineages command for flattened lineage tables.
func (c *CLI) lineagesCommand() *cobra.Command {
	var (
		f      dataFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "lineages [taxdump]",
		Short: "Write each taxon with its ancestor at every rank",
		Long: `Write one row per taxon: its id, name and rank, then the name (or id)
of its nearest ancestor at every rank present in the output.

Columns follow the inferred rank order, restricted to the ranks that occur
under --root. Without --names every cell holds a tax id. "no rank" taxa
get no row or column unless --no-rank-suffix names them, for example
--no-rank-suffix _ turns a "no rank" taxon under a family into "family_".

The output target decides the format:
  -, empty             CSV on stdout
  file.csv             CSV file
  file.db, sqlite://p  SQLite database (tables runs and lineages)
  postgres://host/db   PostgreSQL database (same tables)
  mongodb://host/      MongoDB collection (see [mongo] in the config)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLineages(cmd.Context(), cmd.OutOrStdout(), args, f, output)
		},
	}

	addDataFlags(cmd, &f, true)
	cmd.Flags().StringVarP(&output, "out", "o", "-", "output target: file.csv, file.db, sqlite://path, postgres://dsn or mongodb://uri")

	return cmd
}

// runLineages loads the tree and writes its lineages to the selected sink.
func (c *CLI) runLineages(ctx context.Context, stdout io.Writer, args []string, f dataFlags, output string) error {
	ds, err := c.loadData(ctx, args, f, true)
	if err != nil {
		return err
	}
	ranks := ds.tree.OutputRanks(ds.root)

	w, err := sink.Open(ctx, output, sink.Options{
		Stdout: stdout,
		Mongo: sink.MongoOptions{
			Database:   c.cfg.Mongo.Database,
			Collection: c.cfg.Mongo.Collection,
		},
	})
	if err != nil {
		return coded(err, "open %s", output)
	}

	start := time.Now()
	counter := &rowCounter{RowWriter: w}
	err = writeLineages(ds.root, w, counter, ranks)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	observability.Tree().OnOutput(ctx, "lineages", counter.n, time.Since(start), err)
	if err != nil {
		return coded(err, "write lineages")
	}

	if kind, _ := sink.Resolve(output); kind != sink.KindCSV || (output != "" && output != "-") {
		printSuccess("Wrote %d lineages", counter.n)
		printFile(output)
		printStats(ds.root.Count(), len(ranks), ds.origin)
	}
	return nil
}

func writeLineages(root *taxonomy.Node, w sink.Writer, rows taxonomy.RowWriter, ranks []string) error {
	if err := w.WriteHeader(ranks); err != nil {
		return err
	}
	return taxonomy.WriteLineages(root, rows, ranks)
}

// rowCounter counts rows on their way to a sink.
type rowCounter struct {
	taxonomy.RowWriter
	n int
}

func (r *rowCounter) WriteRow(row taxonomy.Row) error {
	if err := r.RowWriter.WriteRow(row); err != nil {
		return err
	}
	r.n++
	return nil
}
