package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/errors"
	"github.com/taxmagick/taxmagick/pkg/observability"
	"github.com/taxmagick/taxmagick/pkg/render"
	"github.com/taxmagick/taxmagick/pkg/render/dot"
)

// Diagram formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// dotCommand creates the dot command for drawing a subtree with Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		f        dataFlags
		level    int
		output   string
		format   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dot [taxdump]",
		Short: "Draw a subtree as a Graphviz diagram",
		Long: `Draw the subtree under --root as a Graphviz diagram, limited to -L levels.

Taxa cut off by the depth limit are drawn dashed; taxa named with --ids are
highlighted and everything not leading to them is pruned.

The default output is DOT source. --svg (or -f svg) lays the graph out with
Graphviz; -f png and -f pdf additionally need rsvg-convert. When -f is not
given the extension of -o picks the format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if svg {
				format = formatSVG
			}
			if format == "" {
				format = formatFromPath(output)
			}
			f.names = true
			return c.runDot(cmd.Context(), cmd.OutOrStdout(), args, f, dot.Options{Depth: level, Detailed: detailed}, format, output)
		},
	}

	addDataFlags(cmd, &f, false)
	cmd.Flags().IntVarP(&level, "level", "L", 3, "number of levels to draw (-1 for all)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot (default), svg, png, pdf")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG (same as -f svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add tax ids to labels")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatDOT, formatSVG, formatPNG, formatPDF}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// formatFromPath guesses a diagram format from a file extension.
func formatFromPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case formatSVG, formatPNG, formatPDF:
		return ext
	}
	return formatDOT
}

// runDot loads the tree, builds the diagram and writes it in format.
func (c *CLI) runDot(ctx context.Context, stdout io.Writer, args []string, f dataFlags, opts dot.Options, format, output string) error {
	switch format {
	case formatDOT, formatSVG, formatPNG, formatPDF:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot, svg, png or pdf)", format)
	}
	if (format == formatPNG || format == formatPDF) && !render.Available() {
		return errors.New(errors.ErrCodeUnsupported, "%s output requires rsvg-convert (librsvg)", format)
	}

	ds, err := c.loadData(ctx, args, f, true)
	if err != nil {
		return err
	}
	opts.Highlight = ds.keep

	start := time.Now()
	data, err := c.diagram(ctx, ds, opts, format)
	observability.Tree().OnOutput(ctx, format, ds.root.Count(), time.Since(start), err)
	if err != nil {
		return err
	}

	out, err := openOutput(stdout, output)
	if err != nil {
		return coded(err, "create %s", output)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return coded(err, "write %s", output)
	}
	if err := out.Close(); err != nil {
		return coded(err, "write %s", output)
	}

	if output != "" && output != "-" {
		printSuccess("Diagram written")
		printFile(output)
		printStats(ds.root.Count(), len(ds.tree.OutputRanks(ds.root)), ds.origin)
		if format == formatDOT {
			printNextStep("Render", fmt.Sprintf("dot -Tsvg %s -o %s.svg", output, strings.TrimSuffix(output, filepath.Ext(output))))
		}
	}
	return nil
}

// diagram produces the bytes for format.
func (c *CLI) diagram(ctx context.Context, ds *dataset, opts dot.Options, format string) ([]byte, error) {
	src := dot.ToDOT(ds.root, opts)
	if format == formatDOT {
		return []byte(src), nil
	}

	spinner := newSpinner(ctx, "Laying out graph...")
	spinner.Start()
	svg, err := dot.RenderSVG(ctx, src)
	spinner.Stop()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}

	switch format {
	case formatPNG:
		data, err := render.ToPNG(svg, 2)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert to png")
		}
		return data, nil
	case formatPDF:
		data, err := render.ToPDF(svg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert to pdf")
		}
		return data, nil
	}
	return svg, nil
}
