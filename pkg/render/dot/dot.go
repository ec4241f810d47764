package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// Options configures diagram generation.
type Options struct {
	// Depth is the number of levels drawn, the root included. Zero or
	// negative draws the whole subtree.
	Depth int

	// Detailed adds the tax id to every label.
	Detailed bool

	// Highlight lists ids drawn with a filled background.
	Highlight taxonomy.IDSet
}

// ToDOT converts the subtree under root to Graphviz DOT source. Nodes and
// edges appear in pre-order, children in their stored order, so the output
// is deterministic.
func ToDOT(root *taxonomy.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph taxonomy {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(n *taxonomy.Node, depth int)
	walk = func(n *taxonomy.Node, depth int) {
		truncated := depth == 1 && len(n.Children) > 0
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts, truncated), ", "))
		if depth == 1 {
			return
		}
		for _, c := range n.Children {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ID, c.ID))
			walk(c, depth-1)
		}
	}
	walk(root, max(opts.Depth, 0))

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *taxonomy.Node, detailed bool) string {
	label := n.DisplayName() + "\n[" + n.Rank + "]"
	if detailed && n.Name != "" {
		label += "\n" + n.ID
	}
	return label
}

func fmtAttrs(n *taxonomy.Node, opts Options, truncated bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	switch {
	case opts.Highlight.Has(n.ID):
		attrs = append(attrs, "fillcolor=lightblue")
	case truncated:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG lays out DOT source and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with one whose
// width and height match the viewBox, so browsers scale it predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
