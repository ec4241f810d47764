// Package render holds output conversions shared by the diagram renderers.
//
// The [dot] subpackage produces Graphviz diagrams of taxonomy subtrees and
// renders them to SVG in-process. [ToPDF] and [ToPNG] convert that SVG
// further using the external rsvg-convert tool (from librsvg):
//
//	svg, err := dot.RenderSVG(dot.ToDOT(root, dot.Options{Depth: 3}))
//	png, err := render.ToPNG(svg, 2.0)
//
// [dot]: github.com/taxmagick/taxmagick/pkg/render/dot
package render
