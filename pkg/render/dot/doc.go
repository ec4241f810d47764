// Package dot renders taxonomy subtrees as Graphviz node-link diagrams.
//
// [ToDOT] walks a subtree to a fixed depth and emits DOT source: one box
// per taxon labelled with its display name and rank, one edge per
// parent/child link. [RenderSVG] lays the source out in-process with
// github.com/goccy/go-graphviz (a WebAssembly build of Graphviz), so no
// system Graphviz installation is needed.
//
//	src := dot.ToDOT(root, dot.Options{Depth: 3})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Taxa whose children were cut off by the depth limit are drawn dashed,
// and ids passed in Options.Highlight are filled, which makes the path to
// a kept set stand out in a pruned tree.
package dot
