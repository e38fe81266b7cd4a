// Package nodelink renders node forests as node-link diagrams.
//
// # Overview
//
// Each node becomes a rounded box and each parent pointer an arrow from the
// parent to the child. Roots share the top rank; a forest with several
// roots renders as several trees side by side.
//
// # Usage
//
// Convert a forest to DOT, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(forest.BuildForest(nodes), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: labels include the node id and depth
//   - Highlight: ids drawn with a filled accent color, such as the current
//     selection
//
// # Dependencies
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz];
// no external binaries are needed.
package nodelink
