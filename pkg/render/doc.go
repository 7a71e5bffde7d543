// Package render turns laid-out patch graphs into viewable artifacts.
//
// # Overview
//
// The renderer does not compute positions itself: it takes a graph plus
// the positions produced by the layout engine and emits Graphviz DOT with
// every node pinned to its coordinate. Rendering then runs the neato
// engine, which honors pinned positions and only routes the edges.
//
// # Usage
//
// Convert a graph and layout to DOT, then render to SVG:
//
//	dot := render.ToDOT(&g, l)
//	svg, err := render.SVG(ctx, dot)
//
// The DOT source can also be saved as-is and processed with external
// Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no external Graphviz installation is needed.
package render
