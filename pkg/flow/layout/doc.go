// Package layout computes automatic positions for node graphs.
//
// The algorithm is a layered (Sugiyama-style) pipeline: the graph is split
// into disconnected islands, each island's nodes are ranked into columns by
// their distance from the sinks, dense edge bundles are concentrated
// through synthetic routing nodes, rows are ordered by iterative
// barycenter and median heuristics to reduce wire crossings, and finally
// ranks become pixel coordinates with port-alignment and collision-
// resolution passes on top. Islands are stacked vertically in the output.
//
// The entry point is [Compute]; everything else in the package is
// internal machinery. Results are deterministic for a given input.
package layout
