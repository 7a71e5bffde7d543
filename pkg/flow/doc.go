// Package flow provides the serializable model for patch graphs.
//
// A patch graph is the node-and-wire document a visual editor works on:
// nodes are components with optional intrinsic sizes and port geometry,
// edges are directed wires from an output port to an input port.
//
// # Architecture
//
// The package sits at the serialization boundary between documents and tools:
//
//   - [Graph], [Node], [Edge]: the canonical wire format (JSON files, API
//     payloads, storage, cache entries)
//   - [Layout]: the serialized result of a layout run (positions per node)
//   - pkg/flow/layout: the layout engine that consumes a [Graph] and produces
//     positions
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "osc", "width": 120, "height": 48}, {"id": "out"}],
//	  "edges": [{"from": "osc", "from_port": 0, "to": "out", "to_port": 1}]
//	}
//
// Common operations:
//
//	g, _ := flow.ReadGraphFile("patch.json")
//	flow.WriteGraphFile(&g, "patch.json")
//	data, _ := flow.MarshalGraph(&g)
//
// # Positions
//
// A node's position is a pointer so "never placed" is distinguishable from
// "placed at the origin". [Graph.Positioned] reports whether the whole graph
// already carries positions, which the layout engine uses for its early-exit
// path. [Layout.Apply] writes computed positions back onto a graph.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package flow
