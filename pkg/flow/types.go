package flow

import (
	"encoding/json"

	"github.com/patchwire/patchwire/pkg/errors"
)

// UnspecifiedPort marks an edge endpoint with no particular port.
// Edges created by tooling (rather than a user wiring two ports) carry it.
const UnspecifiedPort = -1

// Point is a 2D coordinate in document units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Node is a visual component in a patch graph.
//
// Width and Height are the node's intrinsic size; zero means the size is not
// yet known (the node has never been measured by a frontend). Pos is nil until
// a position has been assigned, either by a user dragging the node or by the
// layout engine.
//
// InputOffsets and OutputOffsets give the vertical offset of each port from
// the node's top edge, in the same units as Width/Height. They are optional:
// frontends that know their port geometry supply them, and the layout engine
// uses them to straighten wires. Without them, port-level alignment is skipped.
type Node struct {
	ID            string         `json:"id" bson:"id"`
	Label         string         `json:"label,omitempty" bson:"label,omitempty"`
	Width         float64        `json:"width,omitempty" bson:"width,omitempty"`
	Height        float64        `json:"height,omitempty" bson:"height,omitempty"`
	Pos           *Point         `json:"pos,omitempty" bson:"pos,omitempty"`
	InputOffsets  []float64      `json:"input_offsets,omitempty" bson:"input_offsets,omitempty"`
	OutputOffsets []float64      `json:"output_offsets,omitempty" bson:"output_offsets,omitempty"`
	Meta          map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Positioned reports whether the node carries a position.
func (n *Node) Positioned() bool { return n.Pos != nil }

// Edge is a directed connection from one node's output port to another
// node's input port. Port indices are 0-based; UnspecifiedPort (-1) means
// the endpoint is not tied to a particular port.
//
// In JSON, unspecified ports are omitted entirely and absent port fields
// decode to UnspecifiedPort. Port 0 is a real port and always serialized.
type Edge struct {
	From     string `json:"from" bson:"from"`
	FromPort int    `json:"from_port" bson:"from_port"`
	To       string `json:"to" bson:"to"`
	ToPort   int    `json:"to_port" bson:"to_port"`
}

// edgeWire is the JSON shape of an Edge. Pointer ports distinguish an
// absent field from an explicit 0.
type edgeWire struct {
	From     string `json:"from"`
	FromPort *int   `json:"from_port,omitempty"`
	To       string `json:"to"`
	ToPort   *int   `json:"to_port,omitempty"`
}

// MarshalJSON writes the edge with unspecified ports omitted.
func (e Edge) MarshalJSON() ([]byte, error) {
	w := edgeWire{From: e.From, To: e.To}
	if e.FromPort != UnspecifiedPort {
		p := e.FromPort
		w.FromPort = &p
	}
	if e.ToPort != UnspecifiedPort {
		p := e.ToPort
		w.ToPort = &p
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the edge, mapping absent port fields to
// UnspecifiedPort.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var w edgeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.From, e.To = w.From, w.To
	e.FromPort, e.ToPort = UnspecifiedPort, UnspecifiedPort
	if w.FromPort != nil {
		e.FromPort = *w.FromPort
	}
	if w.ToPort != nil {
		e.ToPort = *w.ToPort
	}
	return nil
}

// Graph is the canonical serialization format for patch graphs.
// Used for files, API payloads, storage, and caching.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Node returns a pointer to the node with the given ID, or nil and false if
// not found. The pointer refers to the graph's own slice element, so
// modifications affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Index builds an ID → node lookup over the graph's nodes.
// The returned pointers refer to the graph's own slice elements.
func (g *Graph) Index() map[string]*Node {
	idx := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		idx[g.Nodes[i].ID] = &g.Nodes[i]
	}
	return idx
}

// Positioned reports whether every node in the graph carries a position.
// Returns false for an empty graph.
func (g *Graph) Positioned() bool {
	if len(g.Nodes) == 0 {
		return false
	}
	for i := range g.Nodes {
		if g.Nodes[i].Pos == nil {
			return false
		}
	}
	return true
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that all node IDs are well-formed and unique, and that every
// edge references existing nodes. Edge endpoints are checked so that storage
// and rendering can assume referential integrity; the layout engine itself
// tolerates dangling edges by skipping them.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate node ID %q", id)
		}
		seen[id] = struct{}{}
	}
	for _, e := range g.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeDanglingEdge, "edge references unknown source node %q", e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeDanglingEdge, "edge references unknown target node %q", e.To)
		}
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Edges, g.Edges)
	for i, n := range g.Nodes {
		c := n
		if n.Pos != nil {
			p := *n.Pos
			c.Pos = &p
		}
		if n.InputOffsets != nil {
			c.InputOffsets = append([]float64(nil), n.InputOffsets...)
		}
		if n.OutputOffsets != nil {
			c.OutputOffsets = append([]float64(nil), n.OutputOffsets...)
		}
		if n.Meta != nil {
			m := make(map[string]any, len(n.Meta))
			for k, v := range n.Meta {
				m[k] = v
			}
			c.Meta = m
		}
		out.Nodes[i] = c
	}
	return out
}
