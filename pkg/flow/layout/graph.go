package layout

import (
	"github.com/patchwire/patchwire/pkg/flow"
)

// nodeKind distinguishes real document nodes from synthetic routing nodes
// created during edge concentration.
type nodeKind int

const (
	// kindReal is an original node from the input graph.
	kindReal nodeKind = iota
	// kindBundle is a synthetic node that concentrates a many-to-many edge
	// bundle between two adjacent layers. Bundles steer the crossing
	// heuristics and are discarded before results are returned.
	kindBundle
)

// edgeRef is one endpoint of a directed wire as seen from a node.
// out is the port index on the producer side, in the port index on the
// consumer side; flow.UnspecifiedPort means no particular port.
type edgeRef struct {
	node int // arena index of the neighbor
	out  int
	in   int
}

// node is the arena representation of a graph node during one layout run.
// Parent and child lists are kept mutually consistent by every transform.
type node struct {
	kind   nodeKind
	id     string // empty for bundles
	width  float64
	height float64
	inOff  []float64 // input port y-offsets from node top, if known
	outOff []float64 // output port y-offsets from node top, if known

	parents  []edgeRef // producers feeding this node
	children []edgeRef // consumers fed by this node

	depth float64 // distance from the sink layer; bundles sit at x.5
	row   int     // vertical rank within the node's layer
	x, y  float64
}

// arena holds all nodes of one layout run, addressed by stable integer
// indices. Concentration appends new entries; nothing is ever removed, so
// indices stay valid for the whole run.
type arena struct {
	nodes []*node
	index map[string]int // real node ID → arena index
}

// newArena builds the arena from the input graph. Nodes keep their input
// order. Edges referencing unknown node IDs are skipped rather than
// failing the whole layout.
func newArena(g *flow.Graph) *arena {
	a := &arena{
		nodes: make([]*node, 0, len(g.Nodes)),
		index: make(map[string]int, len(g.Nodes)),
	}

	for i := range g.Nodes {
		src := &g.Nodes[i]
		a.index[src.ID] = len(a.nodes)
		a.nodes = append(a.nodes, &node{
			kind:   kindReal,
			id:     src.ID,
			width:  src.Width,
			height: src.Height,
			inOff:  src.InputOffsets,
			outOff: src.OutputOffsets,
		})
	}

	for _, e := range g.Edges {
		from, okF := a.index[e.From]
		to, okT := a.index[e.To]
		if !okF || !okT {
			continue
		}
		a.nodes[from].children = append(a.nodes[from].children, edgeRef{node: to, out: e.FromPort, in: e.ToPort})
		a.nodes[to].parents = append(a.nodes[to].parents, edgeRef{node: from, out: e.FromPort, in: e.ToPort})
	}

	return a
}

// addBundle appends a synthetic bundling node at the given depth and
// returns its arena index.
func (a *arena) addBundle(depth float64) int {
	idx := len(a.nodes)
	a.nodes = append(a.nodes, &node{kind: kindBundle, depth: depth})
	return idx
}

// widthOf returns the node's intrinsic width, or the fallback when the
// node has never been measured. Bundles always report zero.
func (a *arena) widthOf(idx int, fallback float64) float64 {
	n := a.nodes[idx]
	if n.kind == kindBundle {
		return 0
	}
	if n.width > 0 {
		return n.width
	}
	return fallback
}

// heightOf is the vertical counterpart of widthOf.
func (a *arena) heightOf(idx int, fallback float64) float64 {
	n := a.nodes[idx]
	if n.kind == kindBundle {
		return 0
	}
	if n.height > 0 {
		return n.height
	}
	return fallback
}
