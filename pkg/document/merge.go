package document

import (
	"fmt"

	"github.com/patchwire/patchwire/pkg/flow"
)

// mergeGap is the vertical space left between the two merged patches.
const mergeGap = 60.0

// Merge combines two documents into a new one. The base document's graph is
// kept as-is; the other document's nodes are appended below it, with node
// IDs re-keyed where they collide with the base. Edges of the other
// document follow their re-keyed endpoints. The result gets a fresh GUID.
func Merge(base, other *Document) *Document {
	merged := base.Clone()
	merged.RegenerateID()
	merged.Name = mergedName(base.Name, other.Name)
	merged.Touch()

	taken := make(map[string]struct{}, len(merged.Graph.Nodes))
	for i := range merged.Graph.Nodes {
		taken[merged.Graph.Nodes[i].ID] = struct{}{}
	}

	// Re-key colliding node IDs with a numeric suffix.
	rename := make(map[string]string)
	for i := range other.Graph.Nodes {
		id := other.Graph.Nodes[i].ID
		if _, clash := taken[id]; !clash {
			taken[id] = struct{}{}
			continue
		}
		fresh := id
		for n := 2; ; n++ {
			fresh = fmt.Sprintf("%s-%d", id, n)
			if _, clash := taken[fresh]; !clash {
				break
			}
		}
		rename[id] = fresh
		taken[fresh] = struct{}{}
	}

	offset := bottomOf(&merged.Graph) + mergeGap

	otherGraph := other.Graph.Clone()
	for i := range otherGraph.Nodes {
		n := &otherGraph.Nodes[i]
		if fresh, ok := rename[n.ID]; ok {
			n.ID = fresh
		}
		if n.Pos != nil {
			n.Pos.Y += offset
		}
		merged.Graph.Nodes = append(merged.Graph.Nodes, *n)
	}
	for _, e := range otherGraph.Edges {
		if fresh, ok := rename[e.From]; ok {
			e.From = fresh
		}
		if fresh, ok := rename[e.To]; ok {
			e.To = fresh
		}
		merged.Graph.Edges = append(merged.Graph.Edges, e)
	}

	return merged
}

// bottomOf returns the lowest node edge of the graph, zero when nothing is
// positioned.
func bottomOf(g *flow.Graph) float64 {
	bottom := 0.0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Pos == nil {
			continue
		}
		if b := n.Pos.Y + n.Height; b > bottom {
			bottom = b
		}
	}
	return bottom
}

func mergedName(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " + " + b
	}
}
