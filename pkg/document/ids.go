package document

import (
	"github.com/google/uuid"

	"github.com/patchwire/patchwire/pkg/flow"
)

// EnsureIDs assigns a fresh GUID to every node whose ID is blank and
// returns the number of nodes filled in. Non-blank IDs are left alone.
// Edges cannot reference a blank node, so none are rewritten; run the
// graph through Validate afterwards to catch edges that pointed at the
// formerly blank nodes.
func EnsureIDs(g *flow.Graph) int {
	filled := 0
	for i := range g.Nodes {
		if g.Nodes[i].ID != "" {
			continue
		}
		g.Nodes[i].ID = uuid.NewString()
		filled++
	}
	return filled
}

// RegenerateIDs gives every node a fresh GUID and rewrites edges to
// follow the renamed endpoints. Ports are untouched. The returned map
// records old ID to new ID; callers exporting a patch use it to fix up
// references they hold outside the graph.
func RegenerateIDs(g *flow.Graph) map[string]string {
	rename := make(map[string]string, len(g.Nodes))
	for i := range g.Nodes {
		fresh := uuid.NewString()
		rename[g.Nodes[i].ID] = fresh
		g.Nodes[i].ID = fresh
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if fresh, ok := rename[e.From]; ok {
			e.From = fresh
		}
		if fresh, ok := rename[e.To]; ok {
			e.To = fresh
		}
	}
	return rename
}
