package layout

import (
	"fmt"
	"slices"

	"github.com/patchwire/patchwire/pkg/flow"
)

// concentrate collapses many-to-many edge bundles between adjacent layers
// through synthetic routing nodes.
//
// For each pair of adjacent layers (d, d-1), nodes at depth d are grouped
// by the exact set of depth-(d-1) targets they feed. A group of at least
// two sources sharing at least two targets is rewired: the direct edges are
// removed, one bundle node is inserted at depth d-0.5, every group member
// feeds the bundle, and the bundle feeds every shared target. An m×k edge
// bundle becomes m+k wires, which is what the downstream crossing
// heuristics actually have to untangle.
//
// Bundle edges carry no port indices. The island slice is extended with the
// new arena entries and returned.
func concentrate(a *arena, island []int, maxDepth float64) []int {
	for d := maxDepth; d >= 1; d-- {
		island = concentratePair(a, island, d)
	}
	return island
}

// concentratePair bundles edges between depth d and depth d-1.
func concentratePair(a *arena, island []int, d float64) []int {
	// Group depth-d nodes by their exact target set one layer down.
	groups := make(map[string][]int)
	var order []string

	for _, idx := range island {
		n := a.nodes[idx]
		if n.depth != d {
			continue
		}
		targets := layerTargets(a, idx, d-1)
		if len(targets) < 2 {
			continue
		}
		key := targetKey(targets)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], idx)
	}

	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		targets := layerTargets(a, members[0], d-1)

		bundle := a.addBundle(d - 0.5)
		island = append(island, bundle)

		for _, m := range members {
			removeEdges(a, m, targets)
			a.nodes[m].children = append(a.nodes[m].children,
				edgeRef{node: bundle, out: flow.UnspecifiedPort, in: flow.UnspecifiedPort})
			a.nodes[bundle].parents = append(a.nodes[bundle].parents,
				edgeRef{node: m, out: flow.UnspecifiedPort, in: flow.UnspecifiedPort})
		}
		for _, t := range targets {
			a.nodes[bundle].children = append(a.nodes[bundle].children,
				edgeRef{node: t, out: flow.UnspecifiedPort, in: flow.UnspecifiedPort})
			a.nodes[t].parents = append(a.nodes[t].parents,
				edgeRef{node: bundle, out: flow.UnspecifiedPort, in: flow.UnspecifiedPort})
		}
	}

	return island
}

// layerTargets returns the sorted, deduplicated children of idx that sit at
// the given depth.
func layerTargets(a *arena, idx int, depth float64) []int {
	var targets []int
	for _, ref := range a.nodes[idx].children {
		if a.nodes[ref.node].depth == depth {
			targets = append(targets, ref.node)
		}
	}
	slices.Sort(targets)
	return slices.Compact(targets)
}

// targetKey builds a canonical grouping key from a sorted target set.
func targetKey(targets []int) string {
	key := ""
	for _, t := range targets {
		key += fmt.Sprintf("%d,", t)
	}
	return key
}

// removeEdges deletes every edge from src to any node in targets, keeping
// both adjacency lists consistent.
func removeEdges(a *arena, src int, targets []int) {
	drop := make(map[int]struct{}, len(targets))
	for _, t := range targets {
		drop[t] = struct{}{}
	}

	a.nodes[src].children = slices.DeleteFunc(a.nodes[src].children, func(ref edgeRef) bool {
		_, hit := drop[ref.node]
		return hit
	})
	for _, t := range targets {
		a.nodes[t].parents = slices.DeleteFunc(a.nodes[t].parents, func(ref edgeRef) bool {
			return ref.node == src
		})
	}
}
