package layout

import "slices"

// decompose splits the arena into weakly-connected components (islands).
// Connectivity ignores edge direction: a node reachable through any mix of
// parent and child hops belongs to the same island.
//
// Islands are returned in order of first appearance in the input, and nodes
// within an island likewise, so downstream passes stay deterministic.
// Every node appears in exactly one island.
//
// The traversal is iterative with an explicit stack; deep chains must not
// overflow the goroutine stack on large documents.
func decompose(a *arena) [][]int {
	visited := make([]bool, len(a.nodes))
	var islands [][]int

	for start := range a.nodes {
		if visited[start] {
			continue
		}

		var island []int
		stack := []int{start}
		visited[start] = true

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island = append(island, idx)

			n := a.nodes[idx]
			for _, ref := range n.parents {
				if !visited[ref.node] {
					visited[ref.node] = true
					stack = append(stack, ref.node)
				}
			}
			for _, ref := range n.children {
				if !visited[ref.node] {
					visited[ref.node] = true
					stack = append(stack, ref.node)
				}
			}
		}

		slices.Sort(island)
		islands = append(islands, island)
	}

	return islands
}
