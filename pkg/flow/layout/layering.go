package layout

import (
	"github.com/patchwire/patchwire/pkg/errors"
)

// assignDepths computes the layer of every node in the island as its
// longest-path distance from a sink: depth 0 for nodes with no children,
// otherwise one more than the deepest child. Sources end up with the
// island's maximum depth, which later becomes the leftmost column.
//
// The traversal is an explicit-stack depth-first search with gray-node
// detection: a child that is still being expanded when revisited closes a
// directed cycle, which the caller's contract forbids. Rather than
// recursing forever, the cycle is reported as a structured error naming a
// node on it.
//
// Returns the island's maximum depth.
func assignDepths(a *arena, island []int) (float64, error) {
	const (
		unvisited = iota
		expanding
		done
	)

	state := make([]uint8, len(a.nodes))
	maxDepth := 0.0

	for _, start := range island {
		if state[start] == done {
			continue
		}

		stack := []int{start}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			n := a.nodes[idx]

			switch state[idx] {
			case unvisited:
				state[idx] = expanding
				for _, ref := range n.children {
					switch state[ref.node] {
					case expanding:
						return 0, errors.New(errors.ErrCodeGraphCycle,
							"cycle detected at node %q", a.nodes[ref.node].id)
					case unvisited:
						stack = append(stack, ref.node)
					}
				}

			case expanding:
				depth := 0.0
				for _, ref := range n.children {
					if d := a.nodes[ref.node].depth + 1; d > depth {
						depth = d
					}
				}
				n.depth = depth
				if depth > maxDepth {
					maxDepth = depth
				}
				state[idx] = done
				stack = stack[:len(stack)-1]

			default: // done, reached through a second parent
				stack = stack[:len(stack)-1]
			}
		}
	}

	return maxDepth, nil
}
