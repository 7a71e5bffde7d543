package layout

import "slices"

// resolveCollisions pushes nodes apart vertically within each column.
//
// Port alignment can leave two nodes of the same column overlapping; this
// pass walks every column top to bottom and pushes any node that would
// intrude into the previous node's extent down to just below it. That may
// undo some of the alignment polish, which is the accepted trade: aligned
// wires are cosmetic, non-overlapping nodes are not.
func resolveCollisions(a *arena, layers [][]int, opts Options) {
	for _, layer := range layers {
		column := slices.Clone(layer)
		slices.SortStableFunc(column, func(x, y int) int {
			switch {
			case a.nodes[x].y < a.nodes[y].y:
				return -1
			case a.nodes[x].y > a.nodes[y].y:
				return 1
			default:
				return 0
			}
		})

		floor := 0.0
		first := true
		for _, idx := range column {
			n := a.nodes[idx]
			if n.kind != kindReal {
				continue
			}
			if !first && n.y < floor {
				n.y = floor
			}
			first = false
			floor = n.y + a.heightOf(idx, opts.NodeHeight)
		}
	}
}
