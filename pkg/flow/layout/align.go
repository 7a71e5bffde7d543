package layout

import "slices"

// alignPorts nudges nodes vertically so wires meet ports head-on.
// Both passes need port geometry from the caller; a node without it is
// simply left where the spacer put it. Rows and columns are never changed
// here, only fine y-offsets.
func alignPorts(a *arena, island []int) {
	alignSingleChildren(a, island)
	alignPassthroughParents(a, island)
}

// alignSingleChildren shifts every node with exactly one outgoing wire so
// that the wire leaves its output port at the height of the child's input
// port.
func alignSingleChildren(a *arena, island []int) {
	for _, idx := range island {
		n := a.nodes[idx]
		if n.kind != kindReal || len(n.children) != 1 {
			continue
		}
		ref := n.children[0]
		child := a.nodes[ref.node]

		inOff, ok := portOffset(child.inOff, ref.in)
		if !ok {
			continue
		}
		n.y = child.y + inOff - outPortOffset(n, ref.out)
	}
}

// alignPassthroughParents straightens the fan-in into a node whose input
// port count matches its parent count, provided every parent is a
// pass-through (feeds nothing else). Each parent is moved to the height of
// the specific port it drives, ordered by port index, which turns a woven
// fan-in into parallel wires.
func alignPassthroughParents(a *arena, island []int) {
	for _, idx := range island {
		n := a.nodes[idx]
		if n.kind != kindReal || len(n.inOff) == 0 || len(n.inOff) != len(n.parents) {
			continue
		}

		eligible := true
		for _, ref := range n.parents {
			p := a.nodes[ref.node]
			if p.kind != kindReal || len(p.children) != 1 || ref.in < 0 || ref.in >= len(n.inOff) {
				eligible = false
				break
			}
		}
		if !eligible {
			continue
		}

		refs := slices.Clone(n.parents)
		slices.SortStableFunc(refs, func(x, y edgeRef) int { return x.in - y.in })
		for _, ref := range refs {
			p := a.nodes[ref.node]
			p.y = n.y + n.inOff[ref.in] - outPortOffset(p, ref.out)
		}
	}
}

// portOffset looks up a port's y-offset, reporting whether the geometry
// covers the requested slot.
func portOffset(offsets []float64, slot int) (float64, bool) {
	if slot < 0 || slot >= len(offsets) {
		return 0, false
	}
	return offsets[slot], true
}

// outPortOffset returns where a wire leaves the node vertically: the
// output port's offset when known, otherwise the node's vertical center.
func outPortOffset(n *node, slot int) float64 {
	if off, ok := portOffset(n.outOff, slot); ok {
		return off
	}
	return n.height / 2
}
