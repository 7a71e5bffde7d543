package layout

import (
	"context"
	"math"
	"slices"

	"github.com/patchwire/patchwire/pkg/observability"
)

// rowLast sorts nodes with no positioned neighbors after every real row.
// The exact constant is not load-bearing; only the sort-last behavior is.
const rowLast = math.MaxFloat64

// orderRows assigns every island node a vertical rank (row) within its
// layer and iteratively refines the ranks to reduce wire crossings.
//
// The initial assignment walks layers from the sink layer upward, ordering
// each layer by the barycenter (mean row) of each node's already-placed
// children; a backward pass then refines each layer against its parents.
// Crossing minimization repeats alternating sweeps that re-sort layers by
// the median neighbor row (less sensitive to outliers than the mean) until
// one full pass moves nothing, or the sweep cap is reached. Ranks are
// bounded integers, so the fixed point exists; the cap only guards against
// float-equality pathologies.
//
// Returns the island's layers ordered sink-first, each layer in row order.
func orderRows(ctx context.Context, a *arena, island []int, islandIdx, maxSweeps int) [][]int {
	layers := buildLayers(a, island)
	if len(layers) == 0 {
		return layers
	}

	// Row 0 upward: place each layer by the mean row of its children.
	setRows(a, layers[0])
	for i := 1; i < len(layers); i++ {
		sortLayer(a, layers[i], childBarycenter)
	}

	// Backward refinement against parent rows.
	for i := len(layers) - 2; i >= 0; i-- {
		sortLayer(a, layers[i], parentBarycenter)
	}

	// Median sweeps to a fixed point.
	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := 0
		for i := 1; i < len(layers); i++ {
			changed += sortLayer(a, layers[i], childMedian)
		}
		for i := len(layers) - 2; i >= 0; i-- {
			changed += sortLayer(a, layers[i], parentMedian)
		}
		observability.Layout().OnSweep(ctx, islandIdx, sweep, changed)
		if changed == 0 {
			break
		}
	}

	return layers
}

// buildLayers groups the island by depth, sink layer first. Within a layer
// nodes keep their island order, which is the input order.
func buildLayers(a *arena, island []int) [][]int {
	byDepth := make(map[float64][]int)
	var depths []float64
	for _, idx := range island {
		d := a.nodes[idx].depth
		if _, seen := byDepth[d]; !seen {
			depths = append(depths, d)
		}
		byDepth[d] = append(byDepth[d], idx)
	}
	slices.Sort(depths)

	layers := make([][]int, len(depths))
	for i, d := range depths {
		layers[i] = byDepth[d]
	}
	return layers
}

// setRows records each node's current position in its layer.
func setRows(a *arena, layer []int) {
	for row, idx := range layer {
		a.nodes[idx].row = row
	}
}

// sortLayer stably re-sorts one layer by the given key and returns how
// many nodes changed row. Nodes with no positioned neighbors keep their
// relative order at the end of the layer.
func sortLayer(a *arena, layer []int, key func(*arena, int) float64) int {
	keys := make(map[int]float64, len(layer))
	for _, idx := range layer {
		keys[idx] = key(a, idx)
	}

	slices.SortStableFunc(layer, func(x, y int) int {
		kx, ky := keys[x], keys[y]
		switch {
		case kx < ky:
			return -1
		case kx > ky:
			return 1
		default:
			return 0
		}
	})

	changed := 0
	for row, idx := range layer {
		if a.nodes[idx].row != row {
			changed++
		}
		a.nodes[idx].row = row
	}
	return changed
}

func childBarycenter(a *arena, idx int) float64 {
	return barycenter(a, a.nodes[idx].children)
}

func parentBarycenter(a *arena, idx int) float64 {
	return barycenter(a, a.nodes[idx].parents)
}

func barycenter(a *arena, refs []edgeRef) float64 {
	if len(refs) == 0 {
		return rowLast
	}
	sum := 0.0
	for _, ref := range refs {
		sum += float64(a.nodes[ref.node].row)
	}
	return sum / float64(len(refs))
}

func childMedian(a *arena, idx int) float64 {
	return median(a, a.nodes[idx].children)
}

func parentMedian(a *arena, idx int) float64 {
	return median(a, a.nodes[idx].parents)
}

func median(a *arena, refs []edgeRef) float64 {
	if len(refs) == 0 {
		return rowLast
	}
	rows := make([]float64, len(refs))
	for i, ref := range refs {
		rows[i] = float64(a.nodes[ref.node].row)
	}
	slices.Sort(rows)

	mid := len(rows) / 2
	if len(rows)%2 == 1 {
		return rows[mid]
	}
	return (rows[mid-1] + rows[mid]) / 2
}
