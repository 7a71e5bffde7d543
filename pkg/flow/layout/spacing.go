package layout

// space converts (layer, row) ranks into real coordinates.
//
// Columns run source-to-sink left to right, so the layers slice (which is
// sink-first) is walked in reverse. Each column's x-offset is the running
// sum of the widest node in every column to its left plus the horizontal
// gap; rows get the analogous treatment with heights. Unmeasured nodes
// fall back to the configured default size, so spacing alone already
// guarantees no visual overlap within a column or row.
func space(a *arena, layers [][]int, opts Options) {
	// Column x-offsets, sources leftmost.
	x := 0.0
	for i := len(layers) - 1; i >= 0; i-- {
		colWidth := 0.0
		for _, idx := range layers[i] {
			if w := a.widthOf(idx, opts.NodeWidth); w > colWidth {
				colWidth = w
			}
		}
		for _, idx := range layers[i] {
			a.nodes[idx].x = x
		}
		x += colWidth + opts.SpacingX
	}

	// Row y-offsets across the whole island.
	maxRow := 0
	for _, layer := range layers {
		for _, idx := range layer {
			if r := a.nodes[idx].row; r > maxRow {
				maxRow = r
			}
		}
	}

	rowHeight := make([]float64, maxRow+1)
	for _, layer := range layers {
		for _, idx := range layer {
			r := a.nodes[idx].row
			if h := a.heightOf(idx, opts.NodeHeight); h > rowHeight[r] {
				rowHeight[r] = h
			}
		}
	}

	offsets := make([]float64, maxRow+1)
	y := 0.0
	for r := 0; r <= maxRow; r++ {
		offsets[r] = y
		y += rowHeight[r] + opts.SpacingY
	}

	for _, layer := range layers {
		for _, idx := range layer {
			a.nodes[idx].y = offsets[a.nodes[idx].row]
		}
	}
}
