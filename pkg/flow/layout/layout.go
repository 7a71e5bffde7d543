package layout

import (
	"context"
	"math"
	"time"

	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/observability"
)

// Default tunables. Callers usually leave these alone; frontends with
// denser or sparser canvases override them per call.
const (
	DefaultSpacingX      = 80.0
	DefaultSpacingY      = 40.0
	DefaultIslandSpacing = 60.0
	DefaultNodeWidth     = 120.0
	DefaultNodeHeight    = 48.0
)

// Options configures one layout run. The zero value is usable: every
// field falls back to its default.
type Options struct {
	// SpacingX is the horizontal gap between adjacent columns.
	SpacingX float64
	// SpacingY is the vertical gap between adjacent rows.
	SpacingY float64
	// IslandSpacing is the vertical gap between stacked disconnected
	// subgraphs.
	IslandSpacing float64
	// NodeWidth and NodeHeight stand in for nodes whose intrinsic size
	// is not yet known.
	NodeWidth  float64
	NodeHeight float64
	// Force recomputes the layout even when every node already carries a
	// position. Without it, a fully positioned graph is only normalized
	// so its top-left extent sits at the origin.
	Force bool
	// MaxSweeps caps the crossing-minimization iterations per island.
	// Zero means 4x the island's node count (minimum 8). The sweeps
	// normally reach a fixed point well before the cap.
	MaxSweeps int
}

func (o *Options) setDefaults() {
	if o.SpacingX <= 0 {
		o.SpacingX = DefaultSpacingX
	}
	if o.SpacingY <= 0 {
		o.SpacingY = DefaultSpacingY
	}
	if o.IslandSpacing <= 0 {
		o.IslandSpacing = DefaultIslandSpacing
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
}

func (o *Options) sweepCap(islandSize int) int {
	if o.MaxSweeps > 0 {
		return o.MaxSweeps
	}
	if c := 4 * islandSize; c > 8 {
		return c
	}
	return 8
}

// Position is a computed node coordinate (top-left corner).
type Position struct {
	X float64
	Y float64
}

// Result maps node IDs to final positions. It covers exactly the real
// input nodes; synthetic routing nodes never leak into it.
type Result map[string]Position

// Compute arranges the graph's nodes in dependency order: producers left
// of consumers, wire crossings reduced, no two nodes of a column
// overlapping. Disconnected subgraphs are laid out independently and
// stacked vertically.
//
// The computation is pure and synchronous; ctx is only forwarded to the
// registered observability hooks. The input graph is not modified; apply
// the result with [flow.Layout.Apply] or your own writer.
//
// A directed cycle in the input is reported as a GRAPH_CYCLE error. Edges
// referencing unknown node IDs are skipped. Layout failures are safe to
// ignore: the graph simply keeps whatever positions it had.
func Compute(ctx context.Context, g *flow.Graph, opts Options) (Result, error) {
	opts.setDefaults()

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Edges))
	start := time.Now()

	result, err := compute(ctx, g, opts)
	hooks.OnLayoutComplete(ctx, len(g.Nodes), time.Since(start), err)
	return result, err
}

func compute(ctx context.Context, g *flow.Graph, opts Options) (Result, error) {
	if len(g.Nodes) == 0 {
		return Result{}, nil
	}

	// Respect manual positioning: a fully placed graph is only
	// normalized, which also makes repeated layout calls idempotent.
	if !opts.Force && g.Positioned() {
		return normalized(g), nil
	}

	a := newArena(g)
	islands := decompose(a)

	result := make(Result, len(g.Nodes))
	yOffset := 0.0

	for i, island := range islands {
		observability.Layout().OnIslandStart(ctx, i, len(island))

		maxDepth, err := assignDepths(a, island)
		if err != nil {
			return nil, err
		}
		island = concentrate(a, island, maxDepth)
		layers := orderRows(ctx, a, island, i, opts.sweepCap(len(island)))
		space(a, layers, opts)
		alignPorts(a, island)
		resolveCollisions(a, layers, opts)

		yOffset += placeIsland(a, island, result, yOffset, opts)
	}

	return result, nil
}

// placeIsland shifts the island's real nodes so the island's own top-left
// sits at (0, yOffset), records them in the result, and returns the
// island's height plus the inter-island gap.
func placeIsland(a *arena, island []int, result Result, yOffset float64, opts Options) float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxY := math.Inf(-1)

	for _, idx := range island {
		n := a.nodes[idx]
		if n.kind != kindReal {
			continue
		}
		minX = math.Min(minX, n.x)
		minY = math.Min(minY, n.y)
		maxY = math.Max(maxY, n.y+a.heightOf(idx, opts.NodeHeight))
	}
	if math.IsInf(minX, 1) {
		return 0
	}

	for _, idx := range island {
		n := a.nodes[idx]
		if n.kind != kindReal {
			continue
		}
		result[n.id] = Position{X: n.x - minX, Y: n.y - minY + yOffset}
	}

	return (maxY - minY) + opts.IslandSpacing
}

// normalized translates existing positions so the minimum x and y become
// zero, leaving relative placement untouched.
func normalized(g *flow.Graph) Result {
	minX, minY := math.Inf(1), math.Inf(1)
	for i := range g.Nodes {
		p := g.Nodes[i].Pos
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}

	result := make(Result, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		result[n.ID] = Position{X: n.Pos.X - minX, Y: n.Pos.Y - minY}
	}
	return result
}

// Bounds returns the width and height of the rectangle spanned by the
// result's positions plus each node's extent. Unmeasured nodes use the
// provided defaults.
func (r Result) Bounds(g *flow.Graph, opts Options) (width, height float64) {
	opts.setDefaults()
	for i := range g.Nodes {
		n := &g.Nodes[i]
		p, ok := r[n.ID]
		if !ok {
			continue
		}
		w, h := n.Width, n.Height
		if w <= 0 {
			w = opts.NodeWidth
		}
		if h <= 0 {
			h = opts.NodeHeight
		}
		width = math.Max(width, p.X+w)
		height = math.Max(height, p.Y+h)
	}
	return width, height
}
