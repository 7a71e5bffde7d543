package render

import (
	"bytes"
	"fmt"

	"github.com/patchwire/patchwire/pkg/flow"
)

// Fallback node extent in points for nodes that were never measured.
const (
	defaultNodeWidth  = 120.0
	defaultNodeHeight = 48.0
)

// ToDOT converts a graph and its layout to Graphviz DOT with pinned node
// positions. Nodes keep the exact coordinates the layout engine computed;
// the Graphviz pass only routes edges around them.
//
// Positions are emitted with the "!" suffix so the neato engine treats
// them as fixed. The layout's y axis grows downward while Graphviz's grows
// upward, so y is negated on the way out.
func ToDOT(g *flow.Graph, l flow.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph patch {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		w, h := n.Width, n.Height
		if w <= 0 {
			w = defaultNodeWidth
		}
		if h <= 0 {
			h = defaultNodeHeight
		}

		attrs := fmt.Sprintf("label=%q, width=%.3f, height=%.3f", n.DisplayLabel(), w/72, h/72)
		if p, ok := l.Positions[n.ID]; ok {
			// Pin the node's center; positions are top-left corners.
			cx := p.X + w/2
			cy := p.Y + h/2
			attrs += fmt.Sprintf(", pos=\"%.2f,%.2f!\"", cx, -cy)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}
