package layout_test

import (
	"context"
	"fmt"

	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/flow/layout"
)

func ExampleCompute() {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "osc"},
			{ID: "filter"},
			{ID: "out"},
		},
		Edges: []flow.Edge{
			{From: "osc", To: "filter"},
			{From: "filter", To: "out"},
		},
	}

	result, err := layout.Compute(context.Background(), g, layout.Options{})
	if err != nil {
		fmt.Println("layout failed:", err)
		return
	}

	for _, n := range g.Nodes {
		p := result[n.ID]
		fmt.Printf("%s: (%.0f, %.0f)\n", n.ID, p.X, p.Y)
	}
	// Output:
	// osc: (0, 0)
	// filter: (200, 0)
	// out: (400, 0)
}

func ExampleCompute_islands() {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "a"},
			{ID: "b"},
		},
	}

	result, _ := layout.Compute(context.Background(), g, layout.Options{})
	fmt.Printf("a: (%.0f, %.0f)\n", result["a"].X, result["a"].Y)
	fmt.Printf("b: (%.0f, %.0f)\n", result["b"].X, result["b"].Y)
	// Output:
	// a: (0, 0)
	// b: (0, 108)
}
