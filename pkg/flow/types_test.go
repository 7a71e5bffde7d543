package flow

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/patchwire/patchwire/pkg/errors"
)

func TestNodeDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"label set", Node{ID: "n1", Label: "Oscillator"}, "Oscillator"},
		{"label empty", Node{ID: "n1"}, "n1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.DisplayLabel(); got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphNode(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}}

	n, ok := g.Node("b")
	if !ok || n.ID != "b" {
		t.Fatalf("Node(b) = %v, %v", n, ok)
	}
	// The pointer refers into the graph, so writes stick.
	n.Label = "changed"
	if g.Nodes[1].Label != "changed" {
		t.Error("Node() returned a copy, want a pointer into the graph")
	}

	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) = true, want false")
	}
}

func TestGraphPositioned(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
		want bool
	}{
		{"empty graph", Graph{}, false},
		{"unpositioned", Graph{Nodes: []Node{{ID: "a"}}}, false},
		{
			"partially positioned",
			Graph{Nodes: []Node{
				{ID: "a", Pos: &Point{X: 1}},
				{ID: "b"},
			}},
			false,
		},
		{
			"fully positioned",
			Graph{Nodes: []Node{
				{ID: "a", Pos: &Point{}},
				{ID: "b", Pos: &Point{X: 5, Y: 5}},
			}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Positioned(); got != tt.want {
				t.Errorf("Positioned() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraphValidate(t *testing.T) {
	tests := []struct {
		name     string
		g        Graph
		wantCode errors.Code
	}{
		{
			name: "valid",
			g: Graph{
				Nodes: []Node{{ID: "a"}, {ID: "b"}},
				Edges: []Edge{{From: "a", To: "b"}},
			},
		},
		{
			name:     "empty node ID",
			g:        Graph{Nodes: []Node{{ID: ""}}},
			wantCode: errors.ErrCodeInvalidNodeID,
		},
		{
			name:     "duplicate node ID",
			g:        Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}},
			wantCode: errors.ErrCodeDuplicateNode,
		},
		{
			name: "dangling edge source",
			g: Graph{
				Nodes: []Node{{ID: "a"}},
				Edges: []Edge{{From: "ghost", To: "a"}},
			},
			wantCode: errors.ErrCodeDanglingEdge,
		},
		{
			name: "dangling edge target",
			g: Graph{
				Nodes: []Node{{ID: "a"}},
				Edges: []Edge{{From: "a", To: "ghost"}},
			},
			wantCode: errors.ErrCodeDanglingEdge,
		},
		{
			name:     "path traversal in ID",
			g:        Graph{Nodes: []Node{{ID: "../etc/passwd"}}},
			wantCode: errors.ErrCodeInvalidNodeID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestGraphClone(t *testing.T) {
	g := Graph{
		Nodes: []Node{{
			ID:            "a",
			Pos:           &Point{X: 1, Y: 2},
			InputOffsets:  []float64{10},
			OutputOffsets: []float64{20},
			Meta:          map[string]any{"color": "red"},
		}},
		Edges: []Edge{{From: "a", To: "a"}},
	}

	c := g.Clone()
	c.Nodes[0].Pos.X = 99
	c.Nodes[0].InputOffsets[0] = 99
	c.Nodes[0].Meta["color"] = "blue"
	c.Edges[0].To = "b"

	if g.Nodes[0].Pos.X != 1 {
		t.Error("Clone() shares Pos with the original")
	}
	if g.Nodes[0].InputOffsets[0] != 10 {
		t.Error("Clone() shares port offsets with the original")
	}
	if g.Nodes[0].Meta["color"] != "red" {
		t.Error("Clone() shares Meta with the original")
	}
	if g.Edges[0].To != "a" {
		t.Error("Clone() shares edges with the original")
	}
}

func TestEdgeUnmarshalAbsentPorts(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantFrom int
		wantTo   int
	}{
		{"no ports", `{"from":"a","to":"b"}`, UnspecifiedPort, UnspecifiedPort},
		{"explicit zero", `{"from":"a","from_port":0,"to":"b","to_port":0}`, 0, 0},
		{"mixed", `{"from":"a","from_port":2,"to":"b"}`, 2, UnspecifiedPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Edge
			if err := json.Unmarshal([]byte(tt.data), &e); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if e.FromPort != tt.wantFrom || e.ToPort != tt.wantTo {
				t.Errorf("ports = (%d, %d), want (%d, %d)",
					e.FromPort, e.ToPort, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestEdgeMarshalPorts(t *testing.T) {
	// Unspecified ports vanish from the JSON.
	data, err := json.Marshal(Edge{From: "a", FromPort: UnspecifiedPort, To: "b", ToPort: UnspecifiedPort})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if strings.Contains(string(data), "from_port") || strings.Contains(string(data), "to_port") {
		t.Errorf("unspecified ports should be omitted, got %s", data)
	}

	// Port 0 survives a round trip; it is the first port, not "no port".
	data, err = json.Marshal(Edge{From: "a", FromPort: 0, To: "b", ToPort: 1})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var back Edge
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back.FromPort != 0 || back.ToPort != 1 {
		t.Errorf("round trip ports = (%d, %d), want (0, 1)", back.FromPort, back.ToPort)
	}
}

func TestGraphEdgesDecodeWithoutPorts(t *testing.T) {
	g, err := UnmarshalGraph([]byte(`{
		"nodes": [{"id": "osc"}, {"id": "amp"}],
		"edges": [{"from": "osc", "to": "amp"}]
	}`))
	if err != nil {
		t.Fatalf("UnmarshalGraph error: %v", err)
	}
	e := g.Edges[0]
	if e.FromPort != UnspecifiedPort || e.ToPort != UnspecifiedPort {
		t.Errorf("absent ports = (%d, %d), want (%d, %d)",
			e.FromPort, e.ToPort, UnspecifiedPort, UnspecifiedPort)
	}
}

func TestGraphCounts(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestGraphIndex(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}}
	idx := g.Index()
	if len(idx) != 2 {
		t.Fatalf("Index() has %d entries, want 2", len(idx))
	}
	idx["a"].Label = "via index"
	if g.Nodes[0].Label != "via index" {
		t.Error("Index() pointers do not refer into the graph")
	}
}
