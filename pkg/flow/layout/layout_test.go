package layout

import (
	"context"
	"testing"
	"time"

	"github.com/patchwire/patchwire/pkg/errors"
	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/observability"
)

// makeGraph builds a graph from node IDs and from→to edge pairs, with no
// port geometry.
func makeGraph(ids []string, edges [][2]string) *flow.Graph {
	g := &flow.Graph{}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, flow.Node{ID: id})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, flow.Edge{
			From: e[0], FromPort: flow.UnspecifiedPort,
			To: e[1], ToPort: flow.UnspecifiedPort,
		})
	}
	return g
}

func TestComputeEmptyGraph(t *testing.T) {
	result, err := Compute(context.Background(), &flow.Graph{}, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Compute() = %v, want empty result", result)
	}
}

func TestComputeChain(t *testing.T) {
	// a → b → c: one column per node, all on the same row.
	g := makeGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := Result{
		"a": {X: 0, Y: 0},
		"b": {X: DefaultNodeWidth + DefaultSpacingX, Y: 0},
		"c": {X: 2 * (DefaultNodeWidth + DefaultSpacingX), Y: 0},
	}
	for id, wp := range want {
		got, ok := result[id]
		if !ok {
			t.Fatalf("Compute() missing node %q", id)
		}
		if got != wp {
			t.Errorf("Compute()[%q] = %+v, want %+v", id, got, wp)
		}
	}
}

func TestComputeCycle(t *testing.T) {
	g := makeGraph([]string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	_, err := Compute(context.Background(), g, Options{})
	if err == nil {
		t.Fatal("Compute() error = nil, want GRAPH_CYCLE")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeGraphCycle {
		t.Errorf("GetCode(err) = %q, want %q", code, errors.ErrCodeGraphCycle)
	}
}

func TestComputeSelfLoop(t *testing.T) {
	g := makeGraph([]string{"a"}, [][2]string{{"a", "a"}})

	_, err := Compute(context.Background(), g, Options{})
	if !errors.Is(err, errors.ErrCodeGraphCycle) {
		t.Errorf("Compute() error = %v, want GRAPH_CYCLE", err)
	}
}

func TestComputeIslands(t *testing.T) {
	// Two disconnected subgraphs: {a→b} and {c}. Islands stack vertically
	// with the configured gap, each starting at x = 0.
	g := makeGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}})

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if result["a"].Y != 0 || result["b"].Y != 0 {
		t.Errorf("first island not at origin: a=%+v b=%+v", result["a"], result["b"])
	}
	wantY := DefaultNodeHeight + DefaultIslandSpacing
	if result["c"].Y != wantY {
		t.Errorf("second island Y = %v, want %v", result["c"].Y, wantY)
	}
	if result["c"].X != 0 {
		t.Errorf("second island X = %v, want 0", result["c"].X)
	}
}

func TestComputeIslandSeparation(t *testing.T) {
	// Islands of unequal height must still be separated by at least the
	// island gap between their bounding boxes.
	g := makeGraph(
		[]string{"a", "b", "c", "d", "e"},
		[][2]string{{"a", "c"}, {"b", "c"}, {"d", "e"}},
	)

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	firstBottom := 0.0
	for _, id := range []string{"a", "b", "c"} {
		if bottom := result[id].Y + DefaultNodeHeight; bottom > firstBottom {
			firstBottom = bottom
		}
	}
	secondTop := result["d"].Y
	if top := result["e"].Y; top < secondTop {
		secondTop = top
	}

	if gap := secondTop - firstBottom; gap < DefaultIslandSpacing {
		t.Errorf("island gap = %v, want >= %v", gap, DefaultIslandSpacing)
	}
}

func TestComputeFanIn(t *testing.T) {
	// Two sources each feeding the same three targets. The 6 direct edges
	// are concentrated through one synthetic node, which must not appear in
	// the result.
	g := makeGraph(
		[]string{"s1", "s2", "t1", "t2", "t3"},
		[][2]string{
			{"s1", "t1"}, {"s1", "t2"}, {"s1", "t3"},
			{"s2", "t1"}, {"s2", "t2"}, {"s2", "t3"},
		},
	)

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(result) != 5 {
		t.Fatalf("Compute() returned %d positions, want 5: %v", len(result), result)
	}
	if result["s1"].X != result["s2"].X {
		t.Errorf("sources in different columns: s1=%v s2=%v", result["s1"].X, result["s2"].X)
	}
	if result["t1"].X != result["t2"].X || result["t2"].X != result["t3"].X {
		t.Errorf("targets in different columns: %v %v %v", result["t1"].X, result["t2"].X, result["t3"].X)
	}
	if result["s1"].X >= result["t1"].X {
		t.Errorf("sources not left of targets: s=%v t=%v", result["s1"].X, result["t1"].X)
	}
}

func TestComputeEdgeDirection(t *testing.T) {
	// Every wire must run left to right: producers strictly left of
	// consumers.
	g := makeGraph(
		[]string{"in", "filter", "gain", "mix", "out"},
		[][2]string{
			{"in", "filter"}, {"in", "gain"},
			{"filter", "mix"}, {"gain", "mix"},
			{"mix", "out"},
		},
	)

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for _, e := range g.Edges {
		if result[e.From].X >= result[e.To].X {
			t.Errorf("edge %s→%s: producer X %v >= consumer X %v",
				e.From, e.To, result[e.From].X, result[e.To].X)
		}
	}
}

func TestComputeNoColumnOverlap(t *testing.T) {
	// Nodes sharing a column must not overlap vertically, even with port
	// geometry pulling them toward the same height.
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "a", Height: 40, OutputOffsets: []float64{20}},
			{ID: "b", Height: 40, OutputOffsets: []float64{20}},
			{ID: "sink", Height: 40, InputOffsets: []float64{10, 30}},
		},
		Edges: []flow.Edge{
			{From: "a", FromPort: 0, To: "sink", ToPort: 0},
			{From: "b", FromPort: 0, To: "sink", ToPort: 1},
		},
	}

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	columns := make(map[float64][]string)
	for id, p := range result {
		columns[p.X] = append(columns[p.X], id)
	}
	for x, ids := range columns {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				n1, _ := g.Node(ids[i])
				n2, _ := g.Node(ids[j])
				y1, y2 := result[ids[i]].Y, result[ids[j]].Y
				if y1 > y2 {
					y1, y2 = y2, y1
					n1, n2 = n2, n1
				}
				if y1+n1.Height > y2 {
					t.Errorf("column %v: %q and %q overlap (%v+%v > %v)",
						x, n1.ID, n2.ID, y1, n1.Height, y2)
				}
			}
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := makeGraph(
		[]string{"a", "b", "c", "d", "e", "f"},
		[][2]string{
			{"a", "c"}, {"b", "c"}, {"b", "d"},
			{"c", "e"}, {"d", "e"}, {"d", "f"},
		},
	)

	first, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Compute(context.Background(), g, Options{})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d positions, want %d", i, len(again), len(first))
		}
		for id, p := range first {
			if again[id] != p {
				t.Errorf("run %d: node %q moved from %+v to %+v", i, id, p, again[id])
			}
		}
	}
}

func TestComputePositionedGraphNormalized(t *testing.T) {
	// A fully positioned graph is not re-laid-out, only translated so its
	// top-left extent sits at the origin.
	g := makeGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	g.Nodes[0].Pos = &flow.Point{X: 50, Y: 130}
	g.Nodes[1].Pos = &flow.Point{X: 90, Y: 70}

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	want := Result{
		"a": {X: 0, Y: 60},
		"b": {X: 40, Y: 0},
	}
	for id, wp := range want {
		if result[id] != wp {
			t.Errorf("Compute()[%q] = %+v, want %+v", id, result[id], wp)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	// Applying a computed layout and computing again must be a no-op.
	g := makeGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})

	first, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for i := range g.Nodes {
		p := first[g.Nodes[i].ID]
		g.Nodes[i].Pos = &flow.Point{X: p.X, Y: p.Y}
	}

	second, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for id, p := range first {
		if second[id] != p {
			t.Errorf("node %q moved on second run: %+v → %+v", id, p, second[id])
		}
	}
}

func TestComputeForce(t *testing.T) {
	// Force discards existing positions and recomputes from scratch.
	g := makeGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	g.Nodes[0].Pos = &flow.Point{X: 999, Y: 999}
	g.Nodes[1].Pos = &flow.Point{X: 0, Y: 0}

	result, err := Compute(context.Background(), g, Options{Force: true})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if result["a"].X != 0 || result["b"].X != DefaultNodeWidth+DefaultSpacingX {
		t.Errorf("forced layout ignored structure: a=%+v b=%+v", result["a"], result["b"])
	}
}

func TestComputeDanglingEdgeSkipped(t *testing.T) {
	g := makeGraph([]string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "ghost"}})

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Compute() returned %d positions, want 2", len(result))
	}
}

func TestComputeCustomSpacing(t *testing.T) {
	g := makeGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})

	result, err := Compute(context.Background(), g, Options{SpacingX: 10, NodeWidth: 30})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if result["b"].X != 40 {
		t.Errorf("b.X = %v, want 40", result["b"].X)
	}
}

func TestOptionsSweepCap(t *testing.T) {
	tests := []struct {
		name       string
		maxSweeps  int
		islandSize int
		want       int
	}{
		{"explicit", 5, 100, 5},
		{"default small island", 0, 1, 8},
		{"default large island", 0, 10, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{MaxSweeps: tt.maxSweeps}
			if got := o.sweepCap(tt.islandSize); got != tt.want {
				t.Errorf("sweepCap(%d) = %d, want %d", tt.islandSize, got, tt.want)
			}
		})
	}
}

func TestResultBounds(t *testing.T) {
	g := makeGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	result, err := Compute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	w, h := result.Bounds(g, Options{})
	wantW := 2*(DefaultNodeWidth+DefaultSpacingX) + DefaultNodeWidth
	if w != wantW {
		t.Errorf("Bounds() width = %v, want %v", w, wantW)
	}
	if h != DefaultNodeHeight {
		t.Errorf("Bounds() height = %v, want %v", h, DefaultNodeHeight)
	}
}

// recordingHooks captures layout lifecycle events for assertions.
type recordingHooks struct {
	observability.NoopLayoutHooks
	starts    int
	islands   int
	completes int
	lastErr   error
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) { h.starts++ }
func (h *recordingHooks) OnIslandStart(context.Context, int, int) { h.islands++ }
func (h *recordingHooks) OnLayoutComplete(_ context.Context, _ int, _ time.Duration, err error) {
	h.completes++
	h.lastErr = err
}

func TestComputeEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	g := makeGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}})
	if _, err := Compute(context.Background(), g, Options{}); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("starts = %d, completes = %d, want 1 each", hooks.starts, hooks.completes)
	}
	if hooks.islands != 2 {
		t.Errorf("islands = %d, want 2", hooks.islands)
	}
	if hooks.lastErr != nil {
		t.Errorf("OnLayoutComplete err = %v, want nil", hooks.lastErr)
	}
}
