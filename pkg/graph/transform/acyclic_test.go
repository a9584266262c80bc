package transform

import (
	"testing"

	"github.com/derekdreery/gansner/pkg/graph"
	"github.com/derekdreery/gansner/pkg/graph/rank"
)

var testSize = graph.Size{Width: 10, Height: 10}

// edgeSet collects the live (from, to) pairs with multiplicity.
func edgeSet(g *graph.Store) map[[2]graph.NodeID]int {
	set := make(map[[2]graph.NodeID]int)
	for _, e := range g.Edges() {
		set[[2]graph.NodeID{e.From, e.To}]++
	}
	return set
}

func mustEdge(t *testing.T, g *graph.Store, from, to graph.NodeID) graph.EdgeID {
	t.Helper()
	id, err := g.AddEdge(from, to, 1, 1)
	if err != nil {
		t.Fatalf("AddEdge(%v, %v) error = %v", from, to, err)
	}
	return id
}

func TestAcyclic_AlreadyAcyclic(t *testing.T) {
	g := graph.New()
	a := g.AddNode("a", testSize)
	b := g.AddNode("b", testSize)
	c := g.AddNode("c", testSize)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)

	res, err := Acyclic(g, rank.NewSets())
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if res.Reversed() != 0 || res.Removed() != 0 {
		t.Errorf("Acyclic() touched %d+%d edges of a DAG, want none",
			res.Reversed(), res.Removed())
	}
}

func TestAcyclic_TriangleWithSeparateComponent(t *testing.T) {
	// Nodes A..E; edges A→B, B→C, C→A, D→E. Exactly one edge of the
	// 3-cycle must be reversed or deleted; D→E stays untouched.
	g := graph.New()
	a := g.AddNode("a", testSize)
	b := g.AddNode("b", testSize)
	c := g.AddNode("c", testSize)
	d := g.AddNode("d", testSize)
	e := g.AddNode("e", testSize)
	mustEdge(t, g, a, b)
	mustEdge(t, g, b, c)
	mustEdge(t, g, c, a)
	mustEdge(t, g, d, e)

	before := edgeSet(g)
	hints := rank.NewSets()
	res, err := Acyclic(g, hints)
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}

	if g.IsCyclic() {
		t.Errorf("graph still cyclic after Acyclic()")
	}
	if touched := res.Reversed() + res.Removed(); touched != 1 {
		t.Errorf("Acyclic() touched %d edges, want exactly 1", touched)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4 (cycle edge reversed, not dropped)", g.EdgeCount())
	}
	if got := edgeSet(g)[[2]graph.NodeID{d, e}]; got != 1 {
		t.Errorf("edge d->e multiplicity = %d after Acyclic(), want 1", got)
	}

	if err := res.Undo(g); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	after := edgeSet(g)
	for pair, n := range before {
		if after[pair] != n {
			t.Errorf("edge %v->%v multiplicity = %d after Undo, want %d",
				pair[0], pair[1], after[pair], n)
		}
	}
	if len(after) != len(before) {
		t.Errorf("restored graph has %d distinct edges, want %d", len(after), len(before))
	}
}

func TestAcyclic_BoundaryReversal(t *testing.T) {
	// setRankMin(A), setRankMax(D); edges B→A and D→E must both flip.
	g := graph.New()
	a := g.AddNode("a", testSize)
	b := g.AddNode("b", testSize)
	d := g.AddNode("d", testSize)
	e := g.AddNode("e", testSize)
	ba := mustEdge(t, g, b, a)
	de := mustEdge(t, g, d, e)

	hints := rank.NewSets()
	if err := hints.SetMin(a); err != nil {
		t.Fatalf("SetMin() error = %v", err)
	}
	if err := hints.SetMax(d); err != nil {
		t.Fatalf("SetMax() error = %v", err)
	}

	res, err := Acyclic(g, hints)
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if got, _ := g.Edge(ba); got.From != a || got.To != b {
		t.Errorf("edge b->a = %v->%v after Acyclic(), want a->b", got.From, got.To)
	}
	if got, _ := g.Edge(de); got.From != e || got.To != d {
		t.Errorf("edge d->e = %v->%v after Acyclic(), want e->d", got.From, got.To)
	}
	if err := Check(g, hints); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	if err := res.Undo(g); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got, _ := g.Edge(ba); got.From != b || got.To != a {
		t.Errorf("edge = %v->%v after Undo, want b->a", got.From, got.To)
	}
	if got, _ := g.Edge(de); got.From != d || got.To != e {
		t.Errorf("edge = %v->%v after Undo, want d->e", got.From, got.To)
	}
}

func TestAcyclic_MinMaxEdgeFlips(t *testing.T) {
	// An edge max→min violates both boundaries at once and must flip
	// exactly once, not twice.
	g := graph.New()
	mn := g.AddNode("min", testSize)
	mx := g.AddNode("max", testSize)
	id := mustEdge(t, g, mx, mn)

	hints := rank.NewSets()
	hints.SetMin(mn)
	hints.SetMax(mx)

	res, err := Acyclic(g, hints)
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if e, _ := g.Edge(id); e.From != mn || e.To != mx {
		t.Errorf("edge = %v->%v after Acyclic(), want min->max", e.From, e.To)
	}
	if err := Check(g, hints); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	if err := res.Undo(g); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if e, _ := g.Edge(id); e.From != mx || e.To != mn {
		t.Errorf("edge = %v->%v after Undo, want max->min", e.From, e.To)
	}
}

func TestAcyclic_SelfLoopDeleted(t *testing.T) {
	g := graph.New()
	a := g.AddNode("a", testSize)
	b := g.AddNode("b", testSize)
	mustEdge(t, g, a, b)
	if _, err := g.AddEdge(a, a, 1, 2.5); err != nil {
		t.Fatalf("AddEdge(self-loop) error = %v", err)
	}

	snap := g.Capture()
	res, err := Acyclic(g, rank.NewSets())
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if res.Removed() != 1 {
		t.Errorf("Removed() = %d, want 1 (the self-loop)", res.Removed())
	}
	if g.IsCyclic() {
		t.Errorf("graph still cyclic with self-loop removed")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d after Acyclic(), want 1", g.EdgeCount())
	}

	if err := res.Undo(g); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	// The restored loop must carry its original weight.
	if err := CheckRestored(g, snap); err != nil {
		t.Errorf("CheckRestored() error = %v", err)
	}
}

func TestAcyclic_SelfLoopAtBoundaryNode(t *testing.T) {
	// A self-loop on a boundary-pinned node sits in the node's incidence
	// lists but must not be logged as a boundary reversal: the cycle step
	// deletes it, and undo would then try to reverse a removed edge.
	tests := []struct {
		name string
		pin  func(*rank.Sets, graph.NodeID) error
	}{
		{"min", (*rank.Sets).SetMin},
		{"max", (*rank.Sets).SetMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			a := g.AddNode("a", testSize)
			b := g.AddNode("b", testSize)
			if _, err := g.AddEdge(a, a, 1, 2.5); err != nil {
				t.Fatalf("AddEdge(self-loop) error = %v", err)
			}
			mustEdge(t, g, a, b)

			hints := rank.NewSets()
			if err := tt.pin(hints, a); err != nil {
				t.Fatalf("pin error = %v", err)
			}

			snap := g.Capture()
			res, err := Acyclic(g, hints)
			if err != nil {
				t.Fatalf("Acyclic() error = %v", err)
			}
			if res.Removed() != 1 {
				t.Errorf("Removed() = %d, want 1 (the self-loop)", res.Removed())
			}
			if err := Check(g, hints); err != nil {
				t.Errorf("Check() error = %v", err)
			}

			if err := res.Undo(g); err != nil {
				t.Fatalf("Undo() error = %v", err)
			}
			if err := CheckRestored(g, snap); err != nil {
				t.Errorf("CheckRestored() error = %v", err)
			}
		})
	}
}

func TestAcyclic_UndoIsExact(t *testing.T) {
	// A denser graph: two interlocking cycles, a parallel edge pair, rank
	// hints, and distinct weights so the multiset check has teeth.
	g := graph.New()
	nodes := make([]graph.NodeID, 6)
	for i := range nodes {
		nodes[i] = g.AddNode(i, testSize)
	}
	edges := [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 2}, {4, 5}, {5, 0}, {0, 1}}
	for i, e := range edges {
		if _, err := g.AddEdge(nodes[e[0]], nodes[e[1]], 1, float64(i)); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	hints := rank.NewSets()
	hints.SetMin(nodes[1])
	hints.SetMax(nodes[3])

	snap := g.Capture()
	res, err := Acyclic(g, hints)
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if err := Check(g, hints); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	if err := res.Undo(g); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if err := CheckRestored(g, snap); err != nil {
		t.Errorf("CheckRestored() error = %v", err)
	}
}

func TestAcyclic_EmptyGraph(t *testing.T) {
	g := graph.New()
	res, err := Acyclic(g, rank.NewSets())
	if err != nil {
		t.Fatalf("Acyclic() error = %v", err)
	}
	if res.Reversed() != 0 || res.Removed() != 0 {
		t.Errorf("Acyclic() on empty graph logged %d+%d entries",
			res.Reversed(), res.Removed())
	}
	if err := res.Undo(g); err != nil {
		t.Errorf("Undo() error = %v", err)
	}
}

func TestCheck_DetectsViolations(t *testing.T) {
	g := graph.New()
	a := g.AddNode("a", testSize)
	b := g.AddNode("b", testSize)
	mustEdge(t, g, b, a)

	hints := rank.NewSets()
	hints.SetMin(a)
	if err := Check(g, hints); err == nil {
		t.Errorf("Check() = nil for min node with incoming edge")
	}

	g2 := graph.New()
	x := g2.AddNode("x", testSize)
	y := g2.AddNode("y", testSize)
	mustEdge(t, g2, x, y)
	mustEdge(t, g2, y, x)
	if err := Check(g2, rank.NewSets()); err == nil {
		t.Errorf("Check() = nil for cyclic graph")
	}
}
