package layered

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/derekdreery/gansner/pkg/graph"
	"github.com/derekdreery/gansner/pkg/graph/rank"
	"github.com/derekdreery/gansner/pkg/graph/transform"
	"github.com/derekdreery/gansner/pkg/observability"
)

// ErrNotLaidOut is returned by [Graph.Results] when positions are stale:
// either Layout has never succeeded, or a mutation happened after the last
// run. Calling code must lay out first instead of reading stale positions.
var ErrNotLaidOut = errors.New("no current layout: call Layout first")

// Graph is the public entry point for layered layout. It owns a mutable
// directed multigraph plus the rank-hint registry, and caches whether the
// current positions are fresh.
//
// The zero value is not usable; create instances with [New] or
// [NewWithCapacity]. Graph is not safe for concurrent use.
type Graph struct {
	store  *graph.Store
	hints  *rank.Sets
	ranker Ranker
	logger *log.Logger

	// fresh is true only while no node, edge, or rank-hint mutation has
	// happened since the last successful Layout.
	fresh bool
}

// New creates an empty layout graph.
func New() *Graph { return NewWithCapacity(0, 0) }

// NewWithCapacity creates an empty layout graph with node and edge arena
// capacity hints.
func NewWithCapacity(nodes, edges int) *Graph {
	return &Graph{
		store:  graph.NewWithCapacity(nodes, edges),
		hints:  rank.NewSets(),
		ranker: LongestPath{},
	}
}

// SetRanker replaces the rank assignment engine. Passing nil restores the
// default [LongestPath] ranker.
func (g *Graph) SetRanker(r Ranker) {
	if r == nil {
		r = LongestPath{}
	}
	g.ranker = r
}

// SetLogger attaches a logger used by [Graph.LayoutDebug]. Without one the
// diagnostic run falls back to [log.Default].
func (g *Graph) SetLogger(l *log.Logger) { g.logger = l }

// AddNode adds a node with the given payload and bounding-box size and
// returns its handle.
//
// Insertion order matters: when cycles are broken, edges from later nodes
// back to earlier ones are the ones that tend to get reversed, which is
// usually what callers want.
func (g *Graph) AddNode(payload any, size graph.Size) graph.NodeID {
	g.fresh = false
	return g.store.AddNode(payload, size)
}

// AddEdge adds a directed edge with default minimum rank length (1) and
// weight (1).
func (g *Graph) AddEdge(from, to graph.NodeID) (graph.EdgeID, error) {
	return g.AddEdgeWithOptions(from, to, 1, 1)
}

// AddEdgeWithOptions adds a directed edge that must span at least
// minRankLen rank levels and carries the given weight in the ranking
// objective.
//
// Returns graph.ErrNegativeWeight if weight < 0 and graph.ErrUnknownNode if
// either handle is not from this instance. minRankLen is not validated;
// zero is accepted as-is.
func (g *Graph) AddEdgeWithOptions(from, to graph.NodeID, minRankLen int, weight float64) (graph.EdgeID, error) {
	g.fresh = false
	return g.store.AddEdge(from, to, minRankLen, weight)
}

// SetRankMin pins the node to the topmost layer.
func (g *Graph) SetRankMin(n graph.NodeID) error {
	g.fresh = false
	return g.hints.SetMin(n)
}

// SetRankMax pins the node to the bottommost layer.
func (g *Graph) SetRankMax(n graph.NodeID) error {
	g.fresh = false
	return g.hints.SetMax(n)
}

// SetRankSame requests that two nodes share a layer. See [rank.Sets.SetSame]
// for the merge rules.
func (g *Graph) SetRankSame(a, b graph.NodeID) error {
	g.fresh = false
	return g.hints.SetSame(a, b)
}

// Layout computes node positions. It is a no-op when nothing changed since
// the last successful run, so repeated calls are cheap.
//
// The pipeline is: rewrite the graph into acyclic form, assign integer
// ranks, write each rank back as the node's primary-axis coordinate, and
// restore the original graph from the undo log.
func (g *Graph) Layout() error {
	if g.fresh {
		return nil
	}
	if err := g.layout(false); err != nil {
		return err
	}
	g.fresh = true
	return nil
}

// LayoutDebug is [Graph.Layout] with the internal invariant checks enabled
// and per-phase structured logging. Each run is tagged with a fresh UUID so
// interleaved diagnostic output stays attributable.
func (g *Graph) LayoutDebug() error {
	if g.fresh {
		return nil
	}
	if err := g.layout(true); err != nil {
		return err
	}
	g.fresh = true
	return nil
}

func (g *Graph) layout(debug bool) (err error) {
	hooks := observability.Layout()
	hooks.OnLayoutStart(g.store.NodeCount(), g.store.EdgeCount())
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(time.Since(start), err) }()

	var (
		logger *log.Logger
		snap   graph.Snapshot
	)
	if debug {
		logger = g.logger
		if logger == nil {
			logger = log.Default()
		}
		logger = logger.With("run", uuid.NewString())
		snap = g.store.Capture()
		logger.Debug("layout start", "nodes", g.store.NodeCount(), "edges", g.store.EdgeCount())
	}

	res, err := transform.Acyclic(g.store, g.hints)
	if err != nil {
		return fmt.Errorf("acyclic rewrite: %w", err)
	}
	// Put the graph back before failing so the caller's input survives even
	// a failed run.
	fail := func(stage string, ferr error) error {
		if uerr := res.Undo(g.store); uerr != nil {
			return fmt.Errorf("%s: %w (undo also failed: %v)", stage, ferr, uerr)
		}
		return fmt.Errorf("%s: %w", stage, ferr)
	}
	hooks.OnRewriteComplete(res.Reversed(), res.Removed())
	if debug {
		logger.Debug("acyclic rewrite done", "reversed", res.Reversed(), "removed", res.Removed())
		if err := transform.Check(g.store, g.hints); err != nil {
			return fail("rewrite invariant", err)
		}
	}

	ranks, err := g.ranker.Rank(g.store, g.hints)
	if err != nil {
		return fail("rank assignment", err)
	}
	g.applyRanks(ranks)
	span := rankSpan(ranks)
	hooks.OnRankComplete(span)
	if debug {
		logger.Debug("ranks assigned", "span", span)
	}

	if err := res.Undo(g.store); err != nil {
		return fmt.Errorf("restore graph: %w", err)
	}
	if debug {
		if err := transform.CheckRestored(g.store, snap); err != nil {
			return fmt.Errorf("restore invariant: %w", err)
		}
		logger.Debug("layout done", "elapsed", time.Since(start).Round(time.Microsecond))
	}
	return nil
}

// applyRanks writes each node's rank as its primary-axis coordinate.
// Ordering within a rank and the cross-axis coordinate are later phases.
func (g *Graph) applyRanks(ranks map[graph.NodeID]int) {
	for id, n := range g.store.Nodes() {
		n.Pos = graph.Point{X: 0, Y: float64(ranks[id])}
	}
}

// Results iterates over (payload, position) pairs for every node, in
// insertion order. It returns ErrNotLaidOut unless a successful Layout run
// happened and no mutation followed it.
func (g *Graph) Results() (iter.Seq2[any, graph.Point], error) {
	if !g.fresh {
		return nil, ErrNotLaidOut
	}
	return func(yield func(any, graph.Point) bool) {
		for _, n := range g.store.Nodes() {
			if !yield(n.Payload, n.Pos) {
				return
			}
		}
	}, nil
}

// MustResults is [Graph.Results] for call sites that have just laid out and
// want to range directly. It panics on ErrNotLaidOut.
func (g *Graph) MustResults() iter.Seq2[any, graph.Point] {
	seq, err := g.Results()
	if err != nil {
		panic(err)
	}
	return seq
}

// NodeCount returns the number of nodes added to this instance.
func (g *Graph) NodeCount() int { return g.store.NodeCount() }

// EdgeCount returns the number of edges added to this instance.
func (g *Graph) EdgeCount() int { return g.store.EdgeCount() }

func rankSpan(ranks map[graph.NodeID]int) int {
	span := 0
	for _, r := range ranks {
		if r+1 > span {
			span = r + 1
		}
	}
	return span
}
