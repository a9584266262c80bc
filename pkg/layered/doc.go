// Package layered computes layered (Sugiyama-style) graph layouts,
// independent of any rendering backend: given nodes with bounding-box sizes
// and directed edges, it produces per-node drawing positions.
//
// # Usage
//
//	g := layered.New()
//	a := g.AddNode("a", graph.Size{Width: 10, Height: 10})
//	b := g.AddNode("b", graph.Size{Width: 10, Height: 10})
//	g.AddEdge(a, b)
//	if err := g.Layout(); err != nil {
//	    // handle
//	}
//	for payload, pos := range g.MustResults() {
//	    // payload is the value passed to AddNode, pos its position
//	}
//
// Input graphs may be cyclic multigraphs; before ranking they are rewritten
// into acyclic form (see the transform package) and restored losslessly
// afterwards, so the caller's graph is never observably modified.
//
// # Rank Hints
//
// [Graph.SetRankMin], [Graph.SetRankMax], and [Graph.SetRankSame] pin nodes
// to the topmost layer, the bottommost layer, or a shared layer. Impossible
// combinations (the same node pinned twice, min tied to max) fail at the
// call, not during layout.
//
// # Freshness
//
// Each instance caches whether positions are current. [Graph.Layout] is a
// no-op while no mutation has happened since the last run, and
// [Graph.Results] refuses to serve stale positions.
//
// All state belongs to one Graph instance and no call blocks, so there is
// nothing to synchronize; instances are not safe for concurrent use.
//
// # References
//
//   - A Technique for Drawing Directed Graphs (Gansner et al.)
//   - Handbook of Graph Drawing and Visualization (ed. Tamassia)
package layered
