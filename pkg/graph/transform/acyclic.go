package transform

import (
	"errors"
	"fmt"

	"github.com/derekdreery/gansner/pkg/graph"
	"github.com/derekdreery/gansner/pkg/graph/rank"
)

var (
	// ErrStillCyclic is reported by [Check] when the rewritten graph still
	// contains a directed cycle. Indicates a defect in the feedback arc set,
	// not a usage error.
	ErrStillCyclic = errors.New("graph still cyclic after rewrite")

	// ErrBoundary is reported by [Check] when a min-group node kept an
	// incoming edge or a max-group node kept an outgoing edge.
	ErrBoundary = errors.New("boundary condition violated")

	// ErrRestoreMismatch is reported by [CheckRestored] when undo did not
	// reproduce the pre-rewrite graph.
	ErrRestoreMismatch = errors.New("restored graph differs from original")
)

// Restoration is the undo log of one [Acyclic] run: every edge deletion
// (with original endpoints and weight) and every reversal, in application
// order. It is consumed by [Restoration.Undo] and then discarded; a log
// must not be replayed twice or against a different store.
type Restoration struct {
	removed  []graph.Edge
	reversed []graph.EdgeID
}

// Removed returns how many edges the run deleted (self-loops only).
func (r *Restoration) Removed() int { return len(r.removed) }

// Reversed returns how many edges the run reversed.
func (r *Restoration) Reversed() int { return len(r.reversed) }

// Undo restores the original graph: deleted edges are re-inserted with
// their original weight, then every recorded reversal is reversed again,
// in log order.
func (r *Restoration) Undo(g *graph.Store) error {
	for _, e := range r.removed {
		if _, err := g.AddEdge(e.From, e.To, e.MinRankLen, e.Weight); err != nil {
			return fmt.Errorf("restore removed edge %d->%d: %w", e.From, e.To, err)
		}
	}
	for _, id := range r.reversed {
		if err := g.Reverse(id); err != nil {
			return fmt.Errorf("restore reversed edge %d: %w", id, err)
		}
	}
	return nil
}

// Acyclic rewrites g in place into a DAG in which every min-group node is a
// source and every max-group node is a sink, and returns the log needed to
// restore g exactly.
func Acyclic(g *graph.Store, hints *rank.Sets) (*Restoration, error) {
	res := &Restoration{}

	// Boundary correction. Collect first, then apply: reversing while
	// walking an incidence list would invalidate the walk, and an edge
	// joining two boundary nodes (e.g. max→min) must flip exactly once.
	// Self-loops are skipped outright: reversing one changes nothing, and
	// the cycle step deletes it, which would orphan a reversal log entry.
	var boundary []graph.EdgeID
	seen := make(map[graph.EdgeID]bool)
	collect := func(ids []graph.EdgeID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			if e, ok := g.Edge(id); !ok || e.From == e.To {
				continue
			}
			seen[id] = true
			boundary = append(boundary, id)
		}
	}
	for n := range hints.Min() {
		collect(g.Incoming(n))
	}
	for n := range hints.Max() {
		collect(g.Outgoing(n))
	}
	for _, id := range boundary {
		if err := g.Reverse(id); err != nil {
			return nil, fmt.Errorf("boundary reversal of edge %d: %w", id, err)
		}
		res.reversed = append(res.reversed, id)
	}

	// Cycle elimination over the corrected graph. Self-loops flagged by the
	// feedback arc set are deleted; everything else is reversed in place.
	for _, id := range feedbackArcSet(g) {
		e, ok := g.Edge(id)
		if !ok {
			return nil, fmt.Errorf("feedback edge %d: %w", id, graph.ErrUnknownEdge)
		}
		if e.From == e.To {
			removed, err := g.Remove(id)
			if err != nil {
				return nil, fmt.Errorf("remove self-loop %d: %w", id, err)
			}
			res.removed = append(res.removed, removed)
			continue
		}
		if err := g.Reverse(id); err != nil {
			return nil, fmt.Errorf("reverse feedback edge %d: %w", id, err)
		}
		res.reversed = append(res.reversed, id)
	}

	return res, nil
}

// Check validates the [Acyclic] postconditions: the graph is a DAG, min
// nodes have no incoming edges, max nodes have no outgoing edges. Edges
// joining two nodes of the same sentinel group are exempt - one endpoint
// necessarily sees the wrong direction, and both receive the sentinel rank
// regardless. Returns nil when all conditions hold.
func Check(g *graph.Store, hints *rank.Sets) error {
	if g.IsCyclic() {
		return ErrStillCyclic
	}
	inGroup := func(n graph.NodeID, want rank.Group) bool {
		got, ok := hints.Of(n)
		return ok && got == want
	}
	for n := range hints.Min() {
		for _, id := range g.Incoming(n) {
			e, _ := g.Edge(id)
			if !inGroup(e.From, rank.Min) {
				return fmt.Errorf("min node %d has incoming edges: %w", n, ErrBoundary)
			}
		}
	}
	for n := range hints.Max() {
		for _, id := range g.Outgoing(n) {
			e, _ := g.Edge(id)
			if !inGroup(e.To, rank.Max) {
				return fmt.Errorf("max node %d has outgoing edges: %w", n, ErrBoundary)
			}
		}
	}
	return nil
}

// CheckRestored validates that g matches the snapshot captured before
// [Acyclic] ran.
func CheckRestored(g *graph.Store, snap graph.Snapshot) error {
	if !snap.Matches(g) {
		return ErrRestoreMismatch
	}
	return nil
}

