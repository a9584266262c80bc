package transform

import (
	"slices"

	"github.com/derekdreery/gansner/pkg/graph"
)

// feedbackArcSet computes a set of edges whose reversal (or, for
// self-loops, removal) leaves g acyclic, using the greedy cycle-removal
// heuristic: build a vertex sequence by repeatedly peeling sinks to the
// back, sources to the front, and otherwise the vertex with the largest
// out-in degree gap; edges running against the sequence form the set.
//
// Edges that participate in many cycles tend to run against any such
// sequence, so the heuristic favors them without enumerating cycles.
func feedbackArcSet(g *graph.Store) []graph.EdgeID {
	n := g.NodeCount()
	if n == 0 {
		return nil
	}

	// Degrees ignore self-loops; they are cycles on their own and are
	// swept into the set by the position test below.
	outDeg := make([]int, n)
	inDeg := make([]int, n)
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		outDeg[e.From]++
		inDeg[e.To]++
	}

	removed := make([]bool, n)
	left := make([]graph.NodeID, 0, n)
	right := make([]graph.NodeID, 0, n)
	remaining := n

	drop := func(id graph.NodeID) {
		removed[id] = true
		remaining--
		for _, eid := range g.Outgoing(id) {
			e, _ := g.Edge(eid)
			if e.To != id && !removed[e.To] {
				inDeg[e.To]--
			}
		}
		for _, eid := range g.Incoming(id) {
			e, _ := g.Edge(eid)
			if e.From != id && !removed[e.From] {
				outDeg[e.From]--
			}
		}
	}

	for remaining > 0 {
		again := true
		for again {
			again = false
			for i := range n {
				id := graph.NodeID(i)
				if !removed[id] && outDeg[id] == 0 {
					right = append(right, id)
					drop(id)
					again = true
				}
			}
		}
		again = true
		for again {
			again = false
			for i := range n {
				id := graph.NodeID(i)
				if !removed[id] && inDeg[id] == 0 {
					left = append(left, id)
					drop(id)
					again = true
				}
			}
		}
		if remaining == 0 {
			break
		}
		best, bestDelta := graph.NodeID(-1), 0
		for i := range n {
			id := graph.NodeID(i)
			if removed[id] {
				continue
			}
			if delta := outDeg[id] - inDeg[id]; best < 0 || delta > bestDelta {
				best, bestDelta = id, delta
			}
		}
		left = append(left, best)
		drop(best)
	}

	slices.Reverse(right)
	pos := make([]int, n)
	for i, id := range append(left, right...) {
		pos[id] = i
	}

	var fas []graph.EdgeID
	for id, e := range g.Edges() {
		// Position test: backward edges, and self-loops (equal positions).
		if pos[e.To] <= pos[e.From] {
			fas = append(fas, id)
		}
	}
	return fas
}
