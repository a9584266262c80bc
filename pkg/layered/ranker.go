package layered

import (
	"errors"

	"github.com/derekdreery/gansner/pkg/graph"
	"github.com/derekdreery/gansner/pkg/graph/rank"
)

// ErrInfeasible is returned by a [Ranker] when no integer rank assignment
// satisfies the constraints, e.g. a same-rank group whose members are
// connected by a path of positive minimum rank length. There is no partial
// result; the layout run fails.
var ErrInfeasible = errors.New("no rank assignment satisfies the constraints")

// Ranker assigns an integer rank to every node of an acyclic graph.
//
// The contract: for every live edge, rank(to) - rank(from) >= MinRankLen;
// all members of a same-rank group share one rank; min-group nodes take the
// lowest rank and max-group nodes the highest. The graph handed in is
// already acyclic with min nodes as sources and max nodes as sinks, so a
// failure should only occur for genuinely contradictory hint combinations.
//
// Implementations must not mutate the graph other than through reads; the
// caller writes ranks back as coordinates itself.
type Ranker interface {
	Rank(g *graph.Store, hints *rank.Sets) (map[graph.NodeID]int, error)
}

// LongestPath is the default ranker: a topological traversal that places
// each node one minimum-rank-length below its deepest parent, followed by
// iterated same-rank group equalization.
//
// Longest-path ranking is fast (O(N+E) per pass) and always feasible on a
// DAG; it does not minimize the weighted edge-length objective the way a
// network-simplex ranker would, but produces valid input for the later
// ordering and coordinate phases. Edge weights are carried for such an
// optimizing replacement and ignored here.
type LongestPath struct{}

// Rank implements [Ranker].
func (LongestPath) Rank(g *graph.Store, hints *rank.Sets) (map[graph.NodeID]int, error) {
	n := g.NodeCount()
	ranks := make(map[graph.NodeID]int, n)
	if n == 0 {
		return ranks, nil
	}

	order := topoOrder(g)
	relax := func() {
		for _, id := range order {
			for _, eid := range g.Outgoing(id) {
				e, _ := g.Edge(eid)
				if r := ranks[e.From] + e.MinRankLen; r > ranks[e.To] {
					ranks[e.To] = r
				}
			}
		}
	}
	relax()

	// Same-rank groups: lift every member to the group maximum, then
	// re-relax, until stable. Each round only raises ranks, and a feasible
	// instance stabilizes within one round per group, so needing more than
	// n+1 rounds means the hints contradict the edge constraints.
	for round := 0; ; round++ {
		if round > n {
			return nil, ErrInfeasible
		}
		if !equalizeGroups(ranks, hints, g) {
			break
		}
		relax()
	}

	// Sentinel groups are pinned outright: min nodes are sources (rank 0
	// already, except across intra-min edges, which carry no rank meaning)
	// and max nodes are sinks, so pinning cannot break any other edge.
	top := 0
	for _, r := range ranks {
		if r > top {
			top = r
		}
	}
	for id := range hints.Min() {
		ranks[id] = 0
	}
	for id := range hints.Max() {
		ranks[id] = top
	}
	return ranks, nil
}

// equalizeGroups raises every member of each plain same-rank group to the
// group's maximum rank. Reports whether anything changed.
func equalizeGroups(ranks map[graph.NodeID]int, hints *rank.Sets, g *graph.Store) bool {
	high := make(map[rank.Group]int)
	for id := range g.Nodes() {
		gr, ok := hints.Of(id)
		if !ok || gr == rank.Min || gr == rank.Max {
			continue
		}
		if r := ranks[id]; r > high[gr] {
			high[gr] = r
		}
	}
	changed := false
	for id := range g.Nodes() {
		gr, ok := hints.Of(id)
		if !ok || gr == rank.Min || gr == rank.Max {
			continue
		}
		if r := high[gr]; ranks[id] != r {
			ranks[id] = r
			changed = true
		}
	}
	return changed
}

// topoOrder returns the nodes in topological order (Kahn's algorithm).
// Nodes on a cycle never reach zero in-degree and are appended at the end;
// the rewrite phase guarantees that does not happen here.
func topoOrder(g *graph.Store) []graph.NodeID {
	n := g.NodeCount()
	inDeg := make([]int, n)
	for _, e := range g.Edges() {
		inDeg[e.To]++
	}
	order := make([]graph.NodeID, 0, n)
	queue := make([]graph.NodeID, 0, n)
	for i := range n {
		if inDeg[i] == 0 {
			queue = append(queue, graph.NodeID(i))
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, eid := range g.Outgoing(id) {
			e, _ := g.Edge(eid)
			if inDeg[e.To]--; inDeg[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}
	if len(order) < n {
		seen := make([]bool, n)
		for _, id := range order {
			seen[id] = true
		}
		for i := range n {
			if !seen[i] {
				order = append(order, graph.NodeID(i))
			}
		}
	}
	return order
}
