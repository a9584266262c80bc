package graph

// Snapshot captures the observable shape of a store: its node count and the
// multiset of (from, to, weight) live edges. Two stores with equal snapshots
// are isomorphic for layout purposes - edge handles and arena layout are
// allowed to differ.
//
// The transform package takes a snapshot before rewriting a graph and checks
// it again after undo, so an inexact restoration surfaces as an invariant
// failure rather than silently corrupting later layout runs.
type Snapshot struct {
	nodes int
	edges map[edgeKey]int
}

type edgeKey struct {
	from   NodeID
	to     NodeID
	weight float64
}

// Capture records the current shape of the store.
func (s *Store) Capture() Snapshot {
	snap := Snapshot{nodes: len(s.nodes), edges: make(map[edgeKey]int, s.live)}
	for _, e := range s.Edges() {
		snap.edges[edgeKey{e.From, e.To, e.Weight}]++
	}
	return snap
}

// Matches reports whether the store currently has the captured shape.
func (snap Snapshot) Matches(s *Store) bool {
	if len(s.nodes) != snap.nodes || s.live != countEdges(snap.edges) {
		return false
	}
	seen := make(map[edgeKey]int, len(snap.edges))
	for _, e := range s.Edges() {
		seen[edgeKey{e.From, e.To, e.Weight}]++
	}
	for k, n := range snap.edges {
		if seen[k] != n {
			return false
		}
	}
	return true
}

func countEdges(m map[edgeKey]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
