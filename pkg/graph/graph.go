package graph

import (
	"errors"
	"iter"
	"slices"
)

var (
	// ErrUnknownNode is returned by [Store.AddEdge] when an endpoint handle
	// does not belong to this store.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Store.Reverse] and [Store.Remove] when
	// the edge handle does not belong to this store or the edge has already
	// been removed.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrNegativeWeight is returned by [Store.AddEdge] when the weight is
	// negative. Edge weights (ω) must be >= 0; a violation is a caller bug
	// and fails immediately.
	ErrNegativeWeight = errors.New("edge weight must be >= 0")
)

// NodeID is a stable handle to a node in a [Store].
// Handles are comparable values meaningful only within their owning store.
type NodeID int

// EdgeID is a stable handle to an edge in a [Store].
// Reversing an edge keeps its handle; removing it invalidates the handle.
type EdgeID int

// Size is a node's bounding box as supplied by the caller.
type Size struct {
	Width  float64
	Height float64
}

// Point is a computed drawing position. The zero value means "not laid out".
type Point struct {
	X float64
	Y float64
}

// Node is a vertex record stored in the arena. Payload and Size are set at
// construction; Pos is written by the layout phase only.
type Node struct {
	Payload any
	Size    Size
	Pos     Point
}

// Edge is a directed connection between two nodes.
//
// MinRankLen is the minimum number of rank levels the edge must span
// (δ, defaults to 1). Weight is the edge weight in the ranking objective
// (ω, defaults to 1, always >= 0).
type Edge struct {
	From       NodeID
	To         NodeID
	MinRankLen int
	Weight     float64
}

type edgeRec struct {
	Edge
	removed bool
}

// Store is a mutable directed multigraph with arena-indexed nodes and edges.
//
// The zero value is usable but [New] or [NewWithCapacity] read better at
// call sites. Store is not safe for concurrent use.
type Store struct {
	nodes []Node
	edges []edgeRec

	// Incidence lists hold edge handles, not neighbor handles, because
	// parallel edges must stay distinguishable.
	out  [][]EdgeID
	in   [][]EdgeID
	live int
}

// New creates an empty store.
func New() *Store { return NewWithCapacity(0, 0) }

// NewWithCapacity creates an empty store with preallocated arenas.
// The hints avoid reallocation during bulk graph construction; they do not
// limit growth.
func NewWithCapacity(nodes, edges int) *Store {
	return &Store{
		nodes: make([]Node, 0, nodes),
		edges: make([]edgeRec, 0, edges),
		out:   make([][]EdgeID, 0, nodes),
		in:    make([][]EdgeID, 0, nodes),
	}
}

// AddNode appends a node to the arena and returns its handle.
func (s *Store) AddNode(payload any, size Size) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, Node{Payload: payload, Size: size})
	s.out = append(s.out, nil)
	s.in = append(s.in, nil)
	return id
}

// AddEdge appends a directed edge and returns its handle.
//
// Returns ErrUnknownNode if either endpoint is not a handle of this store,
// or ErrNegativeWeight if weight < 0. Parallel edges and self-loops are
// permitted. minRankLen is stored as given; zero is currently accepted.
func (s *Store) AddEdge(from, to NodeID, minRankLen int, weight float64) (EdgeID, error) {
	if !s.validNode(from) || !s.validNode(to) {
		return 0, ErrUnknownNode
	}
	if weight < 0 {
		return 0, ErrNegativeWeight
	}
	id := EdgeID(len(s.edges))
	s.edges = append(s.edges, edgeRec{Edge: Edge{From: from, To: to, MinRankLen: minRankLen, Weight: weight}})
	s.out[from] = append(s.out[from], id)
	s.in[to] = append(s.in[to], id)
	s.live++
	return id, nil
}

// Node returns a pointer to the node record, or nil and false if the handle
// is not from this store. The pointer refers into the arena: position
// updates through it are visible to all readers.
func (s *Store) Node(id NodeID) (*Node, bool) {
	if !s.validNode(id) {
		return nil, false
	}
	return &s.nodes[id], true
}

// Edge returns a copy of the edge record, or false if the handle is unknown
// or the edge has been removed.
func (s *Store) Edge(id EdgeID) (Edge, bool) {
	if !s.validEdge(id) {
		return Edge{}, false
	}
	return s.edges[id].Edge, true
}

// NodeCount returns the number of nodes ever added.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of live (non-removed) edges.
func (s *Store) EdgeCount() int { return s.live }

// Outgoing returns the handles of live edges leaving the node.
// The returned slice is a read-only view; callers that mutate the graph
// while iterating must clone it first.
func (s *Store) Outgoing(id NodeID) []EdgeID {
	if !s.validNode(id) {
		return nil
	}
	return s.out[id]
}

// Incoming returns the handles of live edges entering the node.
// Same aliasing caveat as [Store.Outgoing].
func (s *Store) Incoming(id NodeID) []EdgeID {
	if !s.validNode(id) {
		return nil
	}
	return s.in[id]
}

// Reverse swaps the direction of an edge in place. The edge handle stays
// valid and a second Reverse restores the original direction exactly.
func (s *Store) Reverse(id EdgeID) error {
	if !s.validEdge(id) {
		return ErrUnknownEdge
	}
	e := &s.edges[id]
	s.detach(id, e.From, e.To)
	e.From, e.To = e.To, e.From
	s.out[e.From] = append(s.out[e.From], id)
	s.in[e.To] = append(s.in[e.To], id)
	return nil
}

// Remove deletes an edge and returns its final record. The arena slot is
// tombstoned so all other edge handles remain stable; the removed handle
// must not be reused.
func (s *Store) Remove(id EdgeID) (Edge, error) {
	if !s.validEdge(id) {
		return Edge{}, ErrUnknownEdge
	}
	e := &s.edges[id]
	s.detach(id, e.From, e.To)
	e.removed = true
	s.live--
	return e.Edge, nil
}

// Nodes iterates over all node handles with pointers into the arena, in
// insertion order.
func (s *Store) Nodes() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		for i := range s.nodes {
			if !yield(NodeID(i), &s.nodes[i]) {
				return
			}
		}
	}
}

// Edges iterates over all live edges in handle order.
func (s *Store) Edges() iter.Seq2[EdgeID, Edge] {
	return func(yield func(EdgeID, Edge) bool) {
		for i := range s.edges {
			if s.edges[i].removed {
				continue
			}
			if !yield(EdgeID(i), s.edges[i].Edge) {
				return
			}
		}
	}
}

// IsCyclic reports whether the graph contains a directed cycle (self-loops
// included). Detection runs in O(N+E) using depth-first search with
// white/gray/black coloring.
func (s *Store) IsCyclic() bool {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(s.nodes))
	var hasCycle bool

	var dfs func(id NodeID)
	dfs = func(id NodeID) {
		color[id] = gray
		for _, eid := range s.out[id] {
			child := s.edges[eid].To
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for i := range s.nodes {
		if color[i] == white {
			dfs(NodeID(i))
			if hasCycle {
				return true
			}
		}
	}
	return false
}

func (s *Store) validNode(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

func (s *Store) validEdge(id EdgeID) bool {
	return id >= 0 && int(id) < len(s.edges) && !s.edges[id].removed
}

func (s *Store) detach(id EdgeID, from, to NodeID) {
	s.out[from] = slices.DeleteFunc(s.out[from], func(e EdgeID) bool { return e == id })
	s.in[to] = slices.DeleteFunc(s.in[to], func(e EdgeID) bool { return e == id })
}
