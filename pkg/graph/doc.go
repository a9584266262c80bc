// Package graph provides the directed multigraph that backs layered layout
// computation.
//
// # Overview
//
// A [Store] owns nodes and edges in index-addressed arenas. Nodes carry a
// user payload, a bounding-box size, and a position that the layout phase
// writes back. Edges carry a minimum rank length (δ) and a non-negative
// weight (ω). Handles ([NodeID], [EdgeID]) are small comparable integers
// that stay valid for the lifetime of the owning store, so callers keep
// plain values instead of aliased references.
//
// # Multigraph Semantics
//
// Unlike a dependency DAG, the store accepts arbitrary directed input:
// parallel edges between the same pair of nodes and self-loops are both
// legal. Cycle handling is not the store's job - the transform package
// rewrites the graph into acyclic form before ranking and restores it
// afterwards, using [Store.Reverse] and [Store.Remove], both of which keep
// surviving handles stable.
//
// # Usage
//
//	s := graph.New()
//	a := s.AddNode("a", graph.Size{Width: 10, Height: 10})
//	b := s.AddNode("b", graph.Size{Width: 10, Height: 10})
//	e, err := s.AddEdge(a, b, 1, 1.0)
//
// Store is not safe for concurrent use; every store is exclusively owned by
// one layout instance.
package graph
