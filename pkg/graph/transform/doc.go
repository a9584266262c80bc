// Package transform rewrites a directed multigraph into the canonical
// acyclic form that rank assignment requires, and restores it afterwards.
//
// # Overview
//
// Rank assignment needs a DAG in which min-pinned nodes are sources and
// max-pinned nodes are sinks. Arbitrary input graphs satisfy neither, so
// [Acyclic] applies two rewrites in order:
//
//  1. Boundary correction: every incoming edge of a min-group node and
//     every outgoing edge of a max-group node is reversed. An edge between
//     two min nodes (or two max nodes) is reversed too - harmlessly, since
//     both endpoints receive the sentinel rank either way.
//  2. Cycle elimination: a feedback arc set is computed with the greedy
//     cycle-removal heuristic (see fas.go). Flagged self-loops are deleted
//     outright - a self-loop cannot be usefully reversed and contributes
//     nothing to ranking. Every other flagged edge is reversed in place.
//
// # Restoration
//
// Both rewrites are recorded, in application order, in the returned
// [Restoration]: deletions with their original endpoints and weight,
// reversals by edge handle. [Restoration.Undo] re-inserts the deletions and
// re-reverses the reversals, reproducing a graph isomorphic to the input
// (same nodes, same multiset of (from, to, weight) edges).
//
// # Verification
//
// [Check] validates the postconditions (acyclic, min nodes source-only, max
// nodes sink-only) and [CheckRestored] validates the round trip against a
// [graph.Snapshot]. A failure from either is an algorithm defect, not a
// usage error; the diagnostic layout path and the tests run them, the plain
// path skips them.
//
// Unreached components are not yet tied to the boundary groups: the
// synthetic zero-length min→component and component→max edges described in
// the Gansner paper are an open item, needed before rank assignment can be
// trusted on disconnected inputs.
package transform
