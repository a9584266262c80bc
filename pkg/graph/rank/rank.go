// Package rank tracks user-declared rank constraints as disjoint groups of
// nodes.
//
// Clients of a layered layout can pin nodes to the topmost layer (min), the
// bottommost layer (max), or tie two nodes to the same layer. The registry
// keeps every node in at most one group and merges groups as same-rank
// declarations connect them, rejecting impossible combinations (a node in
// both the min and max layer) at declaration time rather than during layout.
package rank

import (
	"errors"
	"iter"
	"math"

	"github.com/derekdreery/gansner/pkg/graph"
)

var (
	// ErrAlreadyHinted is returned by [Sets.SetMin] and [Sets.SetMax] when
	// the node already belongs to any group. Direct sentinel assignment is
	// one-shot; use SetSame to grow a group.
	ErrAlreadyHinted = errors.New("node already has a rank hint")

	// ErrMinMaxMerge is returned by [Sets.SetSame] when one node sits in the
	// min group and the other in the max group. No layout can satisfy both.
	ErrMinMaxMerge = errors.New("cannot merge min and max rank groups")

	// ErrGroupsExhausted is returned when the group id space overflows.
	// In practice this needs more same-rank groups than the machine has
	// addressable ints, so seeing it indicates a runaway caller.
	ErrGroupsExhausted = errors.New("rank group ids exhausted")
)

// Group identifies a rank-constraint group. Two ids are reserved: [Min] for
// the topmost layer and [Max] for the bottommost. All other ids are
// allocated fresh in increasing order and carry no meaning beyond identity.
type Group int

const (
	// Min is the sentinel group for nodes pinned to the topmost layer.
	Min Group = 0
	// Max is the sentinel group for nodes pinned to the bottommost layer.
	Max Group = math.MaxInt
)

// Sets is a registry of disjoint rank-constraint groups over node handles.
//
// A flat node→group map with linear-scan merge is deliberate: groups are
// small relative to node count, and the flat map keeps Of and iteration
// trivial. Sets is not safe for concurrent use.
type Sets struct {
	groups map[graph.NodeID]Group
	next   Group
}

// NewSets creates an empty registry.
func NewSets() *Sets {
	return &Sets{groups: make(map[graph.NodeID]Group), next: Min + 1}
}

// SetMin pins the node to the topmost layer.
// Returns ErrAlreadyHinted if the node is already in any group.
func (s *Sets) SetMin(n graph.NodeID) error {
	if _, ok := s.groups[n]; ok {
		return ErrAlreadyHinted
	}
	s.groups[n] = Min
	return nil
}

// SetMax pins the node to the bottommost layer.
// Returns ErrAlreadyHinted if the node is already in any group.
func (s *Sets) SetMax(n graph.NodeID) error {
	if _, ok := s.groups[n]; ok {
		return ErrAlreadyHinted
	}
	s.groups[n] = Max
	return nil
}

// SetSame declares that a and b must share a layer.
//
// Neither node grouped: both join a fresh group. Exactly one grouped: the
// other adopts its group. Both grouped: the groups merge, with sentinel
// groups absorbing plain ones so boundary membership is preserved. Merging
// min with max returns ErrMinMaxMerge and changes nothing.
func (s *Sets) SetSame(a, b graph.NodeID) error {
	ga, okA := s.groups[a]
	gb, okB := s.groups[b]
	switch {
	case okA && okB:
		if ga == gb {
			return nil
		}
		if ga > gb {
			ga, gb = gb, ga
		}
		// now ga < gb
		if ga == Min && gb == Max {
			return ErrMinMaxMerge
		}
		if ga == Min {
			s.merge(gb, ga)
		} else {
			// Covers both the gb == Max case and the plain-plain case,
			// where merge direction is semantically symmetric.
			s.merge(ga, gb)
		}
	case okA:
		s.groups[b] = ga
	case okB:
		s.groups[a] = gb
	default:
		g, err := s.fresh()
		if err != nil {
			return err
		}
		s.groups[a] = g
		s.groups[b] = g
	}
	return nil
}

// Of returns the node's group, if it has one.
func (s *Sets) Of(n graph.NodeID) (Group, bool) {
	g, ok := s.groups[n]
	return g, ok
}

// Min iterates over the nodes pinned to the topmost layer, in no particular
// order.
func (s *Sets) Min() iter.Seq[graph.NodeID] { return s.members(Min) }

// Max iterates over the nodes pinned to the bottommost layer, in no
// particular order.
func (s *Sets) Max() iter.Seq[graph.NodeID] { return s.members(Max) }

// Len returns the number of nodes with any rank hint.
func (s *Sets) Len() int { return len(s.groups) }

func (s *Sets) members(g Group) iter.Seq[graph.NodeID] {
	return func(yield func(graph.NodeID) bool) {
		for n, gr := range s.groups {
			if gr == g && !yield(n) {
				return
			}
		}
	}
}

// merge rewrites every entry of group from to group to. O(registry size),
// fine while groups stay small relative to the node count.
func (s *Sets) merge(from, to Group) {
	for n, g := range s.groups {
		if g == from {
			s.groups[n] = to
		}
	}
}

func (s *Sets) fresh() (Group, error) {
	if s.next == Max {
		return 0, ErrGroupsExhausted
	}
	g := s.next
	s.next++
	return g, nil
}
