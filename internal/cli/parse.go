package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/derekdreery/gansner/pkg/graph"
	"github.com/derekdreery/gansner/pkg/layered"
)

// graphFile is the TOML graph description format:
//
//	[[nodes]]
//	id = "app"
//	width = 120
//	height = 40
//
//	[[edges]]
//	from = "app"
//	to = "core"
//	min_len = 2    # optional, default 1
//	weight = 0.5   # optional, default 1
//
//	[rank]
//	min = ["app"]
//	max = ["leaf"]
//	same = [["auth", "metrics"]]
type graphFile struct {
	Nodes []nodeDef `toml:"nodes"`
	Edges []edgeDef `toml:"edges"`
	Rank  rankDef   `toml:"rank"`
}

type nodeDef struct {
	ID     string  `toml:"id"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type edgeDef struct {
	From string `toml:"from"`
	To   string `toml:"to"`
	// Pointers distinguish "absent" from an explicit zero.
	MinLen *int     `toml:"min_len"`
	Weight *float64 `toml:"weight"`
}

type rankDef struct {
	Min  []string   `toml:"min"`
	Max  []string   `toml:"max"`
	Same [][]string `toml:"same"`
}

// loadGraphFile reads and decodes a TOML graph description.
func loadGraphFile(path string) (*graphFile, error) {
	var f graphFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &f, nil
}

// buildGraph converts a decoded description into a layout graph. Node
// payloads are the description ids, so results can be printed by name.
func buildGraph(f *graphFile) (*layered.Graph, error) {
	g := layered.NewWithCapacity(len(f.Nodes), len(f.Edges))
	handles := make(map[string]graph.NodeID, len(f.Nodes))

	for i, n := range f.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("nodes[%d]: id must not be empty", i)
		}
		if _, exists := handles[n.ID]; exists {
			return nil, fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID)
		}
		handles[n.ID] = g.AddNode(n.ID, graph.Size{Width: n.Width, Height: n.Height})
	}

	for i, e := range f.Edges {
		from, ok := handles[e.From]
		if !ok {
			return nil, fmt.Errorf("edges[%d]: unknown node %q", i, e.From)
		}
		to, ok := handles[e.To]
		if !ok {
			return nil, fmt.Errorf("edges[%d]: unknown node %q", i, e.To)
		}
		minLen, weight := 1, 1.0
		if e.MinLen != nil {
			minLen = *e.MinLen
		}
		if e.Weight != nil {
			weight = *e.Weight
		}
		if _, err := g.AddEdgeWithOptions(from, to, minLen, weight); err != nil {
			return nil, fmt.Errorf("edges[%d] %s->%s: %w", i, e.From, e.To, err)
		}
	}

	lookup := func(field, id string) (graph.NodeID, error) {
		h, ok := handles[id]
		if !ok {
			return 0, fmt.Errorf("rank.%s: unknown node %q", field, id)
		}
		return h, nil
	}
	for _, id := range f.Rank.Min {
		h, err := lookup("min", id)
		if err != nil {
			return nil, err
		}
		if err := g.SetRankMin(h); err != nil {
			return nil, fmt.Errorf("rank.min %q: %w", id, err)
		}
	}
	for _, id := range f.Rank.Max {
		h, err := lookup("max", id)
		if err != nil {
			return nil, err
		}
		if err := g.SetRankMax(h); err != nil {
			return nil, fmt.Errorf("rank.max %q: %w", id, err)
		}
	}
	for i, group := range f.Rank.Same {
		if len(group) < 2 {
			return nil, fmt.Errorf("rank.same[%d]: need at least two nodes", i)
		}
		first, err := lookup("same", group[0])
		if err != nil {
			return nil, err
		}
		for _, id := range group[1:] {
			h, err := lookup("same", id)
			if err != nil {
				return nil, err
			}
			if err := g.SetRankSame(first, h); err != nil {
				return nil, fmt.Errorf("rank.same[%d] %q: %w", i, id, err)
			}
		}
	}

	return g, nil
}
