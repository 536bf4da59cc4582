package graph

import (
	"context"
	"time"

	"github.com/quantgraph/memcore/graphstore"
	"github.com/quantgraph/memcore/model"
)

// TraversalOptions is the input contract for C4 (spec §4.4).
type TraversalOptions struct {
	StartNodeID string
	MaxDepth    int
	Limit       int
	EdgeTypes   []string // empty = all
	Direction   model.Direction
	TimeoutMs   int
	Scoring     ScoringOptions
}

// DefaultTraversalOptions fills in spec §4.4 defaults.
func DefaultTraversalOptions(startNodeID string) TraversalOptions {
	return TraversalOptions{
		StartNodeID: startNodeID,
		MaxDepth:    2,
		Limit:       100,
		Direction:   model.DirectionBoth,
		TimeoutMs:   1000,
		Scoring:     DefaultScoringOptions(),
	}
}

// Path is one discovered traversal path.
type Path struct {
	Nodes  []string     `json:"nodes"`
	Edges  []model.Edge `json:"edges"`
	Length int          `json:"length"`
}

// TraversalResult is the full response shape for C4.
type TraversalResult struct {
	Paths           []Path   `json:"paths"`
	Nodes           []string `json:"nodes"`
	ExecutionTimeMs int64    `json:"execution_time_ms"`
}

// neighborResponse is the wire shape of a one-hop "traverse" query: the
// frontier node's candidate edges plus the total degree of each edge's
// target, needed for hub-penalty scoring without a second round trip.
type neighborResponse struct {
	Edges         []model.Edge   `json:"edges"`
	TargetDegrees map[string]int `json:"target_degrees"`
}

func fetchNeighbors(ctx context.Context, c *graphstore.Client, nodeID string, opts TraversalOptions) (neighborResponse, error) {
	params := map[string]any{
		"nodeId":    nodeID,
		"direction": string(opts.Direction),
	}
	if len(opts.EdgeTypes) > 0 {
		params["edgeTypes"] = opts.EdgeTypes
	}
	var out neighborResponse
	_, err := graphstore.QueryInto(ctx, c, "traverse", params, &out)
	return out, err
}

// edgeKey identifies an edge for path-prefix deduplication (spec §4.4).
func edgeKey(e model.Edge) string {
	return e.SourceID + "\x00" + e.TargetID + "\x00" + e.Type
}

// Traverse performs bounded BFS from StartNodeID, expanding at most
// MaxNeighborsPerNode prioritized edges per frontier node, stopping at
// MaxDepth, Limit total path results, or TimeoutMs — whichever comes
// first.
func Traverse(ctx context.Context, c *graphstore.Client, opts TraversalOptions) (TraversalResult, error) {
	if opts.StartNodeID == "" {
		return TraversalResult{}, nil
	}
	deadline := time.Now().Add(time.Duration(opts.TimeoutMs) * time.Millisecond)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	now := time.Now()
	visitedNodes := map[string]bool{opts.StartNodeID: true}
	seenEdges := map[string]bool{}

	type frontierEntry struct {
		path Path
	}
	frontier := []frontierEntry{{path: Path{Nodes: []string{opts.StartNodeID}}}}

	var paths []Path

	for depth := 0; depth < opts.MaxDepth && len(frontier) > 0; depth++ {
		if time.Now().After(deadline) {
			break
		}
		var nextFrontier []frontierEntry
		for _, fe := range frontier {
			if len(paths) >= opts.Limit || time.Now().After(deadline) {
				break
			}
			current := fe.path.Nodes[len(fe.path.Nodes)-1]
			resp, err := fetchNeighbors(ctx, c, current, opts)
			if err != nil {
				if serr, ok := err.(*graphstore.StoreError); ok && serr.Kind == graphstore.ErrKindNotFound {
					continue
				}
				return TraversalResult{}, err
			}

			degree := func(id string) int { return resp.TargetDegrees[id] }
			ranked := RankNeighbors(resp.Edges, degree, now, opts.Scoring)

			for _, se := range ranked {
				if len(paths) >= opts.Limit {
					break
				}
				ek := edgeKey(se.Edge)
				if seenEdges[ek] {
					continue
				}
				seenEdges[ek] = true

				newPath := Path{
					Nodes: append(append([]string{}, fe.path.Nodes...), se.Edge.TargetID),
					Edges: append(append([]model.Edge{}, fe.path.Edges...), se.Edge),
				}
				newPath.Length = len(newPath.Edges)
				paths = append(paths, newPath)
				visitedNodes[se.Edge.TargetID] = true
				nextFrontier = append(nextFrontier, frontierEntry{path: newPath})
			}
		}
		frontier = nextFrontier
	}

	nodes := make([]string, 0, len(visitedNodes))
	for n := range visitedNodes {
		nodes = append(nodes, n)
	}

	return TraversalResult{
		Paths:           paths,
		Nodes:           nodes,
		ExecutionTimeMs: time.Since(now).Milliseconds(),
	}, nil
}
