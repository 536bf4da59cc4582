// Package graph implements edge-weight scoring and bounded multi-hop
// traversal over the typed property graph.
package graph

import (
	"sort"
	"time"

	"github.com/quantgraph/memcore/model"
)

// ScoringOptions tunes edge weighting and is threaded through traversal.
type ScoringOptions struct {
	RecencyBoostDays      int
	RecencyBoostMultiplier float64
	HubPenaltyThreshold   int
	HubPenaltyMultiplier  float64
	EdgeWeightThreshold   float64
	EdgeTypeWeights       map[string]float64
	MaxNeighborsPerNode   int
}

// DefaultScoringOptions mirrors the defaults named throughout spec §4.2.
func DefaultScoringOptions() ScoringOptions {
	return ScoringOptions{
		RecencyBoostDays:       30,
		RecencyBoostMultiplier: 1.5,
		HubPenaltyThreshold:    500,
		HubPenaltyMultiplier:   0.5,
		EdgeWeightThreshold:    model.DefaultEdgeWeightThreshold,
		MaxNeighborsPerNode:    50,
	}
}

// edgeWeightFallbackKeys is the property-lookup order for edge types with no
// dedicated weight field (spec §4.2: "weight ?? score ?? strength").
var edgeWeightFallbackKeys = []string{"weight", "score", "strength"}

// typeWeightKeys gives the property key(s), in lookup order, that carry an
// edge's weight for edge types with a dedicated field (spec §3's "Weight
// field" column).
var typeWeightKeys = map[string][]string{
	model.EdgeInfluencedDecision: {"confidence_score", "influence_score"},
	model.EdgeDependsOn:          {"strength"},
	model.EdgeAffectedBy:         {"sensitivity"},
}

// EdgeWeight extracts an edge's weight via the typed rule table, falling
// back to generic weight/score/strength properties for unknown edge types.
// It returns (weight, true) when a value was found, or (0.5, false) when
// undefined — per spec §4.2, an undefined weight is treated as 0.5 for
// priority scoring but still allowed past the threshold filter.
func EdgeWeight(e model.Edge) (float64, bool) {
	if e.Type == model.EdgeMentionedIn {
		if mt, ok := e.Props["mention_type"]; ok {
			if w, ok := model.MentionTypeWeights[model.MentionType(mt.String())]; ok {
				return w, true
			}
		}
	}
	if e.Weight != nil {
		return *e.Weight, true
	}
	keys := typeWeightKeys[e.Type]
	keys = append(append([]string{}, keys...), edgeWeightFallbackKeys...)
	for _, k := range keys {
		if v, ok := e.Props[k]; ok && !v.IsNull() {
			return v.Float64(), true
		}
	}
	return 0.5, false
}

// edgeTimestampKeys is the lookup order for an edge's recency timestamp
// (spec §4.2: "first timestamp present in {created_at, timestamp,
// computed_at, derived_at}").
var edgeTimestampKeys = []string{"created_at", "timestamp", "computed_at", "derived_at"}

func edgeTimestamp(e model.Edge) (time.Time, bool) {
	if e.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			return t, true
		}
	}
	for _, k := range edgeTimestampKeys {
		if v, ok := e.Props[k]; ok && !v.IsNull() {
			if t, err := time.Parse(time.RFC3339, v.String()); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// RecencyBoost computes the recency multiplier for an edge as of now.
func RecencyBoost(e model.Edge, now time.Time, opts ScoringOptions) float64 {
	t, ok := edgeTimestamp(e)
	if !ok {
		return 1.0
	}
	if now.Sub(t) <= time.Duration(opts.RecencyBoostDays)*24*time.Hour {
		return opts.RecencyBoostMultiplier
	}
	return 1.0
}

// HubPenalty computes the hub-penalty multiplier for a target node given
// its total degree.
func HubPenalty(targetDegree int, opts ScoringOptions) float64 {
	if targetDegree > opts.HubPenaltyThreshold {
		return opts.HubPenaltyMultiplier
	}
	return 1.0
}

// Priority computes the composite priority of an edge: weight × recency ×
// hub penalty (spec §4.2).
func Priority(e model.Edge, targetDegree int, now time.Time, opts ScoringOptions) float64 {
	w, _ := EdgeWeight(e)
	return w * RecencyBoost(e, now, opts) * HubPenalty(targetDegree, opts)
}

// threshold returns the follow-threshold for an edge type: per-call
// override, then the spec default table, then the caller's generic
// default.
func threshold(edgeType string, opts ScoringOptions) float64 {
	if opts.EdgeTypeWeights != nil {
		if v, ok := opts.EdgeTypeWeights[edgeType]; ok {
			return v
		}
	}
	if v, ok := model.EdgeTypeThresholds[edgeType]; ok {
		return v
	}
	return opts.EdgeWeightThreshold
}

// ShouldFollow reports whether an edge passes the per-type weight
// threshold filter. An undefined weight always passes (spec §4.2).
func ShouldFollow(e model.Edge, opts ScoringOptions) bool {
	w, defined := EdgeWeight(e)
	if !defined {
		return true
	}
	return w >= threshold(e.Type, opts)
}

// ScoredEdge pairs an edge with its computed priority and the degree of
// its target node.
type ScoredEdge struct {
	Edge        model.Edge
	Priority    float64
	TargetDeg   int
}

// RankNeighbors filters edges by ShouldFollow, scores the survivors by
// Priority, sorts descending, and truncates to MaxNeighborsPerNode.
func RankNeighbors(edges []model.Edge, degree func(nodeID string) int, now time.Time, opts ScoringOptions) []ScoredEdge {
	var scored []ScoredEdge
	for _, e := range edges {
		if !ShouldFollow(e, opts) {
			continue
		}
		deg := degree(e.TargetID)
		scored = append(scored, ScoredEdge{
			Edge:      e,
			Priority:  Priority(e, deg, now, opts),
			TargetDeg: deg,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})
	max := opts.MaxNeighborsPerNode
	if max <= 0 {
		max = 50
	}
	if len(scored) > max {
		scored = scored[:max]
	}
	return scored
}
