package graph

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/quantgraph/memcore/model"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func w(v float64) *float64 { return &v }

// TestEdgePriorityScenario checks S2: INFLUENCED_DECISION with
// confidence_score=0.7, created_at=now-10d, target degree 10 vs 600.
func TestEdgePriorityScenario(t *testing.T) {
	now := time.Now()
	created := now.Add(-10 * 24 * time.Hour).Format(time.RFC3339)
	e := model.Edge{
		Type:      model.EdgeInfluencedDecision,
		Timestamp: created,
		Props: map[string]model.Scalar{
			"confidence_score": mustScalar(t, `0.7`),
		},
	}
	opts := DefaultScoringOptions()

	p1 := Priority(e, 10, now, opts)
	if !approxEqual(p1, 1.05, 1e-9) {
		t.Errorf("priority with degree 10 = %v, want 1.05", p1)
	}

	p2 := Priority(e, 600, now, opts)
	if !approxEqual(p2, 0.525, 1e-9) {
		t.Errorf("priority with degree 600 = %v, want 0.525", p2)
	}
}

// TestPriorityStabilityInvariant checks invariant 3: with zeroed recency
// and hub options, priority equals the raw weight.
func TestPriorityStabilityInvariant(t *testing.T) {
	e := model.Edge{Type: model.EdgeDependsOn, Weight: w(0.42)}
	opts := ScoringOptions{
		RecencyBoostMultiplier: 1.0,
		HubPenaltyMultiplier:   1.0,
		HubPenaltyThreshold:    0,
		MaxNeighborsPerNode:    50,
	}
	got := Priority(e, 1000, time.Now(), opts)
	if !approxEqual(got, 0.42, 1e-9) {
		t.Errorf("priority = %v, want 0.42", got)
	}
}

func TestEdgeWeightFallback(t *testing.T) {
	e := model.Edge{
		Type: model.EdgeRelatedTo,
		Props: map[string]model.Scalar{
			"strength": mustScalar(t, `0.6`),
		},
	}
	got, ok := EdgeWeight(e)
	if !ok || !approxEqual(got, 0.6, 1e-9) {
		t.Errorf("EdgeWeight = %v, %v, want 0.6, true", got, ok)
	}
}

func TestEdgeWeightUndefinedPassesThreshold(t *testing.T) {
	e := model.Edge{Type: model.EdgeRelatedTo}
	got, ok := EdgeWeight(e)
	if ok {
		t.Errorf("expected undefined weight, got %v", got)
	}
	if got != 0.5 {
		t.Errorf("expected fallback 0.5, got %v", got)
	}
	if !ShouldFollow(e, DefaultScoringOptions()) {
		t.Error("undefined weight should pass the threshold filter")
	}
}

func TestMentionedInWeightFromType(t *testing.T) {
	e := model.Edge{
		Type: model.EdgeMentionedIn,
		Props: map[string]model.Scalar{
			"mention_type": mustScalar(t, `"SECONDARY"`),
		},
	}
	got, ok := EdgeWeight(e)
	if !ok || !approxEqual(got, 0.7, 1e-9) {
		t.Errorf("EdgeWeight = %v, %v, want 0.7, true", got, ok)
	}
}

func TestShouldFollowThreshold(t *testing.T) {
	opts := DefaultScoringOptions()
	below := model.Edge{Type: model.EdgeInfluencedDecision, Weight: w(0.5)}
	if ShouldFollow(below, opts) {
		t.Error("0.5 < threshold 0.6 for INFLUENCED_DECISION, should not follow")
	}
	above := model.Edge{Type: model.EdgeInfluencedDecision, Weight: w(0.65)}
	if !ShouldFollow(above, opts) {
		t.Error("0.65 >= threshold 0.6, should follow")
	}
}

func TestRankNeighborsTruncatesAndSorts(t *testing.T) {
	opts := DefaultScoringOptions()
	opts.MaxNeighborsPerNode = 2
	edges := []model.Edge{
		{Type: model.EdgeRelatedTo, TargetID: "a", Weight: w(0.4)},
		{Type: model.EdgeRelatedTo, TargetID: "b", Weight: w(0.9)},
		{Type: model.EdgeRelatedTo, TargetID: "c", Weight: w(0.6)},
	}
	ranked := RankNeighbors(edges, func(string) int { return 0 }, time.Now(), opts)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 neighbors after truncation, got %d", len(ranked))
	}
	if ranked[0].Edge.TargetID != "b" || ranked[1].Edge.TargetID != "c" {
		t.Errorf("expected order [b, c], got [%s, %s]", ranked[0].Edge.TargetID, ranked[1].Edge.TargetID)
	}
}

func mustScalar(t *testing.T, jsonLit string) model.Scalar {
	t.Helper()
	var s model.Scalar
	if err := json.Unmarshal([]byte(jsonLit), &s); err != nil {
		t.Fatal(err)
	}
	return s
}
