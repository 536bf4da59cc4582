package retrieval

import (
	"context"
	"testing"
)

func TestAssessQualityFlagsTooFewResults(t *testing.T) {
	opts := DefaultQualityOptions()
	fused := []FusedResult{{ID: "a", RRF: 0.9}}
	q := assessQuality(fused, opts)
	if !q.Correctable {
		t.Error("expected correctable with only 1 result (min 3)")
	}
}

func TestAssessQualityFlagsLowTopScore(t *testing.T) {
	opts := DefaultQualityOptions()
	fused := []FusedResult{{ID: "a", RRF: 0.01}, {ID: "b", RRF: 0.009}, {ID: "c", RRF: 0.008}}
	q := assessQuality(fused, opts)
	if !q.Correctable {
		t.Error("expected correctable with top score below floor")
	}
}

func TestAssessQualityPasses(t *testing.T) {
	opts := DefaultQualityOptions()
	fused := []FusedResult{{ID: "a", RRF: 0.9}, {ID: "b", RRF: 0.8}, {ID: "c", RRF: 0.5}}
	q := assessQuality(fused, opts)
	if q.Correctable {
		t.Error("expected not correctable")
	}
}

func TestCorrectiveRetrieveAppliesWhenBroadenedSetIsLarger(t *testing.T) {
	prior := []FusedResult{{ID: "a", RRF: 0.01}}
	opts := DefaultQualityOptions()

	search := func(ctx context.Context, topK int, minSim float64) ([]RankedItem, error) {
		return []RankedItem{{ID: "a", Score: 0.5}, {ID: "b", Score: 0.4}, {ID: "c", Score: 0.3}}, nil
	}

	fused, q, err := CorrectiveRetrieve(context.Background(), prior, 10, 0.5, search, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.CorrectionApplied {
		t.Error("expected correction applied")
	}
	if len(fused) != 3 {
		t.Errorf("expected 3 fused results after correction, got %d", len(fused))
	}
}

func TestCorrectiveRetrieveSkipsWhenNotCorrectable(t *testing.T) {
	prior := []FusedResult{{ID: "a", RRF: 0.9}, {ID: "b", RRF: 0.8}, {ID: "c", RRF: 0.7}}
	opts := DefaultQualityOptions()

	called := false
	search := func(ctx context.Context, topK int, minSim float64) ([]RankedItem, error) {
		called = true
		return nil, nil
	}

	fused, q, err := CorrectiveRetrieve(context.Background(), prior, 10, 0.5, search, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("search should not have been called when result is not correctable")
	}
	if q.CorrectionApplied {
		t.Error("did not expect correction applied")
	}
	if len(fused) != len(prior) {
		t.Errorf("expected unchanged result set, got %d", len(fused))
	}
}
