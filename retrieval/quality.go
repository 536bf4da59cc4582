package retrieval

import "context"

// QualityOptions configures the quality heuristic and corrective pass
// (spec §4.6).
type QualityOptions struct {
	MinResults         int
	MinTopScore        float64
	CorrectiveEnabled  bool
	BroadenTopKFactor  float64
	BroadenMinSimFactor float64
}

// DefaultQualityOptions mirrors the spec's heuristic defaults: too few
// items, or a top score below a usable floor, flags correction.
func DefaultQualityOptions() QualityOptions {
	return QualityOptions{
		MinResults:          3,
		MinTopScore:         0.3,
		CorrectiveEnabled:   true,
		BroadenTopKFactor:   3.0,
		BroadenMinSimFactor: 0.7,
	}
}

// Quality summarizes the quality assessment of a fused result set.
type Quality struct {
	Correctable      bool
	CorrectionApplied bool
	TopScore         float64
	Count            int
}

// assessQuality applies the quality heuristic to a fused result set: it is
// "correctable" when there are too few items or the top score is below the
// configured floor (spec §4.6).
func assessQuality(fused []FusedResult, opts QualityOptions) Quality {
	q := Quality{Count: len(fused)}
	if len(fused) > 0 {
		q.TopScore = fused[0].RRF
	}
	q.Correctable = len(fused) < opts.MinResults || q.TopScore < opts.MinTopScore
	return q
}

// VectorSearcher is the minimal contract the corrective pass needs: a
// broadened vector-only search producing a ranked list by node ID.
type VectorSearcher func(ctx context.Context, topK int, minSimilarity float64) ([]RankedItem, error)

// CorrectiveRetrieve re-issues the vector search with topK·3 and
// minSimilarity·0.7 when the prior result is correctable; if the broadened
// result count strictly exceeds the prior fused count, the fused result is
// replaced by a vector-only RRF over the broadened set and
// correction_applied is set (spec §4.6).
func CorrectiveRetrieve(ctx context.Context, prior []FusedResult, priorTopK int, priorMinSim float64, search VectorSearcher, opts QualityOptions) ([]FusedResult, Quality, error) {
	q := assessQuality(prior, opts)
	if !opts.CorrectiveEnabled || !q.Correctable {
		return prior, q, nil
	}

	broadened, err := search(ctx, int(float64(priorTopK)*opts.BroadenTopKFactor), priorMinSim*opts.BroadenMinSimFactor)
	if err != nil {
		return prior, q, err
	}

	if len(broadened) <= len(prior) {
		return prior, q, nil
	}

	fused := FuseRRF([]RankedList{{Name: "vector", Items: broadened}}, DefaultRRFK, priorTopK)
	q.CorrectionApplied = true
	q.Count = len(fused)
	if len(fused) > 0 {
		q.TopScore = fused[0].RRF
	}
	return fused, q, nil
}
