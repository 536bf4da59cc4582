// Package retrieval implements Reciprocal Rank Fusion, quality assessment,
// corrective retrieval, and the trade-memory retrieval orchestrator.
package retrieval

import "sort"

// DefaultRRFK is the standard RRF constant from the literature.
const DefaultRRFK = 60

// RankedItem is one entry of a ranked input list: an opaque node ID with
// its original score under that list's ranking method.
type RankedItem struct {
	ID    string
	Score float64
}

// RankedList is one named, already-ranked input to fusion (e.g. "vector",
// "fts", "graph"). Items must already be sorted best-first.
type RankedList struct {
	Name  string
	Items []RankedItem
}

// FusedResult is one node's fused outcome: its combined RRF score, the
// source lists it appeared in (iteration order of first encounter), its
// 1-based rank in each contributing list, and each list's original score.
type FusedResult struct {
	ID      string
	RRF     float64
	Sources []string
	Ranks   map[string]int
	Scores  map[string]float64
}

// FuseRRF combines any number of ranked lists into one fused ranking via
// Reciprocal Rank Fusion: rrf(id) = Σᵢ 1/(k + rankᵢ(id)), where rankᵢ(id)
// is the 1-based position of id in list i (absent lists contribute 0). The
// result is sorted by RRF descending, ties broken by first-encountered
// order across the input lists (spec §4.5, S4), then truncated to topK.
func FuseRRF(lists []RankedList, k int, topK int) []FusedResult {
	if k <= 0 {
		k = DefaultRRFK
	}

	order := make(map[string]int)
	fused := make(map[string]*FusedResult)
	nextOrder := 0

	for _, list := range lists {
		for i, item := range list.Items {
			rank := i + 1
			fr, ok := fused[item.ID]
			if !ok {
				fr = &FusedResult{
					ID:     item.ID,
					Ranks:  make(map[string]int),
					Scores: make(map[string]float64),
				}
				fused[item.ID] = fr
				order[item.ID] = nextOrder
				nextOrder++
			}
			fr.RRF += 1.0 / float64(k+rank)
			fr.Sources = append(fr.Sources, list.Name)
			fr.Ranks[list.Name] = rank
			fr.Scores[list.Name] = item.Score
		}
	}

	results := make([]FusedResult, 0, len(fused))
	for _, fr := range fused {
		results = append(results, *fr)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RRF != results[j].RRF {
			return results[i].RRF > results[j].RRF
		}
		return order[results[i].ID] < order[results[j].ID]
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
