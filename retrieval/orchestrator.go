package retrieval

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/quantgraph/memcore/graph"
	"github.com/quantgraph/memcore/graphstore"
	"github.com/quantgraph/memcore/model"
)

// RetrievalOptions configures retrieveTradeMemories (spec §4.7).
type RetrievalOptions struct {
	TopK                 int
	MinSimilarity        float64
	EnableGraphTraversal bool
	Quality              QualityOptions
}

// DefaultRetrievalOptions fills in spec defaults.
func DefaultRetrievalOptions() RetrievalOptions {
	return RetrievalOptions{
		TopK:                 10,
		MinSimilarity:        0.0,
		EnableGraphTraversal: true,
		Quality:              DefaultQualityOptions(),
	}
}

// TimingBreakdown records per-phase wall-clock cost.
type TimingBreakdown struct {
	VectorSearchMs   int64
	GraphTraversalMs int64
	TotalMs          int64
}

// TradeMemory pairs a retrieved decision with its fusion provenance and any
// events discovered to have influenced it.
type TradeMemory struct {
	Decision          model.TradeDecision
	Fusion            FusedResult
	InfluencingEvents []string // ExternalEvent node IDs, from the 1-hop enrichment pass
}

// Statistics summarizes realized outcomes across the returned decisions
// (spec §4.7 step 7).
type Statistics struct {
	OutcomeCount        int
	WinRate             float64
	AvgReturn           float64
	AvgHoldingTimeHours float64
	ActionDistribution  map[model.TradeAction]int
}

// TradeMemoryRetrievalResult is the full response of retrieveTradeMemories.
type TradeMemoryRetrievalResult struct {
	Memories          []TradeMemory
	Statistics        Statistics
	Quality           Quality
	Timing            TimingBreakdown
	CorrectionApplied bool
}

// RetrieveTradeMemories runs the retrieval orchestrator: vector search
// scoped by hard filters, optional graph traversal, RRF fusion, quality
// assessment with an optional corrective pass, influencing-event
// enrichment, and outcome statistics (spec §4.7).
func RetrieveTradeMemories(ctx context.Context, c *graphstore.Client, embedding []float32, snapshot Snapshot, opts RetrievalOptions) (TradeMemoryRetrievalResult, error) {
	start := time.Now()

	hardFilters := map[string]any{"regime_label": snapshot.RegimeLabel}
	if snapshot.UnderlyingSymbol != "" {
		hardFilters["underlying_symbol"] = snapshot.UnderlyingSymbol
	} else {
		hardFilters["instrument_id"] = snapshot.InstrumentID
	}

	vecStart := time.Now()
	vecRes, err := graph.VectorSearch(ctx, c, graph.VectorSearchOptions{
		Embedding:     embedding,
		TopK:          opts.TopK * 2,
		MinSimilarity: opts.MinSimilarity,
		NodeType:      model.NodeTradeDecision,
		Filters:       hardFilters,
	})
	if err != nil {
		return TradeMemoryRetrievalResult{}, err
	}
	vectorSearchMs := time.Since(vecStart).Milliseconds()

	vecItems := make([]RankedItem, len(vecRes.Results))
	decisionsByID := make(map[string]model.TradeDecision, len(vecRes.Results))
	for i, r := range vecRes.Results {
		vecItems[i] = RankedItem{ID: r.ID, Score: r.Similarity}
		if d, ok := decodeDecision(r); ok {
			decisionsByID[r.ID] = d
		}
	}

	lists := []RankedList{{Name: "vector", Items: vecItems}}

	var graphTraversalMs int64
	if opts.EnableGraphTraversal && len(vecItems) > 0 {
		graphStart := time.Now()
		var graphItems []RankedItem
		for _, v := range vecItems {
			tr, err := graph.Traverse(ctx, c, graph.TraversalOptions{
				StartNodeID: v.ID,
				MaxDepth:    1,
				Limit:       20,
				EdgeTypes:   []string{model.EdgeInfluencedDecision},
				Direction:   model.DirectionIncoming,
				TimeoutMs:   1000,
				Scoring:     graph.DefaultScoringOptions(),
			})
			if err != nil {
				slog.Warn("retrieval: graph traversal failed", "node", v.ID, "error", err)
				continue
			}
			for rank, n := range tr.Nodes {
				graphItems = append(graphItems, RankedItem{ID: n, Score: 1.0 / float64(rank+1)})
			}
		}
		graphTraversalMs = time.Since(graphStart).Milliseconds()
		if len(graphItems) > 0 {
			lists = append(lists, RankedList{Name: "graph", Items: graphItems})
		}
	}

	fused := FuseRRF(lists, DefaultRRFK, opts.TopK)

	quality := assessQuality(fused, opts.Quality)
	correctionApplied := false
	if opts.Quality.CorrectiveEnabled && quality.Correctable {
		broadenedSearch := func(ctx context.Context, topK int, minSim float64) ([]RankedItem, error) {
			res, err := graph.VectorSearch(ctx, c, graph.VectorSearchOptions{
				Embedding:     embedding,
				TopK:          topK,
				MinSimilarity: minSim,
				NodeType:      model.NodeTradeDecision,
				Filters:       hardFilters,
			})
			if err != nil {
				return nil, err
			}
			items := make([]RankedItem, len(res.Results))
			for i, r := range res.Results {
				items[i] = RankedItem{ID: r.ID, Score: r.Similarity}
				if d, ok := decodeDecision(r); ok {
					decisionsByID[r.ID] = d
				}
			}
			return items, nil
		}
		corrected, q, err := CorrectiveRetrieve(ctx, fused, opts.TopK, opts.MinSimilarity, broadenedSearch, opts.Quality)
		if err != nil {
			return TradeMemoryRetrievalResult{}, err
		}
		fused = corrected
		quality = q
		correctionApplied = q.CorrectionApplied
	}

	memories := make([]TradeMemory, 0, len(fused))
	var decisions []model.TradeDecision
	for _, fr := range fused {
		decision, ok := decisionsByID[fr.ID]
		if !ok {
			continue
		}
		mem := TradeMemory{Decision: decision, Fusion: fr}
		if opts.EnableGraphTraversal {
			tr, err := graph.Traverse(ctx, c, graph.TraversalOptions{
				StartNodeID: decision.DecisionID,
				MaxDepth:    1,
				Limit:       10,
				EdgeTypes:   []string{model.EdgeInfluencedDecision},
				Direction:   model.DirectionIncoming,
				TimeoutMs:   1000,
				Scoring:     graph.DefaultScoringOptions(),
			})
			if err == nil {
				for _, n := range tr.Nodes {
					if n != decision.DecisionID {
						mem.InfluencingEvents = append(mem.InfluencingEvents, n)
					}
				}
			}
		}
		memories = append(memories, mem)
		decisions = append(decisions, decision)
	}

	stats := computeStatistics(decisions)

	return TradeMemoryRetrievalResult{
		Memories:   memories,
		Statistics: stats,
		Quality:    quality,
		Timing: TimingBreakdown{
			VectorSearchMs:   vectorSearchMs,
			GraphTraversalMs: graphTraversalMs,
			TotalMs:          time.Since(start).Milliseconds(),
		},
		CorrectionApplied: correctionApplied,
	}, nil
}

// decodeDecision decodes a vector-search hit's generic property bag into a
// TradeDecision. A hit whose properties don't round-trip into the expected
// shape is skipped rather than failing the whole retrieval.
func decodeDecision(r graph.VectorResult) (model.TradeDecision, bool) {
	raw, err := json.Marshal(r.Properties)
	if err != nil {
		return model.TradeDecision{}, false
	}
	var d model.TradeDecision
	if err := json.Unmarshal(raw, &d); err != nil {
		return model.TradeDecision{}, false
	}
	if d.DecisionID == "" {
		d.DecisionID = r.ID
	}
	return d, true
}

// computeStatistics implements spec §4.7 step 7: parse each decision's
// realized_outcome (ignoring malformed ones), then derive win rate, average
// return, average holding time, and the action histogram.
func computeStatistics(decisions []model.TradeDecision) Statistics {
	stats := Statistics{ActionDistribution: make(map[model.TradeAction]int)}

	var wins int
	var returnSum, holdingSum float64
	var returnCount, holdingCount int

	for _, d := range decisions {
		stats.ActionDistribution[d.Action]++

		outcome, ok := model.ParseRealizedOutcome(d.RealizedOutcomeRaw)
		if !ok {
			continue
		}
		stats.OutcomeCount++
		if outcome.PnL != nil && *outcome.PnL > 0 {
			wins++
		}
		if outcome.ReturnPct != nil {
			returnSum += *outcome.ReturnPct
			returnCount++
		}
		if outcome.HoldingHours != nil {
			holdingSum += *outcome.HoldingHours
			holdingCount++
		}
	}

	if stats.OutcomeCount > 0 {
		stats.WinRate = float64(wins) / float64(stats.OutcomeCount)
	}
	if returnCount > 0 {
		stats.AvgReturn = returnSum / float64(returnCount)
	}
	if holdingCount > 0 {
		stats.AvgHoldingTimeHours = holdingSum / float64(holdingCount)
	}

	return stats
}
