package graph

import (
	"context"
	"fmt"

	"github.com/quantgraph/memcore/graphstore"
)

// VectorSearchOptions is the input contract for C3 (spec §4.3).
type VectorSearchOptions struct {
	Embedding     []float32
	TopK          int
	MinSimilarity float64
	NodeType      string
	Filters       map[string]any
}

// DefaultVectorSearchOptions fills in spec defaults.
func DefaultVectorSearchOptions() VectorSearchOptions {
	return VectorSearchOptions{TopK: 10, MinSimilarity: 0.0}
}

// VectorResult is one ranked hit from a similarity search.
type VectorResult struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Similarity float64        `json:"similarity"`
}

// VectorSearchResult is the full response shape for C3.
type VectorSearchResult struct {
	Results          []VectorResult `json:"results"`
	ExecutionTimeMs  int64          `json:"execution_time_ms"`
	Count            int            `json:"count"`
}

// VectorSearch runs a similarity search against the store's vectorSearch
// named query. A non-positive TopK or an empty embedding is an
// INVALID_QUERY condition per spec §4.3, surfaced without a round trip.
func VectorSearch(ctx context.Context, c *graphstore.Client, opts VectorSearchOptions) (VectorSearchResult, error) {
	if opts.TopK <= 0 {
		return VectorSearchResult{}, &graphstore.StoreError{Kind: graphstore.ErrKindInvalidQuery, Query: "vectorSearch", Err: fmt.Errorf("topK must be positive, got %d", opts.TopK)}
	}
	if len(opts.Embedding) == 0 {
		return VectorSearchResult{}, &graphstore.StoreError{Kind: graphstore.ErrKindInvalidQuery, Query: "vectorSearch", Err: fmt.Errorf("embedding must not be empty")}
	}

	params := map[string]any{
		"embedding":     opts.Embedding,
		"topK":          opts.TopK,
		"minSimilarity": opts.MinSimilarity,
	}
	if opts.NodeType != "" {
		params["nodeType"] = opts.NodeType
	}
	for k, v := range opts.Filters {
		params[k] = v
	}

	var out VectorSearchResult
	elapsed, err := graphstore.QueryInto(ctx, c, "vectorSearch", params, &out)
	if err != nil {
		return VectorSearchResult{}, err
	}
	out.ExecutionTimeMs = elapsed.Milliseconds()
	out.Count = len(out.Results)
	return out, nil
}
