package retrieval

import (
	"context"

	"github.com/quantgraph/memcore/graphstore"
	"github.com/quantgraph/memcore/model"
)

// discoverySourceOrder is the dedup preference order for companies
// discovered through more than one channel (spec §4.8): primary → filing →
// transcript → news → related → dependent.
var discoverySourceOrder = []string{"primary", "filing", "transcript", "news", "related", "dependent"}

var discoverySourceRank = func() map[string]int {
	m := make(map[string]int, len(discoverySourceOrder))
	for i, s := range discoverySourceOrder {
		m[s] = i
	}
	return m
}()

// CrossTypeSearchOptions configures searchGraphContext.
type CrossTypeSearchOptions struct {
	Limit  int
	Symbol string // when set, uses the company-scoped query variant
}

// DefaultCrossTypeSearchOptions fills in the spec §4.8 default limit.
func DefaultCrossTypeSearchOptions() CrossTypeSearchOptions {
	return CrossTypeSearchOptions{Limit: 10}
}

// DiscoveredCompany is a Company tagged with the channel it was found
// through.
type DiscoveredCompany struct {
	model.Company
	DiscoverySource string
}

// CrossTypeSearchResult is the response shape for searchGraphContext.
type CrossTypeSearchResult struct {
	FilingChunks     []model.ContentNode
	TranscriptChunks []model.ContentNode
	NewsItems        []model.ContentNode
	ExternalEvents   []model.ExternalEvent
	Companies        []DiscoveredCompany
	ExecutionTimeMs  int64
}

// wireCrossTypeResult is the raw shape returned by the backend query, before
// company dedup is applied. No typed-scalar unwrapping happens here: the
// fields decode straight into model structs with plain Go field types, so a
// typed-wrapper value in the response is not unwrapped.
type wireCrossTypeResult struct {
	FilingChunks      []model.ContentNode `json:"filing_chunks"`
	TranscriptChunks  []model.ContentNode `json:"transcript_chunks"`
	NewsItems         []model.ContentNode `json:"news_items"`
	ExternalEvents    []model.ExternalEvent `json:"external_events"`
	FilingCompanies      []model.Company `json:"filing_companies"`
	TranscriptCompanies  []model.Company `json:"transcript_companies"`
	NewsCompanies        []model.Company `json:"news_companies"`
	RelatedCompanies     []model.Company `json:"related_companies"`
	DependentCompanies   []model.Company `json:"dependent_companies"`
	PrimaryCompany       *model.Company  `json:"primary_company,omitempty"`
}

// SearchGraphContext is the C8 single entry point: it searches filings,
// transcripts, news, and (query-mode only) external events, and returns
// companies discovered along the way, deduplicated by symbol with the
// earliest-encountered source preferred (spec §4.8).
func SearchGraphContext(ctx context.Context, c *graphstore.Client, query string, opts CrossTypeSearchOptions) (CrossTypeSearchResult, error) {
	queryName := "SearchGraphContext"
	params := map[string]any{"query": query, "limit": opts.Limit}
	if opts.Symbol != "" {
		queryName = "SearchGraphContextByCompany"
		params["symbol"] = opts.Symbol
	}

	var wire wireCrossTypeResult
	elapsed, err := graphstore.QueryInto(ctx, c, queryName, params, &wire)
	if err != nil {
		return CrossTypeSearchResult{}, err
	}

	type sourced struct {
		company model.Company
		source  string
	}
	var candidates []sourced
	if wire.PrimaryCompany != nil {
		candidates = append(candidates, sourced{*wire.PrimaryCompany, "primary"})
	}
	for _, co := range wire.FilingCompanies {
		candidates = append(candidates, sourced{co, "filing"})
	}
	for _, co := range wire.TranscriptCompanies {
		candidates = append(candidates, sourced{co, "transcript"})
	}
	for _, co := range wire.NewsCompanies {
		candidates = append(candidates, sourced{co, "news"})
	}
	for _, co := range wire.RelatedCompanies {
		candidates = append(candidates, sourced{co, "related"})
	}
	for _, co := range wire.DependentCompanies {
		candidates = append(candidates, sourced{co, "dependent"})
	}

	best := make(map[string]sourced)
	var order []string
	for _, cand := range candidates {
		existing, ok := best[cand.company.Symbol]
		if !ok {
			best[cand.company.Symbol] = cand
			order = append(order, cand.company.Symbol)
			continue
		}
		if discoverySourceRank[cand.source] < discoverySourceRank[existing.source] {
			best[cand.company.Symbol] = cand
		}
	}

	companies := make([]DiscoveredCompany, 0, len(order))
	for _, sym := range order {
		s := best[sym]
		companies = append(companies, DiscoveredCompany{Company: s.company, DiscoverySource: s.source})
	}

	result := CrossTypeSearchResult{
		FilingChunks:     wire.FilingChunks,
		TranscriptChunks: wire.TranscriptChunks,
		NewsItems:        wire.NewsItems,
		Companies:        companies,
		ExecutionTimeMs:  elapsed.Milliseconds(),
	}
	if opts.Symbol == "" {
		result.ExternalEvents = wire.ExternalEvents
	}
	return result, nil
}
