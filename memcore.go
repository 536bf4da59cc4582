package memcore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/quantgraph/memcore/export"
	"github.com/quantgraph/memcore/graphstore"
	"github.com/quantgraph/memcore/ingestion"
	"github.com/quantgraph/memcore/model"
)

// Engine is the main entry point for the retrieval and validation core: it
// owns the one graph-store connection and exposes the ingestion,
// retrieval, and export operations built on top of it.
type Engine struct {
	cfg    Config
	Store  *graphstore.Client
	ingest *storeAdapter
}

// New constructs an Engine from cfg. The underlying graphstore.Client
// establishes its HTTP client eagerly but defers the first real network
// round trip to the first query (spec §4.1, §9).
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := graphstore.New(cfg.GraphStore)
	return &Engine{
		cfg:    cfg,
		Store:  client,
		ingest: &storeAdapter{client: client},
	}, nil
}

// Close shuts down the engine's graph-store connection, dropping any
// in-flight retry backoff.
func (e *Engine) Close() error {
	return e.Store.Close()
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// ExportSource exposes the engine's store adapter as an export.Source /
// export.Sink for the export and import operations (spec §4.12).
func (e *Engine) ExportSource() *storeAdapter {
	return e.ingest
}

// Ingest runs the common ingestion contract (spec §4.9) against the
// engine's graph store.
func (e *Engine) Ingest(ctx context.Context, records []ingestion.Record, opts ingestion.Options) (ingestion.IngestionResult, error) {
	return ingestion.Ingest(ctx, e.ingest, records, opts)
}

// storeAdapter implements ingestion.Store and export.Source/export.Sink on
// top of a graphstore.Client, translating the generic ingestion/export
// contracts into the named queries listed in spec §6. IDs the caller
// leaves blank are minted with uuid.NewString() before the upsert, since
// most node/edge IDs are caller-supplied and this is purely a fallback
// (SPEC_FULL.md §2.1 DOMAIN STACK).
type storeAdapter struct {
	client *graphstore.Client
}

// upsertQueryForType maps a node type to its named upsert query (spec §6).
var upsertQueryForType = map[string]string{
	model.NodeTradeDecision:   "upsertTradeDecision",
	model.NodeExternalEvent:   "upsertExternalEvent",
	model.NodeMacroEntity:     "upsertMacroEntity",
	model.NodeIndicator:       "InsertIndicator",
	model.NodeCompany:         "upsertCompany",
	model.NodeFilingChunk:     "upsertContentNode",
	model.NodeTranscriptChunk: "upsertContentNode",
	model.NodeNewsItem:        "upsertContentNode",
}

func (s *storeAdapter) FindByID(ctx context.Context, nodeType, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var out struct {
		ID string `json:"id"`
	}
	_, err := graphstore.QueryInto(ctx, s.client, "getNode", map[string]any{"nodeType": nodeType, "id": id}, &out)
	if err != nil {
		if serr, ok := err.(*graphstore.StoreError); ok && serr.Kind == graphstore.ErrKindNotFound {
			return false, nil
		}
		return false, err
	}
	return out.ID != "", nil
}

func (s *storeAdapter) FindByCodeHash(ctx context.Context, nodeType, codeHash string) (string, bool, error) {
	var out struct {
		IndicatorID string `json:"indicator_id"`
	}
	_, err := graphstore.QueryInto(ctx, s.client, "SearchIndicatorsByCategory", map[string]any{"nodeType": nodeType, "code_hash": codeHash}, &out)
	if err != nil {
		if serr, ok := err.(*graphstore.StoreError); ok && serr.Kind == graphstore.ErrKindNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return out.IndicatorID, out.IndicatorID != "", nil
}

func (s *storeAdapter) SearchSimilar(ctx context.Context, nodeType string, embedding []float32, threshold float64) (string, float64, bool, error) {
	var out struct {
		ID         string  `json:"id"`
		Similarity float64 `json:"similarity"`
	}
	_, err := graphstore.QueryInto(ctx, s.client, "SearchSimilarIndicators", map[string]any{
		"nodeType":      nodeType,
		"embedding":     embedding,
		"minSimilarity": threshold,
	}, &out)
	if err != nil {
		if serr, ok := err.(*graphstore.StoreError); ok && serr.Kind == graphstore.ErrKindNotFound {
			return "", 0, false, nil
		}
		return "", 0, false, err
	}
	if out.Similarity < threshold {
		return "", 0, false, nil
	}
	return out.ID, out.Similarity, out.ID != "", nil
}

func (s *storeAdapter) Upsert(ctx context.Context, rec ingestion.Record) error {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	params := map[string]any{"id": id}
	for k, v := range rec.Properties {
		params[k] = v
	}
	if rec.CodeHash != "" {
		params["code_hash"] = rec.CodeHash
	}
	if len(rec.Embedding) > 0 {
		params["embedding"] = rec.Embedding
	}

	queryName, ok := upsertQueryForType[rec.NodeType]
	if !ok {
		queryName = "upsertNode"
		params["node_type"] = rec.NodeType
	}
	_, _, err := s.client.Query(ctx, queryName, params)
	return err
}

// Nodes implements export.Source via the exportNodes named query.
func (s *storeAdapter) Nodes(ctx context.Context, nodeType string) ([]export.Node, error) {
	var out []export.Node
	_, err := graphstore.QueryInto(ctx, s.client, "exportNodes", map[string]any{"nodeType": nodeType}, &out)
	return out, err
}

// Edges implements export.Source via the exportEdges named query.
func (s *storeAdapter) Edges(ctx context.Context, edgeType string) ([]model.Edge, error) {
	var out []model.Edge
	_, err := graphstore.QueryInto(ctx, s.client, "exportEdges", map[string]any{"edgeType": edgeType}, &out)
	return out, err
}

// NodesChangedSince fetches nodes of one type changed since a time via the
// exportNodesChangedSince query. It is not part of export.Source:
// ExportIncremental filters a full export by CreatedAt instead.
func (s *storeAdapter) NodesChangedSince(ctx context.Context, nodeType string, since time.Time) ([]export.Node, error) {
	var out []export.Node
	_, err := graphstore.QueryInto(ctx, s.client, "exportNodesChangedSince", map[string]any{
		"nodeType": nodeType,
		"since":    since.Format(time.RFC3339),
	}, &out)
	return out, err
}

// UpsertNode implements export.Sink via the same per-type upsert queries
// Upsert uses, decoding the export node's generic property bag first.
func (s *storeAdapter) UpsertNode(ctx context.Context, nodeType string, n export.Node) error {
	props := make(map[string]any, len(n.Properties))
	for k, v := range n.Properties {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		props[k] = decoded
	}
	return s.Upsert(ctx, ingestion.Record{ID: n.ID, NodeType: nodeType, Properties: props})
}

// UpsertEdge implements export.Sink via the createEdge named query.
func (s *storeAdapter) UpsertEdge(ctx context.Context, edgeType string, e model.Edge) error {
	params := map[string]any{
		"source_id": e.SourceID,
		"target_id": e.TargetID,
		"type":      edgeType,
	}
	if e.Weight != nil {
		params["weight"] = *e.Weight
	}
	if e.Timestamp != "" {
		params["timestamp"] = e.Timestamp
	}
	_, _, err := s.client.Query(ctx, "createEdge", params)
	return err
}
