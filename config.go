// Package memcore wires the graph-store adapter and the retrieval,
// ingestion, validation, and export packages into a single configured
// engine, the way the teacher's top-level goreason package wires its
// store/graph/retrieval/reasoning packages behind one Engine.
package memcore

import (
	"github.com/quantgraph/memcore/graph"
	"github.com/quantgraph/memcore/graphstore"
	"github.com/quantgraph/memcore/ingestion"
	"github.com/quantgraph/memcore/retrieval"
)

// Config holds all configuration for the memcore engine.
type Config struct {
	// GraphStore controls the HELIX_* connection (host, port, timeout,
	// max retries); see graphstore.DefaultConfig for its own env-var
	// overrides.
	GraphStore graphstore.Config `json:"graph_store" yaml:"graph_store"`

	// Scoring tunes edge-weight recency/hub-penalty/threshold behavior
	// shared by traversal and the orchestrator.
	Scoring graph.ScoringOptions `json:"scoring" yaml:"scoring"`

	// Retrieval configures the trade-memory retrieval orchestrator
	// (topK, corrective-retrieval thresholds, graph-traversal toggle).
	Retrieval retrieval.RetrievalOptions `json:"retrieval" yaml:"retrieval"`

	// CrossTypeSearch configures the GraphRAG cross-type search default
	// result limit.
	CrossTypeSearch retrieval.CrossTypeSearchOptions `json:"cross_type_search" yaml:"cross_type_search"`

	// Ingestion configures batch size, dedup thresholds, and
	// continue-on-error semantics for ingestion.Ingest.
	Ingestion ingestion.Options `json:"ingestion" yaml:"ingestion"`

	// CompanyGraph configures the sector/industry correlation pass.
	CompanyGraph ingestion.CompanyGraphOptions `json:"company_graph" yaml:"company_graph"`

	// ExportBatchSize bounds fan-out during Import (spec §4.12; 0 uses
	// the package default of 100).
	ExportBatchSize int `json:"export_batch_size" yaml:"export_batch_size"`
}

// DefaultConfig returns a Config with every component's spec-mandated
// defaults, overridable by HELIX_* environment variables the same way the
// teacher's DefaultConfig is overridden by GOREASON_* variables in
// cmd/server/main.go.
func DefaultConfig() Config {
	return Config{
		GraphStore:      graphstore.DefaultConfig(),
		Scoring:         graph.DefaultScoringOptions(),
		Retrieval:       retrieval.DefaultRetrievalOptions(),
		CrossTypeSearch: retrieval.DefaultCrossTypeSearchOptions(),
		Ingestion:       ingestion.DefaultOptions(),
		CompanyGraph:    ingestion.DefaultCompanyGraphOptions(),
		ExportBatchSize: 100,
	}
}

// Validate reports ErrInvalidConfig-wrapped problems with cfg that would
// otherwise surface as confusing behavior deep in a component (a negative
// batch size, for instance). Zero values pass and mean "use the default".
func (c Config) Validate() error {
	if c.Ingestion.BatchSize < 0 {
		return ErrInvalidConfig
	}
	if c.Retrieval.TopK < 0 {
		return ErrInvalidConfig
	}
	if c.ExportBatchSize < 0 {
		return ErrInvalidConfig
	}
	return nil
}
