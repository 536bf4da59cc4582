package ingestion

import (
	"context"
	"fmt"
)

// Store is the minimal contract Ingest needs from the graph store for
// dedup lookups and the final upsert. Implementations typically wrap a
// graphstore.Client with node-type-specific named queries.
type Store interface {
	FindByID(ctx context.Context, nodeType, id string) (bool, error)
	FindByCodeHash(ctx context.Context, nodeType, codeHash string) (existingID string, found bool, err error)
	SearchSimilar(ctx context.Context, nodeType string, embedding []float32, threshold float64) (existingID string, score float64, found bool, err error)
	Upsert(ctx context.Context, rec Record) error
}

// dedupeOutcome classifies what the dedupe pass decided for one record.
type dedupeOutcome int

const (
	dedupeProceed dedupeOutcome = iota
	dedupeRejectCodeHash
	dedupeWarnSimilarity
)

// checkDedupe applies the three-stage dedupe order (spec §4.9): exact-ID
// match is simply an upsert merge and needs no further checks; a code-hash
// match against a *different* ID rejects the new record outright; a
// similarity match above threshold only warns and still ingests.
func checkDedupe(ctx context.Context, s Store, rec Record, opts Options) (dedupeOutcome, string, error) {
	exists, err := s.FindByID(ctx, rec.NodeType, rec.ID)
	if err != nil {
		return dedupeProceed, "", err
	}
	if exists {
		return dedupeProceed, "", nil
	}

	if opts.DeduplicateByCodeHash && rec.CodeHash != "" {
		existingID, found, err := s.FindByCodeHash(ctx, rec.NodeType, rec.CodeHash)
		if err != nil {
			return dedupeProceed, "", err
		}
		if found && existingID != rec.ID {
			return dedupeRejectCodeHash, "code_hash matches existing node " + existingID, nil
		}
	}

	if opts.GenerateEmbeddings && len(rec.Embedding) > 0 {
		existingID, score, found, err := s.SearchSimilar(ctx, rec.NodeType, rec.Embedding, opts.SimilarityThreshold)
		if err != nil {
			return dedupeProceed, "", err
		}
		if found && existingID != rec.ID {
			return dedupeWarnSimilarity, similarityWarning(existingID, score), nil
		}
	}

	return dedupeProceed, "", nil
}

func similarityWarning(existingID string, score float64) string {
	return fmt.Sprintf("similar to existing node %s (similarity %.3f)", existingID, score)
}
