package ingestion

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Record is one node-shaped item being ingested.
type Record struct {
	ID         string
	NodeType   string
	CodeHash   string
	Embedding  []float32
	Properties map[string]any
}

// Options configures Ingest (spec §4.9).
type Options struct {
	GenerateEmbeddings     bool
	DeduplicateByCodeHash  bool
	SimilarityThreshold    float64
	BatchSize              int
	ContinueOnError        bool
}

// DefaultOptions mirrors the spec defaults.
func DefaultOptions() Options {
	return Options{
		GenerateEmbeddings:    true,
		DeduplicateByCodeHash: true,
		SimilarityThreshold:   0.90,
		BatchSize:             20,
		ContinueOnError:       true,
	}
}

// IngestionResult is the response shape for Ingest.
type IngestionResult struct {
	Upserted        []string
	Warnings        []string
	Errors          []ItemError
	ExecutionTimeMs int64
}

// Ingest runs the common ingestion contract (spec §4.9): per-record dedupe
// (exact-ID → code-hash → similarity), then upsert, fanned out in batches
// of BatchSize (also the worker count within a batch) with per-item
// isolation. When ContinueOnError is false, a batch with a failed item ends
// the run: every item of that batch still runs, and later batches do not.
func Ingest(ctx context.Context, s Store, records []Record, opts Options) (IngestionResult, error) {
	start := time.Now()
	result := IngestionResult{}
	var warningsMu sync.Mutex

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[i:end]

		key := func(r Record) string { return r.ID }
		batchResult := BatchMutate(ctx, batch, key, batchSize, func(ctx context.Context, rec Record) error {
			outcome, warning, err := checkDedupe(ctx, s, rec, opts)
			if err != nil {
				return err
			}
			switch outcome {
			case dedupeRejectCodeHash:
				return fmt.Errorf("rejected: %s", warning)
			case dedupeWarnSimilarity:
				warningsMu.Lock()
				result.Warnings = append(result.Warnings, rec.ID+": "+warning)
				warningsMu.Unlock()
			}
			return s.Upsert(ctx, rec)
		})

		result.Upserted = append(result.Upserted, batchResult.Successful...)
		result.Errors = append(result.Errors, batchResult.Failed...)

		if !opts.ContinueOnError && len(batchResult.Failed) > 0 {
			result.ExecutionTimeMs = time.Since(start).Milliseconds()
			return result, errAborted(batchResult.Failed[0].Symbol, fmt.Errorf("%s", batchResult.Failed[0].Error))
		}
	}

	result.ExecutionTimeMs = time.Since(start).Milliseconds()
	return result, nil
}
