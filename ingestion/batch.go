// Package ingestion upserts nodes and edges into the graph store with
// embedding-text construction, three-stage dedup, and partial-failure
// batch semantics.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// defaultBatchConcurrency bounds fan-out for per-item batch mutations
// (spec §5: "configurable concurrency ceiling").
const defaultBatchConcurrency = 16

// ItemError pairs a batch item's identifying symbol/key with the error it
// produced.
type ItemError struct {
	Symbol string
	Error  string
}

// BatchMutationResult reports the all-settled outcome of a fanned-out batch
// mutation (spec §4.9).
type BatchMutationResult struct {
	Successful      []string
	Failed          []ItemError
	TotalProcessed  int
	ExecutionTimeMs int64
}

// BatchMutate fans out fn over items with per-item isolation: no single
// item's failure aborts the batch (spec §5). Concurrency is bounded by
// concurrency (defaultBatchConcurrency when <= 0).
func BatchMutate[T any](ctx context.Context, items []T, key func(T) string, concurrency int, fn func(context.Context, T) error) BatchMutationResult {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	start := time.Now()

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		sem        = make(chan struct{}, concurrency)
		successful []string
		failed     []ItemError
	)

	for _, item := range items {
		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			k := key(item)

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				failed = append(failed, ItemError{Symbol: k, Error: ctx.Err().Error()})
				mu.Unlock()
				return
			}

			if err := fn(ctx, item); err != nil {
				slog.Warn("ingestion: batch item failed", "key", k, "error", err)
				mu.Lock()
				failed = append(failed, ItemError{Symbol: k, Error: err.Error()})
				mu.Unlock()
				return
			}
			mu.Lock()
			successful = append(successful, k)
			mu.Unlock()
		}(item)
	}
	wg.Wait()

	return BatchMutationResult{
		Successful:      successful,
		Failed:          failed,
		TotalProcessed:  len(items),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
}

// errAborted is returned by Ingest when continueOnError is false and an
// item fails.
func errAborted(key string, err error) error {
	return fmt.Errorf("ingestion: aborted on item %q: %w", key, err)
}
