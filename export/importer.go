package export

import (
	"context"
	"fmt"

	"github.com/quantgraph/memcore/ingestion"
	"github.com/quantgraph/memcore/model"
)

// defaultImportBatchSize is the import batch size used when the caller
// passes none; it is independent of ingestion's own default of 20.
const defaultImportBatchSize = 100

// Sink is the write side of the store a Graph is imported into.
type Sink interface {
	UpsertNode(ctx context.Context, nodeType string, n Node) error
	UpsertEdge(ctx context.Context, edgeType string, e model.Edge) error
}

// ImportResult tallies a batch import's outcome; per-record failures are
// isolated to the failing batch and recorded in Errors rather than
// aborting the whole import.
type ImportResult struct {
	NodesImported int
	EdgesImported int
	NodesSkipped  int
	EdgesSkipped  int
	Errors        []string
}

func edgeKey(e model.Edge) string {
	return e.Type + ":" + e.SourceID + "->" + e.TargetID
}

// Import writes every node and edge in g into sink, batching with the
// same bounded fan-out ingestion uses for record batches (spec §4.12). A
// batchSize <= 0 uses defaultImportBatchSize.
func Import(ctx context.Context, sink Sink, g Graph, batchSize int) (ImportResult, error) {
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}

	var result ImportResult
	for nodeType, nodes := range g.Nodes {
		nodeType := nodeType
		batchRes := ingestion.BatchMutate(ctx, nodes, func(n Node) string { return n.ID }, batchSize,
			func(ctx context.Context, n Node) error {
				return sink.UpsertNode(ctx, nodeType, n)
			})
		result.NodesImported += len(batchRes.Successful)
		result.NodesSkipped += len(batchRes.Failed)
		for _, e := range batchRes.Failed {
			result.Errors = append(result.Errors, fmt.Sprintf("node %s/%s: %v", nodeType, e.Symbol, e.Error))
		}
	}

	for edgeType, edges := range g.Edges {
		edgeType := edgeType
		batchRes := ingestion.BatchMutate(ctx, edges, edgeKey, batchSize,
			func(ctx context.Context, e model.Edge) error {
				return sink.UpsertEdge(ctx, edgeType, e)
			})
		result.EdgesImported += len(batchRes.Successful)
		result.EdgesSkipped += len(batchRes.Failed)
		for _, e := range batchRes.Failed {
			result.Errors = append(result.Errors, fmt.Sprintf("edge %s/%s: %v", edgeType, e.Symbol, e.Error))
		}
	}

	return result, nil
}
