// Package export implements whole-graph and incremental export/import of
// the memory graph, used for environment migration and backup (spec
// §4.12).
package export

import (
	"context"
	"sort"
	"time"

	"github.com/quantgraph/memcore/model"
)

// Version is the export format's major.minor version. Importers reject an
// export whose major version differs from their own (spec §4.12).
const Version = "1.0"

// Node is a generic, type-tagged graph node as carried in an export:
// heterogeneous node kinds (TradeDecision, Company, Indicator, ...) share
// this shape so the export format doesn't need one Go type per kind.
type Node struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Properties map[string]model.Scalar  `json:"properties"`
	CreatedAt  time.Time                `json:"created_at"`
}

// Graph is a full or incremental snapshot of the memory graph, keyed by
// node/edge type.
type Graph struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exportedAt"`
	Source     string              `json:"source"`
	Nodes      map[string][]Node   `json:"nodes"`
	Edges      map[string][]model.Edge `json:"edges"`
	Metadata   map[string]any      `json:"metadata,omitempty"`
}

// IncrementalGraph wraps a Graph restricted to records changed since a
// prior export, along with the cursor for the next incremental pull.
type IncrementalGraph struct {
	Incremental         bool      `json:"incremental"`
	NextSinceTimestamp  time.Time `json:"nextSinceTimestamp"`
	Changes             Graph     `json:"changes"`
}

// Source is the read side of the store a Graph is built from.
type Source interface {
	Nodes(ctx context.Context, nodeType string) ([]Node, error)
	Edges(ctx context.Context, edgeType string) ([]model.Edge, error)
}

// ExportGraph reads every requested node and edge type from src and
// assembles a full Graph snapshot.
func ExportGraph(ctx context.Context, src Source, nodeTypes, edgeTypes []string, source string, exportedAt time.Time) (Graph, error) {
	g := Graph{
		Version:    Version,
		ExportedAt: exportedAt,
		Source:     source,
		Nodes:      make(map[string][]Node),
		Edges:      make(map[string][]model.Edge),
	}
	for _, nt := range nodeTypes {
		nodes, err := src.Nodes(ctx, nt)
		if err != nil {
			return Graph{}, err
		}
		g.Nodes[nt] = nodes
	}
	for _, et := range edgeTypes {
		edges, err := src.Edges(ctx, et)
		if err != nil {
			return Graph{}, err
		}
		g.Edges[et] = edges
	}
	g.Metadata = buildMetadata(g)
	return g, nil
}

// buildMetadata derives the export shape's {nodeCount, edgeCount,
// nodeTypes[], edgeTypes[]} summary (spec §4.12) from the assembled graph.
func buildMetadata(g Graph) map[string]any {
	nodeCount, edgeCount := 0, 0
	nodeTypes := make([]string, 0, len(g.Nodes))
	edgeTypes := make([]string, 0, len(g.Edges))
	for nt, nodes := range g.Nodes {
		nodeCount += len(nodes)
		nodeTypes = append(nodeTypes, nt)
	}
	for et, edges := range g.Edges {
		edgeCount += len(edges)
		edgeTypes = append(edgeTypes, et)
	}
	sort.Strings(nodeTypes)
	sort.Strings(edgeTypes)
	return map[string]any{
		"nodeCount": nodeCount,
		"edgeCount": edgeCount,
		"nodeTypes": nodeTypes,
		"edgeTypes": edgeTypes,
	}
}

// ExportIncremental builds a Graph containing only nodes whose
// CreatedAt is at or after since ("added" iff created_at >= since, spec
// §4.12). Edges are not filtered by their Timestamp: every edge of a
// requested type is included alongside the filtered nodes.
func ExportIncremental(ctx context.Context, src Source, nodeTypes, edgeTypes []string, source string, since, now time.Time) (IncrementalGraph, error) {
	full, err := ExportGraph(ctx, src, nodeTypes, edgeTypes, source, now)
	if err != nil {
		return IncrementalGraph{}, err
	}

	changes := Graph{
		Version:    Version,
		ExportedAt: now,
		Source:     source,
		Nodes:      make(map[string][]Node),
		Edges:      full.Edges,
	}
	for nt, nodes := range full.Nodes {
		var filtered []Node
		for _, n := range nodes {
			if !n.CreatedAt.Before(since) {
				filtered = append(filtered, n)
			}
		}
		changes.Nodes[nt] = filtered
	}
	changes.Metadata = buildMetadata(changes)

	return IncrementalGraph{
		Incremental:        true,
		NextSinceTimestamp: now,
		Changes:            changes,
	}, nil
}
