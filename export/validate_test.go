package export

import (
	"context"
	"testing"
	"time"

	"github.com/quantgraph/memcore/model"
)

func TestCompatibleVersion(t *testing.T) {
	if !CompatibleVersion("1.3", "1.0") {
		t.Error("expected same major version to be compatible")
	}
	if CompatibleVersion("2.0", "1.0") {
		t.Error("expected different major version to be incompatible")
	}
}

func TestValidateGraphCatchesMissingFields(t *testing.T) {
	g := Graph{
		Version: Version,
		Nodes: map[string][]Node{
			model.NodeCompany: {{ID: "", Type: model.NodeCompany}},
		},
		Edges: map[string][]model.Edge{
			model.EdgeRelatedTo: {{SourceID: "AAPL", TargetID: "", Type: model.EdgeRelatedTo}},
		},
	}
	problems := ValidateGraph(g)
	// 2 node/edge field problems, plus missing exportedAt/source/metadata
	// at the top level (spec §6).
	if len(problems) != 5 {
		t.Fatalf("expected 5 problems, got %v", problems)
	}
}

func TestValidateGraphCleanPasses(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := Graph{
		Version:    Version,
		ExportedAt: now,
		Source:     "test",
		Nodes: map[string][]Node{
			model.NodeCompany: {{ID: "AAPL", Type: model.NodeCompany}},
		},
		Edges: map[string][]model.Edge{
			model.EdgeRelatedTo: {{SourceID: "AAPL", TargetID: "MSFT", Type: model.EdgeRelatedTo}},
		},
	}
	g.Metadata = buildMetadata(g)
	if problems := ValidateGraph(g); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

// TestExportImportRoundTrip checks invariant 8 at the Graph level: merging
// an exported graph over an empty base yields the same node and edge counts
// as the original graph.
func TestExportImportRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := fakeSource{
		nodes: map[string][]Node{
			model.NodeCompany: {
				{ID: "AAPL", Type: model.NodeCompany, CreatedAt: now},
				{ID: "MSFT", Type: model.NodeCompany, CreatedAt: now},
			},
		},
		edges: map[string][]model.Edge{
			model.EdgeRelatedTo: {{SourceID: "AAPL", TargetID: "MSFT", Type: model.EdgeRelatedTo}},
		},
	}

	original, err := ExportGraph(context.Background(), src, []string{model.NodeCompany}, []string{model.EdgeRelatedTo}, "test", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := Graph{Nodes: map[string][]Node{}, Edges: map[string][]model.Edge{}}
	merged := MergeGraphs(empty, original)

	if len(merged.Nodes[model.NodeCompany]) != len(original.Nodes[model.NodeCompany]) {
		t.Errorf("node count mismatch: got %d, want %d", len(merged.Nodes[model.NodeCompany]), len(original.Nodes[model.NodeCompany]))
	}
	if len(merged.Edges[model.EdgeRelatedTo]) != len(original.Edges[model.EdgeRelatedTo]) {
		t.Errorf("edge count mismatch: got %d, want %d", len(merged.Edges[model.EdgeRelatedTo]), len(original.Edges[model.EdgeRelatedTo]))
	}
}

func TestMergeGraphsIncrementalOverwritesByID(t *testing.T) {
	base := Graph{
		Nodes: map[string][]Node{
			model.NodeCompany: {{ID: "AAPL", Type: model.NodeCompany, Properties: map[string]model.Scalar{"name": model.StringScalar("old")}}},
		},
		Edges: map[string][]model.Edge{},
	}
	incremental := Graph{
		Nodes: map[string][]Node{
			model.NodeCompany: {{ID: "AAPL", Type: model.NodeCompany, Properties: map[string]model.Scalar{"name": model.StringScalar("new")}}},
		},
		Edges: map[string][]model.Edge{},
	}
	merged := MergeGraphs(base, incremental)
	nodes := merged.Nodes[model.NodeCompany]
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node after merge, got %d", len(nodes))
	}
	if nodes[0].Properties["name"].String() != "new" {
		t.Errorf("expected incremental to overwrite base, got %q", nodes[0].Properties["name"].String())
	}
}
