package export

import (
	"fmt"
	"strings"

	"github.com/quantgraph/memcore/model"
)

// majorVersion extracts the leading dot-separated component of a
// "major.minor" version string.
func majorVersion(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

// CompatibleVersion reports whether an export produced at exportVersion
// can be imported by a reader at currentVersion: major versions must
// match exactly (spec §4.12).
func CompatibleVersion(exportVersion, currentVersion string) bool {
	return majorVersion(exportVersion) == majorVersion(currentVersion)
}

// ValidateGraph checks an export for the required fields on every node
// and edge, returning one message per violation found. An empty result
// means the export is structurally sound.
func ValidateGraph(g Graph) []string {
	var problems []string

	if g.Version == "" {
		problems = append(problems, "missing version")
	} else if !CompatibleVersion(g.Version, Version) {
		problems = append(problems, fmt.Sprintf("incompatible export version %q (reader is %q)", g.Version, Version))
	}
	if g.ExportedAt.IsZero() {
		problems = append(problems, "missing exportedAt")
	}
	if g.Source == "" {
		problems = append(problems, "missing source")
	}
	if g.Nodes == nil {
		problems = append(problems, "missing nodes")
	}
	if g.Edges == nil {
		problems = append(problems, "missing edges")
	}
	if g.Metadata == nil {
		problems = append(problems, "missing metadata")
	} else {
		for _, field := range []string{"nodeCount", "edgeCount", "nodeTypes", "edgeTypes"} {
			if _, ok := g.Metadata[field]; !ok {
				problems = append(problems, fmt.Sprintf("metadata missing %s", field))
			}
		}
	}

	for nodeType, nodes := range g.Nodes {
		for i, n := range nodes {
			if n.ID == "" {
				problems = append(problems, fmt.Sprintf("nodes[%s][%d]: missing id", nodeType, i))
			}
			if n.Type == "" {
				problems = append(problems, fmt.Sprintf("nodes[%s][%d]: missing type", nodeType, i))
			}
		}
	}
	for edgeType, edges := range g.Edges {
		for i, e := range edges {
			if e.SourceID == "" {
				problems = append(problems, fmt.Sprintf("edges[%s][%d]: missing source_id", edgeType, i))
			}
			if e.TargetID == "" {
				problems = append(problems, fmt.Sprintf("edges[%s][%d]: missing target_id", edgeType, i))
			}
			if e.Type == "" {
				problems = append(problems, fmt.Sprintf("edges[%s][%d]: missing type", edgeType, i))
			}
		}
	}
	return problems
}

// MergeGraphs merges an incremental Graph over a base Graph: nodes
// overwrite by ID, edges overwrite by (source, target, type) (spec
// §4.12). The merge is used both to apply a pulled incremental export and
// to verify the export/import round trip (invariant 8).
func MergeGraphs(base, incremental Graph) Graph {
	merged := Graph{
		Version:    incremental.Version,
		ExportedAt: incremental.ExportedAt,
		Source:     incremental.Source,
		Nodes:      make(map[string][]Node),
		Edges:      make(map[string][]model.Edge),
	}

	nodeTypes := unionKeys(base.Nodes, incremental.Nodes)
	for _, nt := range nodeTypes {
		byID := make(map[string]Node)
		var order []string
		for _, n := range base.Nodes[nt] {
			if _, ok := byID[n.ID]; !ok {
				order = append(order, n.ID)
			}
			byID[n.ID] = n
		}
		for _, n := range incremental.Nodes[nt] {
			if _, ok := byID[n.ID]; !ok {
				order = append(order, n.ID)
			}
			byID[n.ID] = n
		}
		merged.Nodes[nt] = make([]Node, 0, len(order))
		for _, id := range order {
			merged.Nodes[nt] = append(merged.Nodes[nt], byID[id])
		}
	}

	edgeTypes := unionKeys(base.Edges, incremental.Edges)
	for _, et := range edgeTypes {
		byKey := make(map[string]model.Edge)
		var order []string
		for _, e := range base.Edges[et] {
			k := edgeKey(e)
			if _, ok := byKey[k]; !ok {
				order = append(order, k)
			}
			byKey[k] = e
		}
		for _, e := range incremental.Edges[et] {
			k := edgeKey(e)
			if _, ok := byKey[k]; !ok {
				order = append(order, k)
			}
			byKey[k] = e
		}
		merged.Edges[et] = make([]model.Edge, 0, len(order))
		for _, k := range order {
			merged.Edges[et] = append(merged.Edges[et], byKey[k])
		}
	}

	return merged
}

func unionKeys[V any](a, b map[string]V) []string {
	seen := make(map[string]bool)
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
