package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the wire response shape every named query returns: the typed
// payload under "data", with optional node/edge property bags expressed as
// model.Scalar so naked and wrapped JSON scalars both decode cleanly.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// QueryInto executes a named query and unmarshals its "data" field into
// out. It is the typed entry point every higher package (graph, retrieval,
// ingestion) calls instead of Client.Query directly.
func QueryInto(ctx context.Context, c *Client, name string, params map[string]any, out any) (time.Duration, error) {
	body, elapsed, err := c.Query(ctx, name, params)
	if err != nil {
		return elapsed, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return elapsed, &StoreError{Kind: ErrKindQueryFailed, Query: name, Err: fmt.Errorf("decoding envelope: %w", err)}
	}
	if len(env.Data) == 0 {
		return elapsed, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return elapsed, &StoreError{Kind: ErrKindQueryFailed, Query: name, Err: fmt.Errorf("decoding data: %w", err)}
	}
	return elapsed, nil
}

// NodeType and edge type enumeration results, shared by several callers
// (spec §6's "enumerate node/edge types" fallback path).
type nodeTypesResult struct {
	NodeTypes []string `json:"node_types"`
}

type edgeTypesResult struct {
	EdgeTypes []string `json:"edge_types"`
}

// NodeTypes returns the store's enumerated node types.
func (c *Client) NodeTypes(ctx context.Context) ([]string, error) {
	var out nodeTypesResult
	_, err := QueryInto(ctx, c, "getNodeTypes", nil, &out)
	if err != nil {
		return nil, err
	}
	return out.NodeTypes, nil
}

// EdgeTypes returns the store's enumerated edge types.
func (c *Client) EdgeTypes(ctx context.Context) ([]string, error) {
	var out edgeTypesResult
	_, err := QueryInto(ctx, c, "getEdgeTypes", nil, &out)
	if err != nil {
		return nil, err
	}
	return out.EdgeTypes, nil
}
