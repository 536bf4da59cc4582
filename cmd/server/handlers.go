package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quantgraph/memcore"
	"github.com/quantgraph/memcore/export"
	"github.com/quantgraph/memcore/ingestion"
	"github.com/quantgraph/memcore/model"
	"github.com/quantgraph/memcore/retrieval"
)

type handler struct {
	engine *memcore.Engine
}

func newHandler(e *memcore.Engine) *handler {
	return &handler{engine: e}
}

// POST /ingest
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		Records []ingestion.Record `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records is required")
		return
	}

	result, err := h.engine.Ingest(ctx, req.Records, ingestion.DefaultOptions())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		slog.Error("ingest error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /retrieve
func (h *handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Embedding []float32          `json:"embedding"`
		Snapshot  retrieval.Snapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Embedding) == 0 {
		writeError(w, http.StatusBadRequest, "embedding is required")
		return
	}

	result, err := retrieval.RetrieveTradeMemories(ctx, h.engine.Store, req.Embedding, req.Snapshot, h.engine.Config().Retrieval)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "retrieval failed")
		slog.Error("retrieve error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /search-context
func (h *handler) handleSearchContext(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := retrieval.SearchGraphContext(ctx, h.engine.Store, req.Query, h.engine.Config().CrossTypeSearch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		slog.Error("search-context error", "query", req.Query, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /export
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		NodeTypes []string   `json:"nodeTypes,omitempty"`
		EdgeTypes []string   `json:"edgeTypes,omitempty"`
		Source    string     `json:"source,omitempty"`
		Since     *time.Time `json:"since,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if len(req.NodeTypes) == 0 {
		req.NodeTypes = model.FallbackNodeTypes
	}
	if len(req.EdgeTypes) == 0 {
		req.EdgeTypes = model.FallbackEdgeTypes
	}
	if req.Source == "" {
		req.Source = "memcore"
	}

	if req.Since != nil {
		g, err := export.ExportIncremental(ctx, h.engine.ExportSource(), req.NodeTypes, req.EdgeTypes, req.Source, *req.Since, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			slog.Error("export error", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, g)
		return
	}

	g, err := export.ExportGraph(ctx, h.engine.ExportSource(), req.NodeTypes, req.EdgeTypes, req.Source, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
