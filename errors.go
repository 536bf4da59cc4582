package memcore

import "errors"

// Package-level sentinel errors for conditions that originate above the
// graph-store boundary (graphstore.StoreErrorKind covers that boundary
// itself, per spec §7).
var (
	// ErrInvalidConfig is returned when a Config fails its own sanity
	// checks (e.g. a negative batch size).
	ErrInvalidConfig = errors.New("memcore: invalid configuration")

	// ErrEmptyEmbedding is the sentinel for a retrieval or ingestion
	// embedding of length zero. No function in this module returns it; an
	// empty embedding passed to retrieval surfaces as an INVALID_QUERY
	// StoreError from the vector search.
	ErrEmptyEmbedding = errors.New("memcore: embedding must not be empty")

	// ErrNoSnapshot is the sentinel for a missing market snapshot. No
	// function in this module returns it; RetrieveTradeMemories accepts a
	// zero Snapshot and builds its brief and filters from the empty fields.
	ErrNoSnapshot = errors.New("memcore: snapshot is required")
)
