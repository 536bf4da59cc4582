package graphstore

import "errors"

// StoreErrorKind classifies a graph store failure so callers (and the
// retry/circuit-breaker layer) can decide whether it is worth retrying.
type StoreErrorKind string

const (
	ErrKindConnectionFailed StoreErrorKind = "CONNECTION_FAILED"
	ErrKindQueryFailed      StoreErrorKind = "QUERY_FAILED"
	ErrKindTimeout          StoreErrorKind = "TIMEOUT"
	ErrKindInvalidQuery     StoreErrorKind = "INVALID_QUERY"
	ErrKindNotFound         StoreErrorKind = "NOT_FOUND"
	ErrKindSchemaError      StoreErrorKind = "SCHEMA_ERROR"
)

// retryable reports whether a failure of this kind is worth another attempt.
// INVALID_QUERY, NOT_FOUND, and SCHEMA_ERROR are caller mistakes or genuine
// absence, not transient faults, so retrying them only adds latency.
func (k StoreErrorKind) retryable() bool {
	switch k {
	case ErrKindInvalidQuery, ErrKindNotFound, ErrKindSchemaError:
		return false
	default:
		return true
	}
}

// StoreError wraps a graph store failure with its classification and the
// name of the query that produced it.
type StoreError struct {
	Kind  StoreErrorKind
	Query string
	Err   error
}

func (e *StoreError) Error() string {
	if e.Query != "" {
		return "graphstore: " + string(e.Kind) + " (" + e.Query + "): " + e.Err.Error()
	}
	return "graphstore: " + string(e.Kind) + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

var (
	// ErrClosed is returned when operating on a closed client.
	ErrClosed = errors.New("graphstore: client is closed")

	// ErrCircuitOpen is wrapped in a CONNECTION_FAILED StoreError when the
	// breaker for a query name rejects a call.
	ErrCircuitOpen = errors.New("graphstore: circuit open for query")
)
