// Package graphstore adapts the named-query wire protocol exposed by the
// graph store (HELIX_HOST:HELIX_PORT) into a typed Go client with retry and
// circuit-breaking around the underlying HTTP calls.
package graphstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	resty "github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// Client is a thin, retrying, circuit-broken HTTP client over the graph
// store's query endpoint. It is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *resty.Client
	closed bool

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	closeCtx context.Context
	cancel   context.CancelFunc
}

// New constructs a Client against cfg. The underlying HTTP client is built
// eagerly (unlike the teacher's SQLite Store, there is no schema to create
// or migrate up front); the first real network round trip happens on the
// first Query call.
func New(cfg Config) *Client {
	closeCtx, cancel := context.WithCancel(context.Background())

	h := resty.New().
		SetBaseURL(cfg.baseURL()).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		cfg:      cfg,
		http:     h,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		closeCtx: closeCtx,
		cancel:   cancel,
	}
}

// Close marks the client closed and cancels any in-flight retry backoff
// sleep. Subsequent Query calls return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancel()
	return nil
}

// Health probes store reachability via the getNodeTypes query and returns
// that query's error, or nil when the store answered.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.NodeTypes(ctx)
	return err
}

// breakerFor returns (creating if needed) the circuit breaker for a named
// query. Breaking per query name, rather than one breaker for the whole
// client, means a misbehaving query type cannot trip the breaker for
// unrelated, healthy queries.
func (c *Client) breakerFor(name string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.breakers[name]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "graphstore:" + name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})
	c.breakers[name] = b
	return b
}

// queryRequest is the wire request body for every named query.
type queryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params"`
}

// rawQuery executes a single named query once, with no retry, and
// classifies any failure into a StoreErrorKind.
func (c *Client) rawQuery(ctx context.Context, name string, params map[string]any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(queryRequest{Query: name, Params: params}).
		Post("/query")
	if err != nil {
		if ctx.Err() != nil {
			return nil, &StoreError{Kind: ErrKindTimeout, Query: name, Err: err}
		}
		return nil, &StoreError{Kind: ErrKindConnectionFailed, Query: name, Err: err}
	}

	switch resp.StatusCode() {
	case 200:
		return resp.Body(), nil
	case 400:
		return nil, &StoreError{Kind: ErrKindInvalidQuery, Query: name, Err: fmt.Errorf("%s", resp.String())}
	case 404:
		return nil, &StoreError{Kind: ErrKindNotFound, Query: name, Err: fmt.Errorf("%s", resp.String())}
	case 409, 422:
		return nil, &StoreError{Kind: ErrKindSchemaError, Query: name, Err: fmt.Errorf("%s", resp.String())}
	case 408, 504:
		return nil, &StoreError{Kind: ErrKindTimeout, Query: name, Err: fmt.Errorf("%s", resp.String())}
	default:
		return nil, &StoreError{Kind: ErrKindQueryFailed, Query: name, Err: fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String())}
	}
}

// Query executes a named query against the store, retrying retryable
// failures with exponential backoff and tripping a per-query circuit
// breaker after repeated failures. It returns the raw response body and the
// wall-clock execution time.
func (c *Client) Query(ctx context.Context, name string, params map[string]any) ([]byte, time.Duration, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, 0, ErrClosed
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	defer context.AfterFunc(c.closeCtx, stop)()

	breaker := c.breakerFor(name)
	start := time.Now()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = c.cfg.Timeout * time.Duration(c.cfg.MaxRetries+1)
	boCtx := backoff.WithContext(bo, ctx)

	attempts := 0
	var body []byte
	opErr := backoff.Retry(func() error {
		attempts++
		res, err := breaker.Execute(func() (any, error) {
			return c.rawQuery(ctx, name, params)
		})
		if err != nil {
			if serr, ok := err.(*StoreError); ok {
				if !serr.retryable() {
					return backoff.Permanent(serr)
				}
				if attempts > c.cfg.MaxRetries {
					return backoff.Permanent(serr)
				}
				return serr
			}
			// gobreaker.ErrOpenState / ErrTooManyRequests: reported as
			// a CONNECTION_FAILED StoreError wrapping ErrCircuitOpen and
			// treated as a transient, retryable condition up to MaxRetries.
			cerr := &StoreError{Kind: ErrKindConnectionFailed, Query: name, Err: fmt.Errorf("%w: %v", ErrCircuitOpen, err)}
			if attempts > c.cfg.MaxRetries {
				return backoff.Permanent(cerr)
			}
			return cerr
		}
		body = res.([]byte)
		return nil
	}, boCtx)

	elapsed := time.Since(start)
	if opErr != nil {
		return nil, elapsed, opErr
	}
	return body, elapsed, nil
}
