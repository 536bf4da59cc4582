package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/quantgraph/memcore/graphstore"
)

func newCrossTypeTestClient(t *testing.T, body string) *graphstore.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	host, port, _ := strings.Cut(strings.TrimPrefix(srv.URL, "http://"), ":")
	p, _ := strconv.Atoi(port)
	c := graphstore.New(graphstore.Config{Host: host, Port: p, Timeout: 2 * time.Second, MaxRetries: 1})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSearchGraphContextDedupesCompaniesByEarliestSource(t *testing.T) {
	body := `{"data":{
		"primary_company": {"symbol":"AAPL","name":"Apple"},
		"filing_companies": [{"symbol":"AAPL","name":"Apple"}, {"symbol":"MSFT","name":"Microsoft"}],
		"news_companies": [{"symbol":"MSFT","name":"Microsoft"}, {"symbol":"GOOG","name":"Google"}]
	}}`
	c := newCrossTypeTestClient(t, body)

	res, err := SearchGraphContext(context.Background(), c, "some query", DefaultCrossTypeSearchOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Companies) != 3 {
		t.Fatalf("expected 3 deduped companies, got %d", len(res.Companies))
	}
	bySymbol := make(map[string]string)
	for _, co := range res.Companies {
		bySymbol[co.Symbol] = co.DiscoverySource
	}
	if bySymbol["AAPL"] != "primary" {
		t.Errorf("AAPL source = %q, want primary", bySymbol["AAPL"])
	}
	if bySymbol["MSFT"] != "filing" {
		t.Errorf("MSFT source = %q, want filing (earlier than news)", bySymbol["MSFT"])
	}
	if bySymbol["GOOG"] != "news" {
		t.Errorf("GOOG source = %q, want news", bySymbol["GOOG"])
	}
}

func TestSearchGraphContextByCompanyOmitsExternalEvents(t *testing.T) {
	body := `{"data":{
		"external_events": [{"event_id":"e1"}],
		"related_companies": [{"symbol":"AAPL"}]
	}}`
	c := newCrossTypeTestClient(t, body)

	res, err := SearchGraphContext(context.Background(), c, "", CrossTypeSearchOptions{Limit: 10, Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ExternalEvents) != 0 {
		t.Errorf("expected no external events in company-scoped mode, got %d", len(res.ExternalEvents))
	}
	if len(res.Companies) != 1 {
		t.Errorf("expected 1 company, got %d", len(res.Companies))
	}
}
