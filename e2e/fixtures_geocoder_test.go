//go:build e2e && unix

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fixturePlaces maps a lower-cased query to the jsonv2 payload returned for it
var fixturePlaces = map[string]string{
	"paris": `[
  {"place_id": 88066702, "display_name": "Paris, France", "lat": "48.8566", "lon": "2.3522"},
  {"place_id": 115722066, "display_name": "Paris, Texas, United States", "lat": "33.6609", "lon": "-95.5555"}
]`,
	"tokyo": `[{"place_id": 1, "display_name": "Tokyo, Japan", "lat": "35.6762", "lon": "139.6503"}]`,
}

// FakeGeocoder is a Nominatim stand-in. Unknown queries return an empty list;
// the query "fail" returns a 500.
type FakeGeocoder struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

// NewFakeGeocoder starts a fake geocoder that stops when the test ends
func NewFakeGeocoder(t *testing.T) *FakeGeocoder {
	t.Helper()
	g := &FakeGeocoder{}
	g.Server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.Close)
	return g
}

func (g *FakeGeocoder) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/search" {
		http.NotFound(w, r)
		return
	}
	q := strings.ToLower(r.URL.Query().Get("q"))

	g.mu.Lock()
	g.queries = append(g.queries, q)
	g.mu.Unlock()

	if q == "fail" {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
		return
	}
	body, ok := fixturePlaces[q]
	if !ok {
		body = "[]"
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// Queries returns the queries received so far
func (g *FakeGeocoder) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}
