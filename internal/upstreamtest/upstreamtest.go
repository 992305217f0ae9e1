// Package upstreamtest serves a small fixed changelog dataset over
// httptest for tests of the surfaces.
package upstreamtest

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Stats lists US (42 changes), IN (1500) and FR (7).
const Stats = `{
  "total_changes": 1549,
  "generated_at": "2024-03-08T00:00:00Z",
  "by_country": {
    "US": {"total_changes": 42, "actions": {"add": 40, "update": 1, "delete": 1}, "entities": {"city": 41, "state": 1}},
    "IN": {"total_changes": 1500, "actions": {"add": 1500}, "entities": {"city": 1500}},
    "FR": {"total_changes": 7, "actions": {"update": 7}, "entities": {"city": 7}}
  }
}`

// US holds one add, one update and one delete.
const US = `{
  "country_code": "US",
  "country_name": "United States",
  "total_changes": 3,
  "changes": [
    {"id": "us-1", "timestamp": "2024-03-05T14:07:00Z", "author": "alice", "action": "add",
     "entity_type": "city", "entity": {"name": "Austin", "id": 101}, "message": "Add Austin",
     "changes": {"added": {"name": "Austin", "population": 961855}}},
    {"id": "us-2", "timestamp": "2024-03-06T09:30:00Z", "author": "bob", "action": "update",
     "entity_type": "city", "entity": {"name": "Boston", "id": 102}, "message": "Fix Boston coordinates",
     "changes": {"before": {"latitude": "42.1"}, "after": {"latitude": "42.36"}}},
    {"id": "us-3", "timestamp": "2024-03-07T18:00:00Z", "author": "alice", "action": "delete",
     "entity_type": "state", "entity": {"name": "Old Territory", "id": "ot-9"}, "message": "Remove duplicate"}
  ]
}`

// Global is a bare array, the way the global changelog is published.
const Global = `[
  {"id": "g-1", "timestamp": "2024-03-01T10:00:00Z", "author": "carol", "action": "add",
   "entity_type": "country", "entity": {"name": "Atlantis"}, "changes": {"added": {"iso2": "AT"}}},
  {"id": "g-2", "timestamp": "2024-03-02T10:00:00Z", "author": "dave", "action": "update",
   "entity_type": "city", "entity": {"name": "Paris"}, "message": "Rename"}
]`

// ArchiveIndex lists 2023 (US, FR) and 2022 (IN).
const ArchiveIndex = `{"years": [
  {"year": 2023, "countries": ["US", "FR"], "total_changes": 12},
  {"year": 2022, "countries": ["IN"], "total_changes": 4}
]}`

// Archive2023US is the 2023 archive of US.
const Archive2023US = `{
  "total_changes": 1,
  "changes": [
    {"id": "a-1", "timestamp": "2023-06-01T00:00:00Z", "author": "erin", "action": "add",
     "entity_type": "city", "entity": {"name": "Reno", "id": 7}, "changes": {"added": {"name": "Reno"}}}
  ]
}`

// Routes are the documents served by Default. countries/ZZ.json is truncated;
// any other path is 404.
func Routes() map[string]string {
	return map[string]string{
		"/stats.json":            Stats,
		"/global-changelog.json": Global,
		"/countries/US.json":     US,
		"/archives/index.json":   ArchiveIndex,
		"/archives/2023/US.json": Archive2023US,
		"/countries/ZZ.json":     `{"changes": [`,
	}
}

// New starts a server for routes, closed when t finishes. A route whose body
// is "500" answers with that status.
func New(t testing.TB, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		switch {
		case !ok:
			http.NotFound(w, r)
		case body == "500":
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Default starts a server with Routes.
func Default(t testing.TB) *httptest.Server {
	return New(t, Routes())
}
