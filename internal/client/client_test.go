package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body)) //nolint:errcheck
}

func TestStats(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /stats.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `{"by_country":{"US":{"total_changes":42,"actions":{"add":40,"update":2},"entities":{"city":42}}}}`)
		},
	})

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	require.Contains(t, stats.ByCountry, "US")
	assert.Equal(t, 42, stats.ByCountry["US"].TotalChanges)
	assert.Equal(t, 40, stats.ByCountry["US"].Actions["add"])
}

func TestCountryChangelog(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /countries/IN.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `{"country_name":"India","total_changes":2,"changes":[
				{"id":"c1","action":"add","entity_type":"city","entity":{"name":"Pune","id":7},"changes":{"added":{"name":"Pune"}}},
				{"id":"c2","action":"delete","entity_type":"state","entity":{"name":"Old"}}]}`)
		},
	})

	doc, err := c.CountryChangelog(context.Background(), "IN")
	require.NoError(t, err)
	assert.Equal(t, "IN", doc.CountryCode, "code is filled from the request when absent")
	assert.Equal(t, "India", doc.CountryName)
	require.Len(t, doc.Changes, 2)
	assert.Equal(t, "Pune", doc.Changes[0].Entity.Name)
	assert.Equal(t, "7", doc.Changes[0].Entity.ID.String())
}

func TestCountryChangelog_NotFound(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{})

	_, err := c.CountryChangelog(context.Background(), "XX")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch changelog for XX", err.Error())
	assert.True(t, IsNotFound(err))

	f, ok := AsFetchFailure(err)
	require.True(t, ok)
	assert.Equal(t, ResourceCountryChangelog, f.Resource)
	assert.Equal(t, "XX", f.Code)
	assert.Equal(t, "404 Not Found", f.Detail())
}

func TestFailureMessages(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	ctx := context.Background()

	_, err := c.Stats(ctx)
	assert.EqualError(t, err, "Failed to fetch stats")

	_, err = c.GlobalChangelog(ctx)
	assert.EqualError(t, err, "Failed to fetch global changelog")

	_, err = c.ArchiveIndex(ctx)
	assert.EqualError(t, err, "Failed to fetch archive index")

	_, err = c.ArchivedChangelog(ctx, 2023, "FR")
	assert.EqualError(t, err, "Failed to fetch archive for FR (2023)")
	assert.False(t, IsNotFound(err))
}

func TestGlobalChangelog_BareArray(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /global-changelog.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `[{"id":"g1","action":"update"},{"id":"g2","action":"add"}]`)
		},
	})

	doc, err := c.GlobalChangelog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.TotalChanges)
	assert.Equal(t, "g1", doc.Changes[0].ID)
}

func TestArchives(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /archives/index.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `{"years":[{"year":2024,"countries":["US","IN"]}]}`)
		},
		"GET /archives/2024/US.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `{"country_code":"US","changes":[{"id":"a1"}]}`)
		},
	})
	ctx := context.Background()

	ix, err := c.ArchiveIndex(ctx)
	require.NoError(t, err)
	assert.True(t, ix.Has(2024, "US"))

	doc, err := c.ArchivedChangelog(ctx, 2024, "US")
	require.NoError(t, err)
	assert.Equal(t, 2024, doc.Year)
	assert.Equal(t, 1, doc.TotalChanges)
}

func TestDecodeFailure(t *testing.T) {
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /stats.json": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, `{"by_country":`)
		},
	})

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "Failed to fetch stats")

	cause := errors.Unwrap(err)
	require.NotNil(t, cause, "decode cause is kept")
	assert.Contains(t, cause.Error(), "decode response")
}

func TestEachCallIsAFreshFetch(t *testing.T) {
	var hits atomic.Int32
	c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /stats.json": func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			jsonResponse(w, 200, `{"by_country":{}}`)
		},
	})

	for i := 0; i < 3; i++ {
		_, err := c.Stats(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestPathSegment(t *testing.T) {
	assert.Equal(t, "US", pathSegment("US"))
	assert.Equal(t, "etcpasswd", pathSegment("../etc/passwd"))
	assert.Equal(t, "USxy", pathSegment("US?x#y"))
}
