// Package client fetches the published changelog artifacts over plain HTTP GET.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crucial707/changelog-browser/internal/metrics"
	"github.com/crucial707/changelog-browser/internal/models"
)

// Resource names, used in failures and metric labels.
const (
	ResourceStats             = "stats"
	ResourceGlobalChangelog   = "global_changelog"
	ResourceCountryChangelog  = "country_changelog"
	ResourceArchiveIndex      = "archive_index"
	ResourceArchivedChangelog = "archived_changelog"
)

// maxBodyBytes caps a single artifact download (64 MiB).
const maxBodyBytes = 64 << 20

// Client reads changelog artifacts rooted at a base URL.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent with every fetch.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing() Option {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = otelhttp.NewTransport(base)
	}
}

// New creates a client for the given base URL (e.g. "https://example.com/changelogs").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "changelog-browser",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Stats fetches stats.json.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	if err := c.get(ctx, "/stats.json", &FetchFailure{Resource: ResourceStats}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GlobalChangelog fetches global-changelog.json.
func (c *Client) GlobalChangelog(ctx context.Context) (*models.ChangelogDocument, error) {
	var out models.ChangelogDocument
	if err := c.get(ctx, "/global-changelog.json", &FetchFailure{Resource: ResourceGlobalChangelog}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountryChangelog fetches countries/{code}.json.
func (c *Client) CountryChangelog(ctx context.Context, code string) (*models.ChangelogDocument, error) {
	fail := &FetchFailure{Resource: ResourceCountryChangelog, Code: code}
	var out models.ChangelogDocument
	if err := c.get(ctx, "/countries/"+pathSegment(code)+".json", fail, &out); err != nil {
		return nil, err
	}
	if out.CountryCode == "" {
		out.CountryCode = code
	}
	return &out, nil
}

// ArchiveIndex fetches archives/index.json.
func (c *Client) ArchiveIndex(ctx context.Context) (*models.ArchiveIndex, error) {
	var out models.ArchiveIndex
	if err := c.get(ctx, "/archives/index.json", &FetchFailure{Resource: ResourceArchiveIndex}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ArchivedChangelog fetches archives/{year}/{code}.json.
func (c *Client) ArchivedChangelog(ctx context.Context, year int, code string) (*models.ChangelogDocument, error) {
	fail := &FetchFailure{Resource: ResourceArchivedChangelog, Code: code, Year: year}
	var out models.ChangelogDocument
	path := "/archives/" + strconv.Itoa(year) + "/" + pathSegment(code) + ".json"
	if err := c.get(ctx, path, fail, &out); err != nil {
		return nil, err
	}
	if out.CountryCode == "" {
		out.CountryCode = code
	}
	if out.Year == 0 {
		out.Year = year
	}
	return &out, nil
}

// get issues one GET and decodes the JSON body into result. Every failure is
// reported as fail with the cause filled in.
func (c *Client) get(ctx context.Context, path string, fail *FetchFailure, result any) error {
	start := time.Now()
	err := c.fetch(ctx, path, fail, result)
	metrics.RecordFetch(fail.Resource, outcome(err), time.Since(start).Seconds())
	return err
}

func (c *Client) fetch(ctx context.Context, path string, fail *FetchFailure, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		fail.Err = fmt.Errorf("create request: %w", err)
		return fail
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fail.Err = fmt.Errorf("request failed: %w", err)
		return fail
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		fail.StatusCode = resp.StatusCode
		return fail
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(result); err != nil {
		fail.StatusCode = resp.StatusCode
		fail.Err = fmt.Errorf("decode response: %w", err)
		return fail
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

// pathSegment keeps user-supplied codes from escaping their path segment.
func pathSegment(s string) string {
	return strings.NewReplacer("/", "", "\\", "", "?", "", "#", "", "..", "").Replace(s)
}
