package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// FetchTotal counts upstream JSON fetches by resource and outcome (ok, not_found, error).
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changelog_fetch_total",
			Help: "Total number of upstream changelog fetches",
		},
		[]string{"resource", "outcome"},
	)

	// FetchDuration tracks upstream fetch latency by resource.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "changelog_fetch_duration_seconds",
			Help:    "Upstream changelog fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// UpstreamUp is 1 when the last upstream probe succeeded, 0 otherwise.
	UpstreamUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "changelog_upstream_up",
			Help: "Whether the last upstream probe succeeded",
		},
	)
)

var (
	countryPathSegment = regexp.MustCompile(`/[A-Za-z]{2}(/|$)`)
	yearPathSegment    = regexp.MustCompile(`/[0-9]{4}(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, FetchTotal, FetchDuration, UpstreamUp)
	})
}

// NormalizePath reduces cardinality by replacing year and country segments.
// E.g. /countries/US -> /countries/{code}, /archives/2024/IN -> /archives/{year}/{code}.
func NormalizePath(path string) string {
	path = yearPathSegment.ReplaceAllString(path, "/{year}$1")
	// Run twice: adjacent matches share the separating slash.
	path = countryPathSegment.ReplaceAllString(path, "/{code}$1")
	return countryPathSegment.ReplaceAllString(path, "/{code}$1")
}

// RecordRequest records duration and count for an HTTP request. route is the
// matched route pattern, or a NormalizePath result for unmatched requests.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	path := route
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordFetch records one upstream fetch.
func RecordFetch(resource, outcome string, durationSeconds float64) {
	FetchDuration.WithLabelValues(resource).Observe(durationSeconds)
	FetchTotal.WithLabelValues(resource, outcome).Inc()
}

// SetUpstreamUp records the outcome of an upstream probe.
func SetUpstreamUp(up bool) {
	if up {
		UpstreamUp.Set(1)
		return
	}
	UpstreamUp.Set(0)
}
