package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/config"
	"github.com/crucial707/changelog-browser/internal/middleware"
)

// RouterDeps wires the JSON API.
type RouterDeps struct {
	Config config.Config
	Source Source
	Log    *logrus.Logger
	Ready  StatusReporter
}

// NewRouter builds the JSON API: view-models of the country list and of
// every changelog, plus health, readiness and metrics.
func NewRouter(d RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(d.Log))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(d.Config.HSTSEnabled(), middleware.APIContentSecurityPolicy))
	r.Use(middleware.CORS(d.Config.CORSAllowedOrigins))

	r.Get("/health", Health)
	r.Get("/ready", Ready(d.Ready))
	r.Handle("/metrics", promhttp.Handler())

	h := &ChangelogHandler{Source: d.Source, Log: d.Log}
	limiter := middleware.PerMinute(d.Config.RateLimitPerMinute, d.Config.RateLimitBurst)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/countries", h.ListCountries)
		r.Get("/countries/{code}/changes", h.CountryChanges)
		r.Get("/global/changes", h.GlobalChanges)
		r.Get("/archives", h.ListArchives)
		r.Get("/archives/{year}/{code}/changes", h.ArchiveChanges)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
