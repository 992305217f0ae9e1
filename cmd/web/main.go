package main

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/config"
	"github.com/crucial707/changelog-browser/internal/handlers"
	"github.com/crucial707/changelog-browser/internal/logging"
	"github.com/crucial707/changelog-browser/internal/middleware"
	"github.com/crucial707/changelog-browser/internal/scheduler"
)

//go:embed templates
var templatesFS embed.FS

const userAgent = "changelog-browser-web"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogFormat, cfg.LogLevel)

	opts := []client.Option{client.WithTimeout(cfg.HTTPTimeout), client.WithUserAgent(userAgent)}
	if cfg.TracingEnabled {
		opts = append(opts, client.WithTracing())
	}
	src := client.New(cfg.DataURL, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := scheduler.NewProber(src, log, cfg.HTTPTimeout)
	if err := prober.Start(ctx, cfg.ProbeSchedule); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer prober.Stop()

	var handler http.Handler = newRouter(cfg, src, log, prober)
	if cfg.TracingEnabled {
		handler = otelhttp.NewHandler(handler, "changelog-web")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr(), "data_url": src.BaseURL(), "tls": cfg.TLSEnabled()}).
		Info("changelog browser running")
	if cfg.TLSEnabled() {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newRouter(cfg config.Config, src handlers.Source, log *logrus.Logger, ready handlers.StatusReporter) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.HSTSEnabled(), middleware.PageContentSecurityPolicy))

	// Health (no rate limit, no templates)
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(ready))
	r.Handle("/metrics", promhttp.Handler())

	pages := &pages{src: src, log: log, now: time.Now}
	limiter := middleware.PerMinute(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/", pages.countries)
		r.Get("/countries/{code}", pages.country)
		r.Get("/countries/{code}/export", pages.export)
		r.Get("/global", pages.global)
		r.Get("/archives", pages.archives)
		r.Get("/archives/{year}/{code}", pages.archive)
	})
	return r
}
