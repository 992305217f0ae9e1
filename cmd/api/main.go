package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/config"
	"github.com/crucial707/changelog-browser/internal/handlers"
	"github.com/crucial707/changelog-browser/internal/logging"
	"github.com/crucial707/changelog-browser/internal/scheduler"
)

const userAgent = "changelog-browser-api"

func main() {

	// Load configuration
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

	// Upstream probe feeds /ready and changelog_upstream_up
	prober := scheduler.NewProber(src, log, cfg.HTTPTimeout)
	if err := prober.Start(ctx, cfg.ProbeSchedule); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer prober.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, src, log, prober),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// Start server LAST
	log.WithFields(logrus.Fields{"addr": cfg.Addr(), "data_url": src.BaseURL()}).Info("starting API server")
	if cfg.TLSEnabled() {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newRouter builds the API handler, traced when enabled.
func newRouter(cfg config.Config, src handlers.Source, log *logrus.Logger, ready handlers.StatusReporter) http.Handler {
	r := handlers.NewRouter(handlers.RouterDeps{
		Config: cfg,
		Source: src,
		Log:    log,
		Ready:  ready,
	})
	if cfg.TracingEnabled {
		return otelhttp.NewHandler(r, "changelog-api")
	}
	return r
}
