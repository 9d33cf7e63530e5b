// Package server exposes the analysis pipeline over HTTP.
//
// Routes:
//
//	POST /api/v1/analyze   analyze a package.json (inline or from GitHub)
//	POST /api/v1/layout    rebuild a tower from saved packages
//	GET  /healthz          liveness and build version
//	GET  /metrics          Prometheus metrics, when a registry is configured
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/jengatower/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies at 1 MiB.
const DefaultMaxBodyBytes = 1 << 20

// Config configures a [Server].
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// MaxBodyBytes caps request bodies. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Registry, when set, receives request metrics and is served at /metrics.
	Registry *prometheus.Registry
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	// Set before Route so the API subrouter inherits them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Registry != nil {
			r.Use(instrument(cfg.Registry))
		}
		r.Use(middleware.RequestSize(s.maxBody))
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/layout", s.handleLayout)
	})

	s.router = r
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully, giving in-flight analyses up to writeTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
