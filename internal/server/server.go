// Package server exposes a loaded taxonomy over HTTP.
//
// Routes:
//
//	GET /healthz                          liveness and tree size
//	GET /ranks                            inferred rank order
//	GET /taxa/{id}                        one taxon and its children
//	GET /taxa/{id}/tree?depth=N&ids=a,b   indented text tree, or JSON with format=json
//	GET /taxa/{id}/lineages?ids=a,b       lineage table as CSV
//	GET /metrics                          Prometheus metrics
//
// The tree is shared read-only between requests; pruning works on copies.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves one tree.
type Server struct {
	Tree    *taxonomy.Tree
	Logger  *log.Logger
	Metrics *Metrics

	registry *prometheus.Registry
}

// New creates a server for tree with a fresh metrics registry.
func New(tree *taxonomy.Tree, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		Tree:     tree,
		Logger:   logger,
		Metrics:  NewMetrics(reg),
		registry: reg,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ranks", s.handleRanks)
	r.Route("/taxa/{id}", func(r chi.Router) {
		r.Get("/", s.handleTaxon)
		r.Get("/tree", s.handleTree)
		r.Get("/lineages", s.handleLineages)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr, "taxa", s.Tree.Len())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// instrument records request counts and latency by route pattern, and logs
// each request at debug level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.Metrics.observeRequest(route, status, elapsed)
		s.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "elapsed", elapsed)
	})
}
