// Package web provides the HTTP preview server for the reorder pipeline.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/tsvreorder/internal/config"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/JonMunkholm/tsvreorder/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RunLister lists recorded runs. Satisfied by *history.Store.
type RunLister interface {
	Recent(ctx context.Context, limit int) ([]reorder.RunRecord, error)
}

// Server is the HTTP server for the reorder preview service.
type Server struct {
	cfg      *config.Config
	columns  reorder.Config
	pipeline *reorder.Pipeline
	runs     RunLister
	limiter  *runLimiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server. columns fixes the column order applied to
// every uploaded table. runs may be nil when no database is configured.
func NewServer(cfg *config.Config, columns reorder.Config, pipeline *reorder.Pipeline, runs RunLister) *Server {
	s := &Server{
		cfg:      cfg,
		columns:  columns,
		pipeline: pipeline,
		runs:     runs,
		limiter:  newRunLimiter(cfg.Reorder.MaxConcurrent, cfg.Reorder.MaxWait),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Reorder.Timeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/reorder", s.handleReorder)
		r.Get("/runs", s.handleListRuns)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, then waits for preview runs that
// are still in flight.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if n := s.limiter.inFlight(); n > 0 {
		slog.Info("waiting for runs to complete", "active", n)
	}
	return s.limiter.drain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
