// Package server exposes the HTTP API: generation, provider management,
// paint catalogs, history, and the admin error surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/errlog"
	"paintly_backend/generation"
	"paintly_backend/offline"
	"paintly_backend/providers"
)

// Server wires the HTTP layer to the generation pipeline.
type Server struct {
	cfg     *core.Config
	orch    *generation.Orchestrator
	manager *providers.Manager
	errors  *errlog.Logger
	net     *offline.Manager
	log     *zap.Logger

	limiter *ipLimiter
	httpSrv *http.Server
}

// New builds the server and its route table.
func New(
	cfg *core.Config,
	orch *generation.Orchestrator,
	manager *providers.Manager,
	errors *errlog.Logger,
	net *offline.Manager,
	log *zap.Logger,
) *Server {
	s := &Server{
		cfg:     cfg,
		orch:    orch,
		manager: manager,
		errors:  errors,
		net:     net,
		log:     log,
		limiter: newIPLimiter(cfg.RatePerMinute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/ai-providers", s.handleGetProviders)
	mux.HandleFunc("POST /api/ai-providers", s.requireAdmin(s.handleSetProvider))
	mux.HandleFunc("POST /api/generate", s.rateLimited(s.handleGenerate))
	mux.HandleFunc("POST /api/generate/preview", s.handlePreview)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/colors", s.handleColors)
	mux.HandleFunc("GET /api/errors/stats", s.requireAdmin(s.handleErrorStats))
	mux.HandleFunc("GET /api/errors/export", s.requireAdmin(s.handleErrorExport))

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation holds the request open for the whole provider call.
		WriteTimeout: cfg.AITimeout + 30*time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the route table, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
