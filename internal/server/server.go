// Package server exposes the error pipeline over HTTP: an ingestion API for
// the admin frontend, statistics and buffer management, health, and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/greenlane/errwatch/internal/analytics"
	"github.com/greenlane/errwatch/internal/config"
	"github.com/greenlane/errwatch/internal/engine"
	"github.com/greenlane/errwatch/internal/metrics"
	"github.com/greenlane/errwatch/internal/retry"
)

// Server manages the HTTP endpoints.
type Server struct {
	cfg        config.ServerConfig
	engine     *engine.Engine
	recorder   *analytics.Recorder
	policy     retry.Policy
	registry   *prom.Registry
	logger     *slog.Logger
	httpServer *http.Server
}

// New constructs a new HTTP server wiring instance. registry may be nil to
// disable the metrics endpoint.
func New(cfg config.ServerConfig, eng *engine.Engine, recorder *analytics.Recorder, policy retry.Policy, registry *prom.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		engine:   eng,
		recorder: recorder,
		policy:   policy,
		registry: registry,
		logger:   logger,
	}
}

// Handler builds the routed and middleware-wrapped handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/errors", s.handleErrors)
	mux.HandleFunc("/api/v1/errors/generic", s.handleGeneric)
	mux.HandleFunc("/api/v1/errors/stats", s.handleStats)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	return Chain(s.logger)(mux)
}

// Start pre-binds the listener so port conflicts surface immediately, then
// serves in the background.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http startup failed: port %d: %w", s.cfg.Port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped unexpectedly", "error", err)
		}
	}()

	s.logger.Info("HTTP server started", slog.Int("port", s.cfg.Port))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
