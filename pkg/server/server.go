package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lizouzt/TrendRadar/pkg/auth"
	"github.com/lizouzt/TrendRadar/pkg/config"
	"github.com/lizouzt/TrendRadar/pkg/observability"
	"github.com/lizouzt/TrendRadar/pkg/storage"
)

// Server serves the MCP endpoint over streamable HTTP together with the
// health, readiness and metrics endpoints, and manages the full lifecycle
// including graceful shutdown.
type Server struct {
	mcpServer  *mcp.Server
	httpServer *http.Server
	cfg        config.ServerConfig
	gate       *auth.Gate
	archive    storage.Archive
	metrics    config.MetricsConfig
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGate sets the password gate. Without one the MCP endpoint is open.
func WithGate(g *auth.Gate) Option {
	return func(s *Server) { s.gate = g }
}

// WithArchive sets the snapshot archive probed by the readiness endpoint.
func WithArchive(a storage.Archive) Option {
	return func(s *Server) { s.archive = a }
}

// WithMetrics sets the metrics endpoint configuration.
func WithMetrics(m config.MetricsConfig) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server exposing mcpServer at cfg.Path. The middleware
// chain (recovery, request ID, logging, metrics, password gate, body
// limit) is applied to every route; health, readiness and metrics skip
// the gate.
func New(mcpServer *mcp.Server, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		mcpServer: mcpServer,
		cfg:       cfg,
		gate:      auth.NewGate(""),
		metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Path == "" {
		s.cfg.Path = "/mcp"
	}
	if s.cfg.ShutdownTimeout <= 0 {
		s.cfg.ShutdownTimeout = 10 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the fully assembled http.Handler. Use this to integrate
// with an existing http.Server or to test with httptest.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, streamable)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	if s.metrics.Enabled {
		mux.Handle("GET "+s.metrics.Path, promhttp.Handler())
	}

	bypass := auth.DefaultBypassEndpoints
	if s.metrics.Enabled && !slices.Contains(bypass, s.metrics.Path) {
		bypass = append(slices.Clone(bypass), s.metrics.Path)
	}

	chain := Chain(
		Recovery(s.logger),
		RequestID(),
		observability.MetricsMiddleware,
		Logging(s.logger),
		auth.Middleware(s.gate, bypass),
		limitBody(s.cfg.MaxBodyBytes),
	)
	return chain(mux)
}

// handleReadyz reports readiness. With an archive configured it probes
// storage health; a failing archive turns the endpoint 503 so load
// balancers stop routing before requests start failing.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.archive != nil {
		if err := s.archive.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("readiness probe failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("storage unavailable\n"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. On cancellation it shuts down gracefully, waiting for in-flight
// requests to complete within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.httpServer.Addr),
			slog.String("mcp_path", s.cfg.Path),
			slog.Bool("auth_enabled", s.gate.Enabled()),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.cfg.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
