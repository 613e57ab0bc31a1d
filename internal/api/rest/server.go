package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
)

// Server is the HTTP front of the service: the scoring and analytics API,
// the websocket feed, health probes and the Prometheus scrape endpoint.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Deps are the collaborators the server routes to. Metrics may be nil when
// the scrape endpoint is disabled; Middleware is appended to the standard
// chain, innermost last.
type Deps struct {
	Handler    *Handler
	Hub        *Hub
	Health     *HealthHandler
	Metrics    http.Handler
	Middleware []func(http.Handler) http.Handler
	Logger     *slog.Logger
}

func NewServer(cfg config.ServerConfig, rl config.RateLimitConfig, deps Deps) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/transactions/score", deps.Handler.scoreTransaction)
	mux.HandleFunc("GET /api/v1/transactions/recent", deps.Handler.recentTransactions)
	mux.HandleFunc("GET /api/v1/transactions/{id}", deps.Handler.getTransaction)
	mux.HandleFunc("GET /api/v1/analytics/dashboard", deps.Handler.dashboard)
	mux.HandleFunc("GET /api/v1/analytics/trends", deps.Handler.trends)
	mux.HandleFunc("GET /api/v1/analytics/alerts", deps.Handler.listAlerts)
	mux.HandleFunc("POST /api/v1/alerts/{id}/resolve", deps.Handler.resolveAlert)

	mux.Handle("GET /ws", deps.Hub)

	mux.HandleFunc("GET /healthz", deps.Health.liveness)
	mux.HandleFunc("GET /readyz", deps.Health.readiness)

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	middlewares := []func(http.Handler) http.Handler{
		recoveryMiddleware(deps.Logger),
		requestIDMiddleware,
		loggingMiddleware(deps.Logger),
		rateLimitMiddleware(rl.RequestsPerSecond, rl.BurstSize),
	}
	middlewares = append(middlewares, deps.Middleware...)
	handler := chain(mux, middlewares...)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: deps.Logger,
	}
}

// Start blocks serving requests until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
