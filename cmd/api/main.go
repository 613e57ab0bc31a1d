package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/paysentinel/fraud-detection-backend/internal/api/rest"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/cache"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/database"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/repository"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/telemetry"
	"github.com/paysentinel/fraud-detection-backend/internal/metrics"
	"github.com/paysentinel/fraud-detection-backend/internal/service/analytics"
	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting fraud detection backend",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port)

	// Infrastructure layers log through zap, service layers through slog.
	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	provider, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Version, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	registry, err := metrics.NewRegistry(otel.Meter("fraud-detection-backend"))
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, &cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(&cfg.Redis, zapLogger)
	if err != nil {
		return err
	}
	defer func() { _ = redisCache.Close() }()

	repos := repository.New(db)

	userTracker := scoring.NewVelocityTracker(cfg.Scoring.TrackerCapacityPerShard)
	deviceTracker := scoring.NewVelocityTracker(cfg.Scoring.TrackerCapacityPerShard)
	extractor := scoring.NewExtractor(userTracker, deviceTracker, cfg.Scoring.HighRiskCountries)

	ensemble, err := scoring.NewEnsemble(scoring.Weights{
		AmountVelocity: cfg.Scoring.Weights.AmountVelocity,
		Deviation:      cfg.Scoring.Weights.Deviation,
		RuleBased:      cfg.Scoring.Weights.RuleBased,
		DeviceSharing:  cfg.Scoring.Weights.DeviceSharing,
	}, cfg.Scoring.ReferenceStats)
	if err != nil {
		return err
	}

	hub := rest.NewHub(registry, logger)
	go hub.Run(ctx)

	if err := registry.RegisterWebSocketClients(hub.ClientCount); err != nil {
		return err
	}
	if err := registry.RegisterTrackedEntities(func() int64 {
		return int64(userTracker.Len() + deviceTracker.Len())
	}); err != nil {
		return err
	}

	notifier := rest.NewFraudNotifier(hub, redisCache, logger)
	scoringSvc := scoring.NewService(extractor, ensemble, repos, notifier, registry, logger)
	analyticsSvc := analytics.NewService(repos, redisCache, registry, logger, cfg.Redis.DashboardTTL)

	health := rest.NewHealthHandler(
		rest.HealthCheckerFunc{CheckerName: "database", Fn: db.Health},
		rest.HealthCheckerFunc{CheckerName: "redis", Fn: redisCache.Ping},
	)

	server := rest.NewServer(cfg.Server, cfg.RateLimit, rest.Deps{
		Handler:    rest.NewHandler(scoringSvc, analyticsSvc, logger),
		Hub:        hub,
		Health:     health,
		Metrics:    metricsHandler(),
		Middleware: []func(http.Handler) http.Handler{httpMetricsMiddleware},
		Logger:     logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
