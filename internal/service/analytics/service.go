package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/cache"
	"github.com/paysentinel/fraud-detection-backend/internal/metrics"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	defaultTrendDays = 7
	maxTrendDays     = 90
)

type service struct {
	repo     Repository
	cache    cache.Cache
	registry *metrics.Registry
	logger   *slog.Logger
	ttl      time.Duration
}

// NewService creates the analytics service. cache may be nil, in which case
// every read goes to the repository.
func NewService(repo Repository, c cache.Cache, registry *metrics.Registry, logger *slog.Logger, dashboardTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cache:    c,
		registry: registry,
		logger:   logger,
		ttl:      dashboardTTL,
	}
}

func (s *service) RecentTransactions(ctx context.Context, limit int) ([]TransactionRecord, error) {
	return s.repo.RecentTransactions(ctx, clampLimit(limit))
}

func (s *service) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionRecord, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		if err := s.cache.GetJSON(ctx, cache.DashboardStatsKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = time.Now().UTC()

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.DashboardStatsKey, stats, s.ttl); err != nil {
			// Serving the fresh result matters more than caching it.
			s.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
		}
	}

	return stats, nil
}

func (s *service) Trends(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	key := fmt.Sprintf("%s%d", cache.TrendsKeyPrefix, days)
	if s.cache != nil {
		var cached []TrendPoint
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	trends, err := s.repo.Trends(ctx, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, trends, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "trends cache write failed", "error", err)
		}
	}

	return trends, nil
}

func (s *service) ListAlerts(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error) {
	return s.repo.ListAlerts(ctx, clampLimit(limit), includeResolved)
}

func (s *service) ResolveAlert(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	resolved, err := s.repo.ResolveAlert(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.registry != nil {
		s.registry.RecordAlertResolved(ctx)
	}

	// The open-alert count on the dashboard just changed.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.DashboardStatsKey); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache invalidation failed", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "alert resolved", "alert_id", id)
	return resolved, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
