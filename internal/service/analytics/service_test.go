package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/cache"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/config"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) RecentTransactions(ctx context.Context, limit int) ([]TransactionRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TransactionRecord), args.Error(1)
}

func (m *mockRepository) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransactionRecord), args.Error(1)
}

func (m *mockRepository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardStats), args.Error(1)
}

func (m *mockRepository) Trends(ctx context.Context, days int) ([]TrendPoint, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TrendPoint), args.Error(1)
}

func (m *mockRepository) ListAlerts(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error) {
	args := m.Called(ctx, limit, includeResolved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *mockRepository) ResolveAlert(ctx context.Context, id uuid.UUID, at time.Time) (*alert.Alert, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.NewRedisCache(&config.RedisConfig{URL: mr.Addr()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDashboard_CachesRepositoryResult(t *testing.T) {
	repo := &mockRepository{}
	repo.On("DashboardStats", mock.Anything).Return(&DashboardStats{
		TotalTransactions:    10,
		TotalAmountProcessed: 4321.75,
		FraudDetected:        2,
		FraudRate:            0.2,
		AvgRiskScore:         0.35,
		OpenAlerts:           1,
		DecisionCounts:       map[string]int64{"APPROVE": 8, "REVIEW": 2},
	}, nil).Once()

	svc := NewService(repo, newTestCache(t), nil, testLogger(), 30*time.Second)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), first.TotalTransactions)
	assert.Equal(t, 4321.75, first.TotalAmountProcessed)

	// Second call is served from cache; the repository expectation would
	// fail if it were hit again.
	second, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalTransactions, second.TotalTransactions)
	assert.Equal(t, first.DecisionCounts, second.DecisionCounts)

	repo.AssertExpectations(t)
}

func TestDashboard_NilCacheGoesToRepository(t *testing.T) {
	repo := &mockRepository{}
	repo.On("DashboardStats", mock.Anything).Return(&DashboardStats{TotalTransactions: 5}, nil).Twice()

	svc := NewService(repo, nil, nil, testLogger(), 30*time.Second)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestTrends_ClampsDayWindow(t *testing.T) {
	repo := &mockRepository{}
	repo.On("Trends", mock.Anything, 7).Return([]TrendPoint{}, nil).Once()
	repo.On("Trends", mock.Anything, 90).Return([]TrendPoint{}, nil).Once()

	svc := NewService(repo, nil, nil, testLogger(), time.Second)
	ctx := context.Background()

	_, err := svc.Trends(ctx, 0)
	require.NoError(t, err)
	_, err = svc.Trends(ctx, 365)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestRecentTransactions_ClampsLimit(t *testing.T) {
	repo := &mockRepository{}
	repo.On("RecentTransactions", mock.Anything, defaultListLimit).Return([]TransactionRecord{}, nil).Once()
	repo.On("RecentTransactions", mock.Anything, maxListLimit).Return([]TransactionRecord{}, nil).Once()

	svc := NewService(repo, nil, nil, testLogger(), time.Second)
	ctx := context.Background()

	_, err := svc.RecentTransactions(ctx, -1)
	require.NoError(t, err)
	_, err = svc.RecentTransactions(ctx, 10000)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestResolveAlert_InvalidatesDashboardCache(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Seed a cached dashboard.
	require.NoError(t, c.SetJSON(ctx, cache.DashboardStatsKey, &DashboardStats{TotalTransactions: 1}, time.Minute))

	alertID := uuid.New()
	resolved, err := alert.New(uuid.New(), alert.TypeHighRiskTransaction, "HIGH", "resolved in test", nil)
	require.NoError(t, err)

	repo := &mockRepository{}
	repo.On("ResolveAlert", mock.Anything, alertID, mock.AnythingOfType("time.Time")).Return(resolved, nil).Once()

	svc := NewService(repo, c, nil, testLogger(), time.Minute)

	got, err := svc.ResolveAlert(ctx, alertID)
	require.NoError(t, err)
	assert.Equal(t, resolved, got)

	var stale DashboardStats
	err = c.GetJSON(ctx, cache.DashboardStatsKey, &stale)
	assert.IsType(t, cache.ErrCacheKeyNotFound{}, err, "cached dashboard must be invalidated")

	repo.AssertExpectations(t)
}
