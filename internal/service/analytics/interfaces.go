package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
)

// Service exposes the read side of the scoring pipeline: transaction
// lookups, operational aggregates and alert management.
type Service interface {
	// RecentTransactions returns the most recently scored transactions,
	// newest first.
	RecentTransactions(ctx context.Context, limit int) ([]TransactionRecord, error)

	// GetTransaction returns one scored transaction by ID.
	GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionRecord, error)

	// Dashboard returns the aggregate stats, served from cache when fresh.
	Dashboard(ctx context.Context) (*DashboardStats, error)

	// Trends returns daily scoring activity for the trailing window.
	Trends(ctx context.Context, days int) ([]TrendPoint, error)

	// ListAlerts returns alerts, newest first. Resolved alerts are
	// included only when includeResolved is set.
	ListAlerts(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error)

	// ResolveAlert marks an alert resolved and returns the updated record.
	ResolveAlert(ctx context.Context, id uuid.UUID) (*alert.Alert, error)
}

// Repository is the storage contract for the read side.
type Repository interface {
	RecentTransactions(ctx context.Context, limit int) ([]TransactionRecord, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionRecord, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	Trends(ctx context.Context, days int) ([]TrendPoint, error)
	ListAlerts(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, at time.Time) (*alert.Alert, error)
}
