package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/infrastructure/database"
	"github.com/paysentinel/fraud-detection-backend/internal/service/analytics"
	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

// Repositories bundles the storage layer and adapts it onto the service
// contracts: it satisfies both scoring.Repository and analytics.Repository.
type Repositories struct {
	Transactions *TransactionRepository
	Alerts       *AlertRepository
}

func New(db *database.DB) *Repositories {
	pool := db.Pool()
	return &Repositories{
		Transactions: NewTransactionRepository(pool),
		Alerts:       NewAlertRepository(pool),
	}
}

var (
	_ scoring.Repository   = (*Repositories)(nil)
	_ analytics.Repository = (*Repositories)(nil)
)

func (r *Repositories) SaveAssessment(ctx context.Context, a *scoring.Assessment) error {
	return r.Transactions.SaveAssessment(ctx, a)
}

func (r *Repositories) SaveAlert(ctx context.Context, al *alert.Alert) error {
	return r.Alerts.Save(ctx, al)
}

func (r *Repositories) RecentTransactions(ctx context.Context, limit int) ([]analytics.TransactionRecord, error) {
	return r.Transactions.Recent(ctx, limit)
}

func (r *Repositories) GetTransaction(ctx context.Context, id uuid.UUID) (*analytics.TransactionRecord, error) {
	return r.Transactions.GetByID(ctx, id)
}

// DashboardStats merges the transaction aggregates with the open alert
// count.
func (r *Repositories) DashboardStats(ctx context.Context) (*analytics.DashboardStats, error) {
	stats, err := r.Transactions.Stats(ctx)
	if err != nil {
		return nil, err
	}

	open, err := r.Alerts.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	stats.OpenAlerts = open

	return stats, nil
}

func (r *Repositories) Trends(ctx context.Context, days int) ([]analytics.TrendPoint, error) {
	return r.Transactions.Trends(ctx, days)
}

func (r *Repositories) ListAlerts(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error) {
	return r.Alerts.List(ctx, limit, includeResolved)
}

func (r *Repositories) ResolveAlert(ctx context.Context, id uuid.UUID, at time.Time) (*alert.Alert, error) {
	return r.Alerts.Resolve(ctx, id, at)
}
