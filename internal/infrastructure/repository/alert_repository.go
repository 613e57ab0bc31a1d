package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

// AlertRepository persists fraud alerts and their resolution state.
type AlertRepository struct {
	db querier
}

func NewAlertRepository(db querier) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `
	id, transaction_id, type, severity, message, details,
	resolved, resolved_at, created_at`

// Save inserts a new alert.
func (r *AlertRepository) Save(ctx context.Context, al *alert.Alert) error {
	details, err := json.Marshal(al.Details)
	if err != nil {
		return errors.NewInternalError("marshaling alert details").WithCause(err)
	}

	query := `
		INSERT INTO alerts (
			id, transaction_id, type, severity, message, details,
			resolved, resolved_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		al.ID,
		al.TransactionID,
		al.Type,
		al.Severity,
		al.Message,
		details,
		al.Resolved,
		al.ResolvedAt,
		al.CreatedAt,
	)
	if err != nil {
		return errors.NewInternalError("inserting alert").WithCause(err)
	}

	return nil
}

// GetByID returns one alert.
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	return scanAlert(r.db.QueryRow(ctx, query, id))
}

// List returns alerts newest first. Resolved alerts are excluded unless
// includeResolved is set.
func (r *AlertRepository) List(ctx context.Context, limit int, includeResolved bool) ([]*alert.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	if !includeResolved {
		query += ` WHERE NOT resolved`
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.NewInternalError("querying alerts").WithCause(err)
	}
	defer rows.Close()

	alerts := make([]*alert.Alert, 0, limit)
	for rows.Next() {
		al, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, al)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("iterating alerts").WithCause(err)
	}

	return alerts, nil
}

// Resolve marks an alert resolved. Resolution goes through the domain
// object so double-resolution is rejected consistently.
func (r *AlertRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time) (*alert.Alert, error) {
	al, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := al.Resolve(at); err != nil {
		return nil, err
	}

	query := `
		UPDATE alerts
		SET resolved = TRUE, resolved_at = $2
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, al.ResolvedAt); err != nil {
		return nil, errors.NewInternalError("updating alert").WithCause(err)
	}

	return al, nil
}

// CountOpen returns how many alerts are unresolved.
func (r *AlertRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE NOT resolved`).Scan(&count)
	if err != nil {
		return 0, errors.NewInternalError("counting open alerts").WithCause(err)
	}
	return count, nil
}

func scanAlert(row pgx.Row) (*alert.Alert, error) {
	var (
		al      alert.Alert
		details []byte
	)

	err := row.Scan(
		&al.ID, &al.TransactionID, &al.Type, &al.Severity, &al.Message,
		&details, &al.Resolved, &al.ResolvedAt, &al.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "alert")
	}

	if len(details) > 0 {
		if err := json.Unmarshal(details, &al.Details); err != nil {
			return nil, errors.NewInternalError("unmarshaling alert details").WithCause(err)
		}
	}

	return &al, nil
}
