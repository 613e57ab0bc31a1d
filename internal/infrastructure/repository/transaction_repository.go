package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
	"github.com/paysentinel/fraud-detection-backend/internal/service/analytics"
	"github.com/paysentinel/fraud-detection-backend/internal/service/scoring"
)

// querier is satisfied by *pgxpool.Pool and pgx transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TransactionRepository persists scored transactions and serves the
// transaction read model.
type TransactionRepository struct {
	db querier
}

func NewTransactionRepository(db querier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, user_id, merchant_id, amount, currency, country, device_id, type, channel,
	risk_score, risk_level, decision, is_fraud, model_scores, reasons,
	occurred_at, created_at`

// SaveAssessment stores one scored transaction with its full score
// breakdown.
func (r *TransactionRepository) SaveAssessment(ctx context.Context, a *scoring.Assessment) error {
	txn := a.Transaction

	modelScores, err := json.Marshal(a.Scores.ModelScores)
	if err != nil {
		return errors.NewInternalError("marshaling model scores").WithCause(err)
	}
	reasons, err := json.Marshal(a.Scores.Reasons)
	if err != nil {
		return errors.NewInternalError("marshaling reasons").WithCause(err)
	}

	query := `
		INSERT INTO transactions (
			id, user_id, merchant_id, amount, currency, country, device_id,
			ip_address, type, channel, risk_score, fraud_probability,
			risk_level, decision, is_fraud, model_scores, reasons,
			occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.MerchantID,
		txn.Amount.Amount().String(),
		txn.Amount.Currency(),
		txn.Country,
		txn.DeviceID,
		txn.IPAddress,
		string(txn.Type),
		string(txn.Channel),
		a.Scores.EnsembleScore,
		a.Scores.FraudProbability,
		string(a.Decision.RiskLevel),
		string(a.Decision.Action),
		a.Decision.IsFraud,
		modelScores,
		reasons,
		txn.OccurredAt,
		txn.CreatedAt,
	)
	if err != nil {
		return errors.NewInternalError("inserting transaction").WithCause(err)
	}

	return nil
}

// Recent returns the most recently scored transactions, newest first.
func (r *TransactionRepository) Recent(ctx context.Context, limit int) ([]analytics.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1`, transactionColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.NewInternalError("querying recent transactions").WithCause(err)
	}
	defer rows.Close()

	records := make([]analytics.TransactionRecord, 0, limit)
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("iterating transactions").WithCause(err)
	}

	return records, nil
}

// GetByID returns one scored transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*analytics.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE id = $1`, transactionColumns)

	return scanTransaction(r.db.QueryRow(ctx, query, id))
}

// Stats computes the transaction-side dashboard aggregates. The open alert
// count is owned by the alert repository.
func (r *TransactionRepository) Stats(ctx context.Context) (*analytics.DashboardStats, error) {
	stats := &analytics.DashboardStats{
		RiskLevelCounts: make(map[string]int64),
		DecisionCounts:  make(map[string]int64),
	}

	summary := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount), 0),
			COUNT(*) FILTER (WHERE is_fraud),
			COALESCE(AVG(risk_score), 0)
		FROM transactions`

	if err := r.db.QueryRow(ctx, summary).Scan(
		&stats.TotalTransactions,
		&stats.TotalAmountProcessed,
		&stats.FraudDetected,
		&stats.AvgRiskScore,
	); err != nil {
		return nil, errors.NewInternalError("querying transaction stats").WithCause(err)
	}

	if stats.TotalTransactions > 0 {
		stats.FraudRate = float64(stats.FraudDetected) / float64(stats.TotalTransactions)
	}

	if err := r.groupedCounts(ctx, "risk_level", stats.RiskLevelCounts); err != nil {
		return nil, err
	}
	if err := r.groupedCounts(ctx, "decision", stats.DecisionCounts); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *TransactionRepository) groupedCounts(ctx context.Context, column string, out map[string]int64) error {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM transactions
		GROUP BY %s`, column, column)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return errors.NewInternalError("querying " + column + " counts").WithCause(err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return errors.NewInternalError("scanning " + column + " count").WithCause(err)
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return errors.NewInternalError("iterating " + column + " counts").WithCause(err)
	}

	return nil
}

// Trends returns one row per day of scoring activity for the trailing
// window, oldest first. Days with no traffic are omitted.
func (r *TransactionRepository) Trends(ctx context.Context, days int) ([]analytics.TrendPoint, error) {
	query := `
		SELECT
			date_trunc('day', created_at) AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_fraud),
			COALESCE(AVG(risk_score), 0)
		FROM transactions
		WHERE created_at >= now() - ($1 * INTERVAL '1 day')
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return nil, errors.NewInternalError("querying trends").WithCause(err)
	}
	defer rows.Close()

	var points []analytics.TrendPoint
	for rows.Next() {
		var p analytics.TrendPoint
		if err := rows.Scan(&p.Day, &p.Transactions, &p.FraudCount, &p.AvgRiskScore); err != nil {
			return nil, errors.NewInternalError("scanning trend point").WithCause(err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("iterating trends").WithCause(err)
	}

	return points, nil
}

func scanTransaction(row pgx.Row) (*analytics.TransactionRecord, error) {
	var (
		rec         analytics.TransactionRecord
		modelScores []byte
		reasons     []byte
		occurredAt  time.Time
		createdAt   time.Time
	)

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.MerchantID, &rec.Amount, &rec.Currency,
		&rec.Country, &rec.DeviceID, &rec.Type, &rec.Channel,
		&rec.RiskScore, &rec.RiskLevel, &rec.Decision, &rec.IsFraud,
		&modelScores, &reasons, &occurredAt, &createdAt,
	)
	if err != nil {
		return nil, notFound(err, "transaction")
	}

	if err := json.Unmarshal(modelScores, &rec.ModelScores); err != nil {
		return nil, errors.NewInternalError("unmarshaling model scores").WithCause(err)
	}
	if err := json.Unmarshal(reasons, &rec.Reasons); err != nil {
		return nil, errors.NewInternalError("unmarshaling reasons").WithCause(err)
	}

	rec.OccurredAt = occurredAt
	rec.CreatedAt = createdAt
	return &rec, nil
}
