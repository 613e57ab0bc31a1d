package scoring

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/alert"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/transaction"
)

// Service is the synchronous risk-scoring entrypoint. One call runs the full
// extraction, ensemble, decision and alert pipeline for one transaction.
type Service interface {
	// ScoreTransaction scores txn and returns the full assessment. The
	// transaction and its decision are persisted before returning; a
	// persistence failure is surfaced even though the score was computed.
	ScoreTransaction(ctx context.Context, txn *transaction.Transaction) (*Assessment, error)
}

// Repository is the durable storage collaborator. It is assumed to
// succeed-or-fail loudly; the scoring service does not retry.
type Repository interface {
	// SaveAssessment stores the transaction together with its score
	// breakdown and decision.
	SaveAssessment(ctx context.Context, a *Assessment) error
	// SaveAlert stores a fraud alert.
	SaveAlert(ctx context.Context, al *alert.Alert) error
}

// Notifier is the real-time notification collaborator. Delivery is
// fire-and-forget from the scoring pipeline's perspective: implementations
// must never block on slow subscribers and never report failure back.
type Notifier interface {
	NotifyFraud(ctx context.Context, event FraudEvent)
}

// FraudEvent is the real-time event fanned out to subscribers when a scored
// transaction crosses the fraud threshold.
type FraudEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Assessment bundles one scored transaction with its explainable score
// breakdown and the policy decision.
type Assessment struct {
	Transaction *transaction.Transaction `json:"transaction"`
	Scores      *ScoreResult             `json:"scores"`
	Decision    Decision                 `json:"decision"`
}
