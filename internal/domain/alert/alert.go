package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

// TypeHighRiskTransaction is the alert type raised by the scoring pipeline
// when the aggregate score crosses the fraud threshold.
const TypeHighRiskTransaction = "HIGH_RISK_TRANSACTION"

// Alert is raised for a transaction whose aggregate risk score qualifies it
// for review or blocking. Severity mirrors the risk level of the decision
// that produced it. An alert is created once and may later be resolved by a
// reviewer.
type Alert struct {
	ID            uuid.UUID              `json:"id"`
	TransactionID uuid.UUID              `json:"transaction_id"`
	Type          string                 `json:"alert_type"`
	Severity      string                 `json:"severity"`
	Message       string                 `json:"message"`
	Details       map[string]interface{} `json:"details,omitempty"`
	Resolved      bool                   `json:"resolved"`
	ResolvedAt    *time.Time             `json:"resolved_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// New creates an unresolved alert for a transaction.
func New(transactionID uuid.UUID, alertType, severity, message string, details map[string]interface{}) (*Alert, error) {
	if transactionID == uuid.Nil {
		return nil, errors.NewValidationError("MISSING_TRANSACTION_ID", "alert requires a transaction id")
	}
	if alertType == "" {
		return nil, errors.NewValidationError("MISSING_ALERT_TYPE", "alert type is required")
	}
	if severity == "" {
		return nil, errors.NewValidationError("MISSING_SEVERITY", "alert severity is required")
	}

	return &Alert{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Type:          alertType,
		Severity:      severity,
		Message:       message,
		Details:       details,
		Resolved:      false,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Resolve marks the alert as handled by a reviewer. Resolving twice is a
// business error so reviewer workflows notice double-acknowledgement.
func (a *Alert) Resolve(at time.Time) error {
	if a.Resolved {
		return errors.NewBusinessError("ALERT_ALREADY_RESOLVED",
			fmt.Sprintf("alert %s is already resolved", a.ID))
	}

	a.Resolved = true
	at = at.UTC()
	a.ResolvedAt = &at
	return nil
}
