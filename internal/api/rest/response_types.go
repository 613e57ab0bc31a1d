package rest

import (
	"time"

	"github.com/google/uuid"
)

// ScoreTransactionResponse is the synchronous scoring result returned to
// the caller.
type ScoreTransactionResponse struct {
	TransactionID    uuid.UUID          `json:"transaction_id"`
	RiskScore        float64            `json:"risk_score"`
	FraudProbability float64            `json:"fraud_probability"`
	RiskLevel        string             `json:"risk_level"`
	Decision         string             `json:"decision"`
	IsFraud          bool               `json:"is_fraud"`
	ModelScores      map[string]float64 `json:"model_scores"`
	Reasons          []string           `json:"reasons"`
	Timestamp        time.Time          `json:"timestamp"`
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
