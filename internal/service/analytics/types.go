package analytics

import (
	"time"

	"github.com/google/uuid"
)

// TransactionRecord is the flattened read model of a scored transaction as
// stored. It carries the score breakdown alongside the transaction fields
// so list endpoints need a single query.
type TransactionRecord struct {
	ID          uuid.UUID          `json:"id"`
	UserID      string             `json:"user_id"`
	MerchantID  string             `json:"merchant_id"`
	Amount      float64            `json:"amount"`
	Currency    string             `json:"currency"`
	Country     string             `json:"country"`
	DeviceID    string             `json:"device_id"`
	Type        string             `json:"type"`
	Channel     string             `json:"channel"`
	RiskScore   float64            `json:"risk_score"`
	RiskLevel   string             `json:"risk_level"`
	Decision    string             `json:"decision"`
	IsFraud     bool               `json:"is_fraud"`
	ModelScores map[string]float64 `json:"model_scores"`
	Reasons     []string           `json:"reasons"`
	OccurredAt  time.Time          `json:"occurred_at"`
	CreatedAt   time.Time          `json:"created_at"`
}

// DashboardStats is the aggregate view served to the operations dashboard.
type DashboardStats struct {
	TotalTransactions    int64            `json:"total_transactions"`
	TotalAmountProcessed float64          `json:"total_amount_processed"`
	FraudDetected        int64            `json:"fraud_detected"`
	FraudRate            float64          `json:"fraud_rate"`
	AvgRiskScore         float64          `json:"avg_risk_score"`
	OpenAlerts           int64            `json:"open_alerts"`
	RiskLevelCounts      map[string]int64 `json:"risk_level_counts"`
	DecisionCounts       map[string]int64 `json:"decision_counts"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// TrendPoint is one day of scoring activity.
type TrendPoint struct {
	Day          time.Time `json:"day"`
	Transactions int64     `json:"transactions"`
	FraudCount   int64     `json:"fraud_count"`
	AvgRiskScore float64   `json:"avg_risk_score"`
}
