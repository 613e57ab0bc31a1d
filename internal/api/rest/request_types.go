package rest

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ScoreTransactionRequest is the payload for POST /api/v1/transactions/score.
// OccurredAt is optional; it defaults to the server clock so external
// callers don't need to synchronize time, while replay tooling can pin it.
type ScoreTransactionRequest struct {
	UserID     string  `json:"user_id" validate:"required"`
	MerchantID string  `json:"merchant_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Currency   string  `json:"currency" validate:"omitempty,len=3,alpha"`
	Country    string  `json:"country" validate:"required,len=2,alpha"`
	DeviceID   string  `json:"device_id" validate:"required"`
	IPAddress  string  `json:"ip_address" validate:"omitempty,ip"`
	Type       string  `json:"type" validate:"required"`
	Channel    string  `json:"channel" validate:"required"`

	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}
