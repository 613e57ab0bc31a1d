package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
	"github.com/paysentinel/fraud-detection-backend/internal/domain/values"
)

// Type identifies the kind of money movement.
type Type string

const (
	TypePurchase   Type = "purchase"
	TypeTransfer   Type = "transfer"
	TypeWithdrawal Type = "withdrawal"
)

// Channel identifies the origination surface of a transaction.
type Channel string

const (
	ChannelWeb    Channel = "web"
	ChannelMobile Channel = "mobile"
	ChannelPOS    Channel = "pos"
)

// Transaction is an immutable transaction submitted for risk scoring. The ID
// is minted by the service at entry; callers never supply one. Type and
// Channel are open values on purpose: an unrecognized label is not a
// validation error, it scores with a default encoding.
type Transaction struct {
	ID         uuid.UUID    `json:"id"`
	UserID     string       `json:"user_id"`
	MerchantID string       `json:"merchant_id"`
	Amount     values.Money `json:"amount"`
	Country    string       `json:"country"`
	DeviceID   string       `json:"device_id"`
	IPAddress  string       `json:"ip_address"`
	Type       Type         `json:"transaction_type"`
	Channel    Channel      `json:"channel"`

	// OccurredAt is the evaluation time for time-derived risk features. The
	// API boundary defaults it to server time when the caller omits it; the
	// scoring pipeline never reads the ambient clock.
	OccurredAt time.Time `json:"occurred_at"`

	CreatedAt time.Time `json:"created_at"`
}

// New validates the raw attributes, mints a transaction ID and returns the
// immutable transaction value.
func New(userID, merchantID string, amount values.Money, country, deviceID, ipAddress string, txType Type, channel Channel, occurredAt time.Time) (*Transaction, error) {
	if userID == "" {
		return nil, errors.NewValidationError("MISSING_USER_ID", "user_id is required")
	}
	if merchantID == "" {
		return nil, errors.NewValidationError("MISSING_MERCHANT_ID", "merchant_id is required")
	}
	if deviceID == "" {
		return nil, errors.NewValidationError("MISSING_DEVICE_ID", "device_id is required")
	}
	if country == "" {
		return nil, errors.NewValidationError("MISSING_COUNTRY", "country is required")
	}
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if occurredAt.IsZero() {
		return nil, errors.NewValidationError("MISSING_OCCURRED_AT", "occurred_at is required")
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		MerchantID: merchantID,
		Amount:     amount,
		Country:    country,
		DeviceID:   deviceID,
		IPAddress:  ipAddress,
		Type:       txType,
		Channel:    channel,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}, nil
}

// Hour returns the hour-of-day of the evaluation time, 0-23.
func (t *Transaction) Hour() int {
	return t.OccurredAt.Hour()
}

// IsNight reports whether the transaction falls in the night window
// (23:00-06:59 inclusive on both ends).
func (t *Transaction) IsNight() bool {
	h := t.Hour()
	return h >= 23 || h <= 6
}
