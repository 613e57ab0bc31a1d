package values

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with currency and precision handling
type Money struct {
	amount   decimal.Decimal
	currency string
}

// DefaultCurrency is assumed when the caller omits a currency code.
const DefaultCurrency = "USD"

// NewMoney creates a new Money value object
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	normalized, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}

	return Money{
		amount:   amount,
		currency: normalized,
	}, nil
}

// NewMoneyFromString creates Money from string amount and currency
func NewMoneyFromString(amount, currency string) (Money, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount: %w", err)
	}

	return NewMoney(dec, currency)
}

// NewMoneyFromFloat creates Money from float64 amount and currency.
// Note: use with caution due to floating point precision issues
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// MustNewMoneyFromFloat creates Money from float and panics on error (for constants/tests)
func MustNewMoneyFromFloat(amount float64, currency string) Money {
	m, err := NewMoneyFromFloat(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO 4217 currency code
func (m Money) Currency() string {
	return m.currency
}

// IsPositive checks if the amount is strictly greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equal checks if two Money values are equal (same amount and currency)
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

// ToFloat64 converts to float64 (use with caution for precision)
func (m Money) ToFloat64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the amount with currency code (e.g., "123.45 USD")
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

func (m Money) MarshalJSON() ([]byte, error) {
	data := struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	}
	return json.Marshal(data)
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var temp struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	money, err := NewMoneyFromString(temp.Amount, temp.Currency)
	if err != nil {
		return err
	}

	*m = money
	return nil
}

// normalizeCurrency validates the ISO 4217 shape of a currency code and
// uppercases it. An empty code falls back to DefaultCurrency.
func normalizeCurrency(currency string) (string, error) {
	if currency == "" {
		return DefaultCurrency, nil
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return "", fmt.Errorf("currency code must be 3 characters, got %q", currency)
	}

	for _, r := range currency {
		if !unicode.IsUpper(r) {
			return "", fmt.Errorf("currency code must be alphabetic, got %q", currency)
		}
	}

	return currency, nil
}
