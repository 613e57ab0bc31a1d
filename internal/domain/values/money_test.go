package values

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantCur  string
		wantErr  bool
	}{
		{
			name:     "valid USD",
			amount:   "100.50",
			currency: "USD",
			wantCur:  "USD",
		},
		{
			name:     "lowercase currency is normalized",
			amount:   "42",
			currency: "eur",
			wantCur:  "EUR",
		},
		{
			name:     "empty currency defaults to USD",
			amount:   "9.99",
			currency: "",
			wantCur:  "USD",
		},
		{
			name:     "two letter currency rejected",
			amount:   "1",
			currency: "US",
			wantErr:  true,
		},
		{
			name:     "numeric currency rejected",
			amount:   "1",
			currency: "U5D",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount, tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCur, m.Currency())
			want, _ := decimal.NewFromString(tt.amount)
			assert.True(t, m.Amount().Equal(want))
		})
	}
}

func TestMoney_FloatRoundTrip(t *testing.T) {
	m, err := NewMoneyFromFloat(123.45, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 123.45, m.ToFloat64(), 1e-9)
	assert.True(t, m.IsPositive())
}

func TestMoney_JSON(t *testing.T) {
	m := MustNewMoneyFromFloat(2500, "GBP")

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equal(decoded))
}

func TestMoney_Equal(t *testing.T) {
	a := MustNewMoneyFromFloat(10, "USD")
	b := MustNewMoneyFromFloat(10, "USD")
	c := MustNewMoneyFromFloat(10, "EUR")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
