package alert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

func TestNew(t *testing.T) {
	txnID := uuid.New()

	a, err := New(txnID, TypeHighRiskTransaction, "CRITICAL", "High risk transaction detected: $20000.00", map[string]interface{}{
		"ensemble_score": 0.87,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, txnID, a.TransactionID)
	assert.Equal(t, "CRITICAL", a.Severity)
	assert.False(t, a.Resolved)
	assert.Nil(t, a.ResolvedAt)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		txnID     uuid.UUID
		alertType string
		severity  string
	}{
		{"nil transaction id", uuid.Nil, TypeHighRiskTransaction, "HIGH"},
		{"empty type", uuid.New(), "", "HIGH"},
		{"empty severity", uuid.New(), TypeHighRiskTransaction, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.txnID, tt.alertType, tt.severity, "msg", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestAlert_Resolve(t *testing.T) {
	a, err := New(uuid.New(), TypeHighRiskTransaction, "HIGH", "msg", nil)
	require.NoError(t, err)

	resolvedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, a.Resolve(resolvedAt))
	assert.True(t, a.Resolved)
	require.NotNil(t, a.ResolvedAt)
	assert.Equal(t, resolvedAt, *a.ResolvedAt)

	err = a.Resolve(resolvedAt.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBusiness))
}
