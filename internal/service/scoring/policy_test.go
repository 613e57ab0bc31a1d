package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		wantLevel RiskLevel
		wantAct   Action
		wantFraud bool
	}{
		{"zero", 0.0, RiskMinimal, ActionApprove, false},
		{"just below low", 0.1999, RiskMinimal, ActionApprove, false},
		{"low boundary", 0.2, RiskLow, ActionApprove, false},
		{"just below medium", 0.3999, RiskLow, ActionApprove, false},
		{"medium boundary", 0.4, RiskMedium, ActionApprove, false},
		{"just below fraud threshold", 0.5999, RiskMedium, ActionApprove, false},
		{"fraud threshold", 0.6, RiskHigh, ActionReview, true},
		{"just below critical", 0.7999, RiskHigh, ActionReview, true},
		{"critical boundary", 0.8, RiskCritical, ActionBlock, true},
		{"maximum", 1.0, RiskCritical, ActionBlock, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.score)
			assert.Equal(t, tt.wantLevel, d.RiskLevel)
			assert.Equal(t, tt.wantAct, d.Action)
			assert.Equal(t, tt.wantFraud, d.IsFraud)
		})
	}
}
