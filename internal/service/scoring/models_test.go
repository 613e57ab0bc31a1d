package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountVelocityScore(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		userCount float64
		want      float64
	}{
		{"zero everything", 0, 0, 0},
		{"small amount only", 100, 0, 0.012},
		{"half the amount cap", 2500, 0, 0.3},
		{"amount at cap", 5000, 0, 0.6},
		{"amount beyond cap is clamped", 50000, 0, 0.6},
		{"velocity at cap", 0, 5, 0.4},
		{"velocity beyond cap is clamped", 0, 50, 0.4},
		{"both at cap", 5000, 5, 1.0},
		{"both beyond cap", 20000, 6, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FeatureVector
			f[FeatAmount] = tt.amount
			f[FeatUserTxnCount] = tt.userCount
			assert.InDelta(t, tt.want, amountVelocityScore(f), 1e-9)
		})
	}
}

func TestDeviationScore(t *testing.T) {
	ref := DefaultReferenceStats()

	t.Run("vector at the reference mean scores zero", func(t *testing.T) {
		var f FeatureVector
		copy(f[:], ref.Mean[:])
		assert.InDelta(t, 0.0, deviationScore(f, ref), 1e-9)
	})

	t.Run("single field four sigma out", func(t *testing.T) {
		var f FeatureVector
		copy(f[:], ref.Mean[:])
		f[FeatAmount] = ref.Mean[FeatAmount] + 4*ref.StdDev[FeatAmount]
		// one z-score of 4 averaged over nine fields, then scaled by 4
		assert.InDelta(t, 4.0/FeatureCount/deviationScale, deviationScore(f, ref), 1e-6)
	})

	t.Run("extreme vector clamps to one", func(t *testing.T) {
		var f FeatureVector
		for i := range f {
			f[i] = ref.Mean[i] + 1000*ref.StdDev[i]
		}
		assert.Equal(t, 1.0, deviationScore(f, ref))
	})
}

func TestRuleBasedScore(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		userCount   float64
		night       float64
		riskCountry float64
		want        float64
	}{
		{"no rules fire", 100, 0, 0, 0, 0},
		{"amount exactly at threshold does not fire", 5000, 0, 0, 0, 0},
		{"high amount", 5000.01, 0, 0, 0, 0.3},
		{"velocity exactly at threshold does not fire", 100, 5, 0, 0, 0},
		{"high velocity", 100, 6, 0, 0, 0.4},
		{"night only", 100, 0, 1, 0, 0.2},
		{"risk country only", 100, 0, 0, 1, 0.3},
		{"amount and velocity", 6000, 6, 0, 0, 0.7},
		{"all rules fire, clamped", 6000, 6, 1, 1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FeatureVector
			f[FeatAmount] = tt.amount
			f[FeatUserTxnCount] = tt.userCount
			f[FeatNight] = tt.night
			f[FeatHighRiskCountry] = tt.riskCountry
			assert.InDelta(t, tt.want, ruleBasedScore(f), 1e-9)
		})
	}
}

func TestDeviceSharingScore(t *testing.T) {
	tests := []struct {
		deviceCount float64
		want        float64
	}{
		{0, 0.2},
		{1, 0.2},
		{3, 0.2},
		{4, 0.5},
		{5, 0.5},
		{6, 0.8},
		{100, 0.8},
	}

	for _, tt := range tests {
		var f FeatureVector
		f[FeatDeviceTxnCount] = tt.deviceCount
		assert.Equal(t, tt.want, deviceSharingScore(f), "device count %v", tt.deviceCount)
	}
}
