package scoring

import "math"

// The four sub-models are independent pure functions over a feature vector,
// each clamping its own output to [0,1]. The combiner never re-clamps, so
// these formulas are the explainability contract and are unit-testable in
// isolation.

// amountVelocityScore blends normalized amount risk with normalized user
// velocity risk.
func amountVelocityScore(f FeatureVector) float64 {
	amountRisk := math.Min(f[FeatAmount]/amountRiskCap, 1.0)
	velocityRisk := math.Min(f[FeatUserTxnCount]/velocityRiskCap, 1.0)
	return clamp01(amountRisk*0.6 + velocityRisk*0.4)
}

// deviationScore averages per-field absolute z-scores against the reference
// distribution, scaled down so moderate deviation stays below the review
// band.
func deviationScore(f FeatureVector, ref ReferenceStats) float64 {
	var total float64
	for i := 0; i < FeatureCount; i++ {
		z := math.Abs((f[i] - ref.Mean[i]) / (ref.StdDev[i] + deviationEpsilon))
		total += z
	}
	mean := total / FeatureCount
	return clamp01(mean / deviationScale)
}

// ruleBasedScore applies additive penalties for discrete risk conditions.
func ruleBasedScore(f FeatureVector) float64 {
	risk := 0.0

	if f[FeatAmount] > ruleHighAmountThreshold {
		risk += ruleHighAmountPenalty
	}
	if f[FeatUserTxnCount] > ruleHighVelocityThreshold {
		risk += ruleHighVelocityPenalty
	}
	if f[FeatNight] == 1 {
		risk += ruleNightPenalty
	}
	if f[FeatHighRiskCountry] == 1 {
		risk += ruleRiskCountryPenalty
	}

	return clamp01(risk)
}

// deviceSharingScore is a step function on how many prior transactions the
// device has been seen on.
func deviceSharingScore(f FeatureVector) float64 {
	switch count := f[FeatDeviceTxnCount]; {
	case count > deviceSharingHighCount:
		return deviceSharingHighScore
	case count > deviceSharingMidCount:
		return deviceSharingMidScore
	default:
		return deviceSharingBaseScore
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
