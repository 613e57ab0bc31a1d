package scoring

import (
	"fmt"
	"math"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/errors"
)

// ScoreResult is the explainable output of the ensemble: per-model scores,
// their weighted aggregate, and the ordered reason list. FraudProbability is
// the ensemble score under a second name kept for API compatibility; no
// separate probability model exists.
type ScoreResult struct {
	ModelScores      map[string]float64 `json:"model_scores"`
	EnsembleScore    float64            `json:"ensemble_score"`
	FraudProbability float64            `json:"fraud_probability"`
	Reasons          []string           `json:"reasons"`
}

// Ensemble fuses the four sub-model scores into one aggregate using fixed
// weights, and generates human-readable reasons. Scoring is deterministic:
// the same feature vector always yields the same result.
type Ensemble struct {
	weights Weights
	ref     ReferenceStats
}

// NewEnsemble validates the weights and returns a combiner. Weights must sum
// to 1.0 within floating point tolerance, otherwise the aggregate could
// leave [0,1].
func NewEnsemble(weights Weights, ref ReferenceStats) (*Ensemble, error) {
	if math.Abs(weights.Sum()-1.0) > 1e-9 {
		return nil, errors.NewValidationError("INVALID_WEIGHTS",
			fmt.Sprintf("ensemble weights must sum to 1.0, got %v", weights.Sum()))
	}
	return &Ensemble{weights: weights, ref: ref}, nil
}

// Score runs all sub-models over the feature vector and combines them.
func (e *Ensemble) Score(f FeatureVector) *ScoreResult {
	scores := map[string]float64{
		ModelAmountVelocity: amountVelocityScore(f),
		ModelDeviation:      deviationScore(f, e.ref),
		ModelRuleBased:      ruleBasedScore(f),
		ModelDeviceSharing:  deviceSharingScore(f),
	}

	aggregate := scores[ModelAmountVelocity]*e.weights.AmountVelocity +
		scores[ModelDeviation]*e.weights.Deviation +
		scores[ModelRuleBased]*e.weights.RuleBased +
		scores[ModelDeviceSharing]*e.weights.DeviceSharing

	return &ScoreResult{
		ModelScores:      scores,
		EnsembleScore:    aggregate,
		FraudProbability: aggregate,
		Reasons:          e.reasons(f, scores),
	}
}

// reasons emits one advisory string per fired trigger, in fixed order. The
// thresholds mirror the sub-model constants so the text never contradicts
// the numeric outcome. If nothing fires the list is the single fallback
// reason; it is never empty.
func (e *Ensemble) reasons(f FeatureVector, scores map[string]float64) []string {
	var reasons []string

	if f[FeatAmount] > reasonAmountThreshold {
		reasons = append(reasons, fmt.Sprintf("high transaction amount: $%.2f", f[FeatAmount]))
	}
	if f[FeatUserTxnCount] > reasonVelocityThreshold {
		reasons = append(reasons, fmt.Sprintf("high velocity: %d recent transactions", int(f[FeatUserTxnCount])))
	}
	if f[FeatNight] == 1 {
		reasons = append(reasons, "unusual time: transaction during night hours")
	}
	if f[FeatHighRiskCountry] == 1 {
		reasons = append(reasons, "high-risk country detected")
	}
	if f[FeatDeviceTxnCount] > reasonDeviceThreshold {
		reasons = append(reasons, fmt.Sprintf("multiple devices: %d devices used", int(f[FeatDeviceTxnCount])))
	}
	if scores[ModelDeviation] > reasonDeviationThreshold {
		reasons = append(reasons, "anomalous transaction pattern detected")
	}

	if len(reasons) == 0 {
		reasons = []string{ReasonNormalPattern}
	}
	return reasons
}
