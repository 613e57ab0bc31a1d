package scoring

// Model names used as keys in the per-model score map. They are part of the
// API response contract and never change between releases.
const (
	ModelAmountVelocity = "amount_velocity"
	ModelDeviation      = "deviation"
	ModelRuleBased      = "rule_based"
	ModelDeviceSharing  = "device_sharing"
)

// Sub-model thresholds. The reason generator reuses the same values so the
// explanation text never contradicts the numeric outcome.
const (
	// amount/velocity heuristic normalization caps
	amountRiskCap   = 5000.0
	velocityRiskCap = 5.0

	// rule-based additive penalties
	ruleHighAmountThreshold   = 5000.0
	ruleHighAmountPenalty     = 0.3
	ruleHighVelocityThreshold = 5.0
	ruleHighVelocityPenalty   = 0.4
	ruleNightPenalty          = 0.2
	ruleRiskCountryPenalty    = 0.3

	// device-sharing step function
	deviceSharingHighCount = 5.0
	deviceSharingHighScore = 0.8
	deviceSharingMidCount  = 3.0
	deviceSharingMidScore  = 0.5
	deviceSharingBaseScore = 0.2

	// deviation model scaling
	deviationScale   = 4.0
	deviationEpsilon = 1e-6
)

// Reason trigger thresholds (advisory text only, not used in scoring).
const (
	reasonAmountThreshold    = 2000.0
	reasonVelocityThreshold  = 3.0
	reasonDeviceThreshold    = 3.0
	reasonDeviationThreshold = 0.7
)

// ReasonNormalPattern is the fallback reason when no trigger fires. The
// reason list is never empty.
const ReasonNormalPattern = "normal transaction pattern"

// Weights holds the ensemble combination weights. They must sum to 1.0 so
// the aggregate stays in [0,1] whenever each sub-score does.
type Weights struct {
	AmountVelocity float64 `koanf:"amount_velocity"`
	Deviation      float64 `koanf:"deviation"`
	RuleBased      float64 `koanf:"rule_based"`
	DeviceSharing  float64 `koanf:"device_sharing"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.AmountVelocity + w.Deviation + w.RuleBased + w.DeviceSharing
}

// DefaultWeights returns the hand-tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		AmountVelocity: 0.40,
		Deviation:      0.25,
		RuleBased:      0.20,
		DeviceSharing:  0.15,
	}
}

// ReferenceStats holds the per-feature reference mean and standard deviation
// used by the deviation model. The values are hand-tuned against historical
// traffic; they are configuration, not derived at runtime.
type ReferenceStats struct {
	Mean   [FeatureCount]float64 `koanf:"mean"`
	StdDev [FeatureCount]float64 `koanf:"std_dev"`
}

// DefaultReferenceStats returns the hand-tuned reference distribution.
func DefaultReferenceStats() ReferenceStats {
	return ReferenceStats{
		Mean:   [FeatureCount]float64{150, 3, 2, 1, 12, 0, 0, 0, 0},
		StdDev: [FeatureCount]float64{300, 2, 3, 2, 6, 1, 1, 1, 1},
	}
}

// DefaultHighRiskCountries returns the static high-risk country set. The
// list is operational configuration with no stated statistical derivation.
func DefaultHighRiskCountries() []string {
	return []string{"NG", "RU", "CN", "PK"}
}

// DefaultTrackerCapacityPerShard bounds velocity tracker growth. At 32
// shards this tracks roughly one million hot entities before eviction.
const DefaultTrackerCapacityPerShard = 32768
