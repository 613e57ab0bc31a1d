package scoring

import (
	"math"
	"strings"

	"github.com/paysentinel/fraud-detection-backend/internal/domain/transaction"
)

// Feature vector field positions. Order and count are fixed: every sub-model
// indexes into the vector by position, so fields are never reordered.
const (
	FeatAmount = iota
	FeatAmountLog
	FeatUserTxnCount
	FeatDeviceTxnCount
	FeatHourOfDay
	FeatNight
	FeatChannel
	FeatType
	FeatHighRiskCountry

	FeatureCount
)

// FeatureVector is the fixed-length numeric representation of one
// transaction plus tracker state at the moment of extraction.
type FeatureVector [FeatureCount]float64

// Closed-vocabulary categorical encodings. Unrecognized values fail open to
// code 0 so scoring always completes.
var (
	channelCodes = map[transaction.Channel]float64{
		transaction.ChannelWeb:    0,
		transaction.ChannelMobile: 1,
		transaction.ChannelPOS:    2,
	}
	typeCodes = map[transaction.Type]float64{
		transaction.TypePurchase:   0,
		transaction.TypeTransfer:   1,
		transaction.TypeWithdrawal: 2,
	}
)

// Extractor derives feature vectors from transactions. Extraction is the
// only mutation point of the velocity trackers: each transaction is observed
// exactly once, and the extracted counts reflect history prior to it.
type Extractor struct {
	users    *VelocityTracker
	devices  *VelocityTracker
	highRisk map[string]struct{}
}

// NewExtractor creates an extractor over the given trackers. highRiskCountries
// is the static membership set for the country risk flag.
func NewExtractor(users, devices *VelocityTracker, highRiskCountries []string) *Extractor {
	highRisk := make(map[string]struct{}, len(highRiskCountries))
	for _, c := range highRiskCountries {
		highRisk[strings.ToUpper(c)] = struct{}{}
	}
	return &Extractor{
		users:    users,
		devices:  devices,
		highRisk: highRisk,
	}
}

// Extract derives the feature vector for txn and records the observation in
// both velocity trackers. Deterministic given tracker state at the moment of
// call: time-derived features come from txn.OccurredAt, never the ambient
// clock.
func (e *Extractor) Extract(txn *transaction.Transaction) FeatureVector {
	userCount := e.users.Observe(txn.UserID)
	deviceCount := e.devices.Observe(txn.DeviceID)
	return e.assemble(txn, userCount, deviceCount)
}

// Replay derives the feature vector for txn against the current tracker
// state without observing it. Replaying the same transaction repeatedly
// yields identical vectors.
func (e *Extractor) Replay(txn *transaction.Transaction) FeatureVector {
	userCount := e.users.Snapshot(txn.UserID)
	deviceCount := e.devices.Snapshot(txn.DeviceID)
	return e.assemble(txn, userCount, deviceCount)
}

func (e *Extractor) assemble(txn *transaction.Transaction, userCount, deviceCount int) FeatureVector {
	var f FeatureVector

	amount := txn.Amount.ToFloat64()
	f[FeatAmount] = amount
	f[FeatAmountLog] = math.Log1p(amount)

	f[FeatUserTxnCount] = float64(userCount)
	f[FeatDeviceTxnCount] = float64(deviceCount)

	f[FeatHourOfDay] = float64(txn.Hour())
	if txn.IsNight() {
		f[FeatNight] = 1
	}

	f[FeatChannel] = channelCodes[txn.Channel]
	f[FeatType] = typeCodes[txn.Type]

	if _, ok := e.highRisk[strings.ToUpper(txn.Country)]; ok {
		f[FeatHighRiskCountry] = 1
	}

	return f
}
