package scoring

// RiskLevel is the five-tier severity label derived from the aggregate
// score.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "MINIMAL"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Action is the operational decision taken on a transaction. The tiers and
// actions are intentionally asymmetric: MEDIUM risk still auto-approves,
// only HIGH and CRITICAL trigger review or block.
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReview  Action = "REVIEW"
	ActionBlock   Action = "BLOCK"
)

// FraudThreshold is the aggregate score at and above which a transaction is
// flagged as fraud and an alert is raised.
const FraudThreshold = 0.6

// Decision is the policy outcome for one scored transaction.
type Decision struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Action    Action    `json:"decision"`
	IsFraud   bool      `json:"is_fraud"`
}

// Decide maps an aggregate score onto a risk tier and action. All
// thresholds are closed at the lower bound.
func Decide(score float64) Decision {
	d := Decision{IsFraud: score >= FraudThreshold}

	switch {
	case score >= 0.8:
		d.RiskLevel = RiskCritical
		d.Action = ActionBlock
	case score >= 0.6:
		d.RiskLevel = RiskHigh
		d.Action = ActionReview
	case score >= 0.4:
		d.RiskLevel = RiskMedium
		d.Action = ActionApprove
	case score >= 0.2:
		d.RiskLevel = RiskLow
		d.Action = ActionApprove
	default:
		d.RiskLevel = RiskMinimal
		d.Action = ActionApprove
	}

	return d
}
