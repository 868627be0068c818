// Package health implements the multi-factor customer health score engine.
//
// Scoring runs in three layers: input validation, four independent factor
// scorers (payment, engagement, contract, support), and an aggregator that
// combines factor results into an overall score, confidence, risk level,
// and trend. The engine is pure: identical input always yields an identical
// result apart from the calculation timestamp.
package health

import "time"

// SubscriptionTier is the contract tier of a customer.
type SubscriptionTier string

const (
	TierBasic      SubscriptionTier = "basic"
	TierPremium    SubscriptionTier = "premium"
	TierEnterprise SubscriptionTier = "enterprise"
)

// RiskLevel is the coarse bucket derived from the overall score.
type RiskLevel string

const (
	RiskHealthy  RiskLevel = "healthy"
	RiskWarning  RiskLevel = "warning"
	RiskCritical RiskLevel = "critical"
)

// Trend describes score movement relative to a previous calculation.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// PaymentMetrics holds billing behavior signals. All fields are optional;
// absent fields are defaulted before scoring and reduce factor confidence.
type PaymentMetrics struct {
	DaysSinceLastPayment     *float64 `json:"daysSinceLastPayment,omitempty"`
	AveragePaymentDelay      *float64 `json:"averagePaymentDelay,omitempty"`
	OverdueAmount            *float64 `json:"overdueAmount,omitempty"`
	PaymentMethodReliability *float64 `json:"paymentMethodReliability,omitempty"`
	BillingCycleAdherence    *float64 `json:"billingCycleAdherence,omitempty"`
}

// EngagementMetrics holds product usage signals.
type EngagementMetrics struct {
	LoginFrequency         *float64 `json:"loginFrequency,omitempty"`
	FeatureUsageCount      *float64 `json:"featureUsageCount,omitempty"`
	SessionDurationAverage *float64 `json:"sessionDurationAverage,omitempty"`
	PageViews              *float64 `json:"pageViews,omitempty"`
	SupportTicketVolume    *float64 `json:"supportTicketVolume,omitempty"`
}

// ContractMetrics holds subscription and renewal signals.
type ContractMetrics struct {
	DaysUntilRenewal  *float64          `json:"daysUntilRenewal,omitempty"`
	ContractValue     *float64          `json:"contractValue,omitempty"`
	SubscriptionTier  *SubscriptionTier `json:"subscriptionTier,omitempty"`
	RecentUpgrades    *float64          `json:"recentUpgrades,omitempty"`
	RecentDowngrades  *float64          `json:"recentDowngrades,omitempty"`
	AutoRenewalStatus *bool             `json:"autoRenewalStatus,omitempty"`
}

// SupportMetrics holds support interaction signals.
type SupportMetrics struct {
	AverageResolutionTime *float64 `json:"averageResolutionTime,omitempty"`
	SatisfactionScore     *float64 `json:"satisfactionScore,omitempty"`
	EscalationCount       *float64 `json:"escalationCount,omitempty"`
	SelfServiceRatio      *float64 `json:"selfServiceRatio,omitempty"`
}

// HealthScoreInput is the raw, possibly partial input to a calculation.
// Entire sections may be absent; the validation layer flags them as warnings
// and the scorers substitute documented defaults.
type HealthScoreInput struct {
	PaymentHistory *PaymentMetrics    `json:"paymentHistory,omitempty"`
	EngagementData *EngagementMetrics `json:"engagementData,omitempty"`
	ContractInfo   *ContractMetrics   `json:"contractInfo,omitempty"`
	SupportData    *SupportMetrics    `json:"supportData,omitempty"`
	CustomerAge    *float64           `json:"customerAge,omitempty"`
}

// FactorScore is the result of a single factor scorer.
type FactorScore struct {
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
	Weight     float64 `json:"weight"`
}

// FactorWeights controls the contribution of each factor to the overall
// score. Weights must sum to 1.0; see ValidateWeights.
type FactorWeights struct {
	Payment    float64 `json:"payment" mapstructure:"payment"`
	Engagement float64 `json:"engagement" mapstructure:"engagement"`
	Contract   float64 `json:"contract" mapstructure:"contract"`
	Support    float64 `json:"support" mapstructure:"support"`
}

// DefaultWeights returns the standard factor weighting.
func DefaultWeights() FactorWeights {
	return FactorWeights{
		Payment:    0.4,
		Engagement: 0.3,
		Contract:   0.2,
		Support:    0.1,
	}
}

// FactorBreakdown holds per-factor results keyed by factor name.
type FactorBreakdown struct {
	Payment    FactorScore `json:"payment"`
	Engagement FactorScore `json:"engagement"`
	Contract   FactorScore `json:"contract"`
	Support    FactorScore `json:"support"`
}

// DataQuality reports how much of the input was actually supplied.
type DataQuality struct {
	MissingFields     []string `json:"missingFields"`
	CompletenessScore float64  `json:"completenessScore"`
}

// HealthScoreResult is the full outcome of a health score calculation.
type HealthScoreResult struct {
	OverallScore   int             `json:"overallScore"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	Confidence     float64         `json:"confidence"`
	FactorScores   FactorBreakdown `json:"factorScores"`
	Trend          Trend           `json:"trend"`
	LastCalculated time.Time       `json:"lastCalculated"`
	DataQuality    DataQuality     `json:"dataQuality"`
}
