package health

import "math"

// Defaults substituted for absent metric fields before scoring. Confidence
// is computed from the raw input before defaulting, so a defaulted field
// still counts as missing.
const (
	defaultDaysSinceLastPayment     = 30.0
	defaultAveragePaymentDelay      = 5.0
	defaultOverdueAmount            = 0.0
	defaultPaymentMethodReliability = 0.8
	defaultBillingCycleAdherence    = 0.9

	defaultLoginFrequency         = 2.0
	defaultFeatureUsageCount      = 5.0
	defaultSessionDurationAverage = 15.0
	defaultPageViews              = 20.0
	defaultSupportTicketVolume    = 1.0

	defaultDaysUntilRenewal = 180.0
	defaultContractValue    = 1000.0
	defaultRecentUpgrades   = 0.0
	defaultRecentDowngrades = 0.0

	defaultAverageResolutionTime = 24.0
	defaultSatisfactionScore     = 4.0
	defaultEscalationCount       = 0.0
	defaultSelfServiceRatio      = 0.7
)

const defaultSubscriptionTier = TierBasic
const defaultAutoRenewalStatus = true

// scorePayment returns a 0-100 payment factor score weighting payment
// timeliness, method reliability, and billing cycle adherence, minus an
// overdue-amount penalty.
func scorePayment(m *PaymentMetrics) FactorScore {
	if m == nil {
		m = &PaymentMetrics{}
	}

	days := orDefault(m.DaysSinceLastPayment, defaultDaysSinceLastPayment)
	delay := orDefault(m.AveragePaymentDelay, defaultAveragePaymentDelay)
	overdue := orDefault(m.OverdueAmount, defaultOverdueAmount)
	reliability := orDefault(m.PaymentMethodReliability, defaultPaymentMethodReliability)
	adherence := orDefault(m.BillingCycleAdherence, defaultBillingCycleAdherence)

	timeliness := clampScore(100 - 0.5*days - 2*delay)
	// Every $1000 overdue costs 10 points, capped at 50.
	overduePenalty := math.Min(50, overdue/1000*10)

	raw := 0.4*timeliness + 0.3*(reliability*100) + 0.3*(adherence*100) - overduePenalty

	return FactorScore{
		Score: roundScore(raw),
		Confidence: presenceConfidence(
			m.DaysSinceLastPayment == nil,
			m.AveragePaymentDelay == nil,
			m.OverdueAmount == nil,
			m.PaymentMethodReliability == nil,
			m.BillingCycleAdherence == nil,
		),
	}
}

// scoreEngagement returns a 0-100 engagement factor score. Login frequency
// and session duration reward a moderate range and penalize excess; feature
// usage and page views saturate; heavy support ticket volume deducts.
func scoreEngagement(m *EngagementMetrics) FactorScore {
	if m == nil {
		m = &EngagementMetrics{}
	}

	logins := orDefault(m.LoginFrequency, defaultLoginFrequency)
	features := orDefault(m.FeatureUsageCount, defaultFeatureUsageCount)
	session := orDefault(m.SessionDurationAverage, defaultSessionDurationAverage)
	views := orDefault(m.PageViews, defaultPageViews)
	tickets := orDefault(m.SupportTicketVolume, defaultSupportTicketVolume)

	var login float64
	if logins <= 10 {
		login = logins * 10
	} else {
		login = math.Max(0, 100-(logins-10)*5)
	}

	feature := math.Min(100, features*10)

	var sessionScore float64
	if session <= 60 {
		sessionScore = session * 1.67
	} else {
		sessionScore = 100 - (session-60)*0.5
	}

	pageview := math.Min(100, views*2)
	supportPenalty := math.Min(30, tickets*3)

	raw := 0.3*login + 0.25*feature + 0.25*sessionScore + 0.2*pageview - supportPenalty

	return FactorScore{
		Score: roundScore(raw),
		Confidence: presenceConfidence(
			m.LoginFrequency == nil,
			m.FeatureUsageCount == nil,
			m.SessionDurationAverage == nil,
			m.PageViews == nil,
			m.SupportTicketVolume == nil,
		),
	}
}

// scoreContract returns a 0-100 contract factor score from renewal runway,
// subscription tier, contract value, and recent plan changes.
func scoreContract(m *ContractMetrics) FactorScore {
	if m == nil {
		m = &ContractMetrics{}
	}

	daysUntilRenewal := orDefault(m.DaysUntilRenewal, defaultDaysUntilRenewal)
	value := orDefault(m.ContractValue, defaultContractValue)
	upgrades := orDefault(m.RecentUpgrades, defaultRecentUpgrades)
	downgrades := orDefault(m.RecentDowngrades, defaultRecentDowngrades)

	tier := defaultSubscriptionTier
	if m.SubscriptionTier != nil {
		tier = *m.SubscriptionTier
	}
	autoRenewal := defaultAutoRenewalStatus
	if m.AutoRenewalStatus != nil {
		autoRenewal = *m.AutoRenewalStatus
	}

	// Step function over renewal runway. The discontinuities at day 0, 30,
	// and 90 are intentional product tiers, not a calibration artifact.
	var renewal float64
	switch {
	case daysUntilRenewal < 0:
		renewal = 10
	case daysUntilRenewal < 30:
		renewal = 30
	case daysUntilRenewal < 90:
		renewal = 70
	default:
		renewal = 90
	}

	var tierScore float64
	switch tier {
	case TierEnterprise:
		tierScore = 100
	case TierPremium:
		tierScore = 70
	default:
		tierScore = 40
	}

	// Logarithmic value scaling: $100 -> 0, $10k -> 50, $1M -> 100.
	valueScore := math.Min(100, math.Log10(math.Max(1, value/100))*25)

	upgradeBonus := math.Min(20, upgrades*10)
	downgradePenalty := math.Min(30, downgrades*15)
	autoRenewalBonus := 0.0
	if autoRenewal {
		autoRenewalBonus = 15
	}

	raw := 0.4*renewal + 0.25*tierScore + 0.2*valueScore +
		upgradeBonus + autoRenewalBonus - downgradePenalty

	return FactorScore{
		Score: roundScore(raw),
		Confidence: presenceConfidence(
			m.DaysUntilRenewal == nil,
			m.ContractValue == nil,
			m.SubscriptionTier == nil,
			m.RecentUpgrades == nil,
			m.RecentDowngrades == nil,
			m.AutoRenewalStatus == nil,
		),
	}
}

// scoreSupport returns a 0-100 support factor score from resolution speed,
// satisfaction, and self-service adoption, minus an escalation penalty.
func scoreSupport(m *SupportMetrics) FactorScore {
	if m == nil {
		m = &SupportMetrics{}
	}

	resolutionHours := orDefault(m.AverageResolutionTime, defaultAverageResolutionTime)
	satisfaction := orDefault(m.SatisfactionScore, defaultSatisfactionScore)
	escalations := orDefault(m.EscalationCount, defaultEscalationCount)
	selfService := orDefault(m.SelfServiceRatio, defaultSelfServiceRatio)

	resolution := clampScore(100 - (resolutionHours-2)*2)
	// Maps the 1-5 satisfaction scale onto 0-100.
	satisfactionScore := (satisfaction - 1) * 25
	selfServiceBonus := selfService * 30
	escalationPenalty := math.Min(40, escalations*8)

	raw := 0.3*resolution + 0.4*satisfactionScore + selfServiceBonus - escalationPenalty

	return FactorScore{
		Score: roundScore(raw),
		Confidence: presenceConfidence(
			m.AverageResolutionTime == nil,
			m.SatisfactionScore == nil,
			m.EscalationCount == nil,
			m.SelfServiceRatio == nil,
		),
	}
}

// presenceConfidence starts at 1.0 and deducts 0.2 for every field missing
// from the original input, floored at 0.3. Confidence depends only on which
// fields were supplied, never on their values.
func presenceConfidence(missing ...bool) float64 {
	c := 1.0
	for _, m := range missing {
		if m {
			c -= 0.2
		}
	}
	return math.Max(0.3, c)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// clampScore bounds a raw component or factor score to [0, 100].
func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// roundScore clamps to [0, 100] and rounds to the nearest integer.
func roundScore(v float64) int {
	return int(math.Round(clampScore(v)))
}
