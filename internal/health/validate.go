package health

import (
	"fmt"
	"math"
	"strconv"
)

// Section names as they appear in input payloads and validation messages.
const (
	SectionPayment    = "paymentHistory"
	SectionEngagement = "engagementData"
	SectionContract   = "contractInfo"
	SectionSupport    = "supportData"
)

// newCustomerAgeDays is the age below which confidence is discounted.
const newCustomerAgeDays = 90

// ValidationResult is the outcome of input validation. Errors block the
// calculation; warnings are surfaced but never affect validity.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks shape and ranges of a health score input. Missing entire
// sections produce warnings only; out-of-range or non-finite values within a
// present section produce one error per violated bound.
func Validate(input *HealthScoreInput) ValidationResult {
	if input == nil {
		return ValidationResult{
			IsValid: false,
			Errors:  []string{"input is required"},
		}
	}

	var errs, warns []string

	switch {
	case input.CustomerAge == nil || !isFinite(*input.CustomerAge):
		errs = append(errs, "customerAge must be a valid number")
	case *input.CustomerAge < 0:
		errs = append(errs, "customerAge must be >= 0")
	case *input.CustomerAge < newCustomerAgeDays:
		warns = append(warns, fmt.Sprintf(
			"customerAge is below %d days; confidence will be reduced", newCustomerAgeDays))
	}

	if p := input.PaymentHistory; p != nil {
		errs = checkRange(errs, SectionPayment, "daysSinceLastPayment", p.DaysSinceLastPayment, 0, noMax)
		errs = checkRange(errs, SectionPayment, "averagePaymentDelay", p.AveragePaymentDelay, 0, 180)
		errs = checkRange(errs, SectionPayment, "overdueAmount", p.OverdueAmount, 0, noMax)
		errs = checkRange(errs, SectionPayment, "paymentMethodReliability", p.PaymentMethodReliability, 0, 1)
		errs = checkRange(errs, SectionPayment, "billingCycleAdherence", p.BillingCycleAdherence, 0, 1)
	} else {
		warns = append(warns, missingSectionWarning(SectionPayment))
	}

	if e := input.EngagementData; e != nil {
		errs = checkRange(errs, SectionEngagement, "loginFrequency", e.LoginFrequency, 0, noMax)
		errs = checkRange(errs, SectionEngagement, "featureUsageCount", e.FeatureUsageCount, 0, noMax)
		errs = checkRange(errs, SectionEngagement, "sessionDurationAverage", e.SessionDurationAverage, 0, 480)
		errs = checkRange(errs, SectionEngagement, "pageViews", e.PageViews, 0, noMax)
		errs = checkRange(errs, SectionEngagement, "supportTicketVolume", e.SupportTicketVolume, 0, noMax)
	} else {
		warns = append(warns, missingSectionWarning(SectionEngagement))
	}

	if c := input.ContractInfo; c != nil {
		errs = checkRange(errs, SectionContract, "daysUntilRenewal", c.DaysUntilRenewal, -365, 1095)
		errs = checkRange(errs, SectionContract, "contractValue", c.ContractValue, 0, noMax)
		errs = checkRange(errs, SectionContract, "recentUpgrades", c.RecentUpgrades, 0, 10)
		errs = checkRange(errs, SectionContract, "recentDowngrades", c.RecentDowngrades, 0, 10)
		if c.SubscriptionTier != nil && !validTier(*c.SubscriptionTier) {
			errs = append(errs, fmt.Sprintf(
				"%s.subscriptionTier must be one of basic, premium, enterprise", SectionContract))
		}
	} else {
		warns = append(warns, missingSectionWarning(SectionContract))
	}

	if s := input.SupportData; s != nil {
		errs = checkRange(errs, SectionSupport, "averageResolutionTime", s.AverageResolutionTime, 0, 720)
		errs = checkRange(errs, SectionSupport, "satisfactionScore", s.SatisfactionScore, 1, 5)
		errs = checkRange(errs, SectionSupport, "escalationCount", s.EscalationCount, 0, noMax)
		errs = checkRange(errs, SectionSupport, "selfServiceRatio", s.SelfServiceRatio, 0, 1)
	} else {
		warns = append(warns, missingSectionWarning(SectionSupport))
	}

	return ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// noMax marks a field with no upper bound.
var noMax = math.Inf(1)

// checkRange validates a single optional numeric field. Absent fields are
// fine (they default during scoring); present fields must be finite and
// within [min, max], with one error appended per bound crossed.
func checkRange(errs []string, section, field string, v *float64, min, max float64) []string {
	if v == nil {
		return errs
	}
	if !isFinite(*v) {
		return append(errs, fmt.Sprintf("%s.%s must be a valid number", section, field))
	}
	if *v < min {
		errs = append(errs, fmt.Sprintf("%s.%s must be >= %s", section, field, formatBound(min)))
	}
	if *v > max {
		errs = append(errs, fmt.Sprintf("%s.%s must be <= %s", section, field, formatBound(max)))
	}
	return errs
}

func missingSectionWarning(section string) string {
	return fmt.Sprintf("%s section is missing; defaults will be used", section)
}

func validTier(t SubscriptionTier) bool {
	switch t {
	case TierBasic, TierPremium, TierEnterprise:
		return true
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
