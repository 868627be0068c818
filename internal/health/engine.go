package health

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ValidationError reports every violated field from input validation. It is
// fatal to the calculation call and is never retried.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "health: invalid input: " + strings.Join(e.Errors, "; ")
}

// Engine orchestrates validation, factor scoring, and aggregation. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	weights FactorWeights
	now     func() time.Time
}

// NewEngine creates an Engine with the given factor weights. Weights are the
// caller's responsibility to validate (see ValidateWeights); they are not
// re-checked per calculation.
func NewEngine(weights FactorWeights) *Engine {
	return &Engine{weights: weights, now: time.Now}
}

// Calculate validates the input, scores the four factors, and assembles the
// full result. previous, when non-nil, is the prior overall score used for
// trend detection. Returns a *ValidationError when the input fails
// validation.
func (e *Engine) Calculate(input *HealthScoreInput, previous *int) (*HealthScoreResult, error) {
	validation := Validate(input)
	if !validation.IsValid {
		return nil, &ValidationError{Errors: validation.Errors}
	}

	for _, w := range validation.Warnings {
		zap.L().Debug("health: validation warning", zap.String("warning", w))
	}

	payment := scorePayment(input.PaymentHistory)
	engagement := scoreEngagement(input.EngagementData)
	contract := scoreContract(input.ContractInfo)
	support := scoreSupport(input.SupportData)

	payment.Weight = e.weights.Payment
	engagement.Weight = e.weights.Engagement
	contract.Weight = e.weights.Contract
	support.Weight = e.weights.Support

	overall := roundScore(
		float64(payment.Score)*payment.Weight +
			float64(engagement.Score)*engagement.Weight +
			float64(contract.Score)*contract.Weight +
			float64(support.Score)*support.Weight,
	)

	confidence := payment.Confidence*payment.Weight +
		engagement.Confidence*engagement.Weight +
		contract.Confidence*contract.Weight +
		support.Confidence*support.Weight
	if *input.CustomerAge < newCustomerAgeDays {
		confidence *= 0.7
	}
	confidence = math.Min(1, math.Max(0, confidence))

	result := &HealthScoreResult{
		OverallScore: overall,
		RiskLevel:    riskLevel(overall),
		Confidence:   confidence,
		FactorScores: FactorBreakdown{
			Payment:    payment,
			Engagement: engagement,
			Contract:   contract,
			Support:    support,
		},
		Trend:          trend(overall, previous),
		LastCalculated: e.now().UTC(),
		DataQuality:    dataQuality(input),
	}

	zap.L().Debug("health: score calculated",
		zap.Int("overall_score", result.OverallScore),
		zap.String("risk_level", string(result.RiskLevel)),
		zap.Float64("confidence", result.Confidence),
		zap.String("trend", string(result.Trend)),
	)

	return result, nil
}

// riskLevel buckets an overall score. Boundaries are inclusive at 71
// (healthy) and 31 (warning).
func riskLevel(score int) RiskLevel {
	switch {
	case score >= 71:
		return RiskHealthy
	case score >= 31:
		return RiskWarning
	default:
		return RiskCritical
	}
}

// trend compares the current score to a previous one. Movement of exactly
// five points in either direction is still stable.
func trend(current int, previous *int) Trend {
	if previous == nil {
		return TrendStable
	}
	delta := current - *previous
	switch {
	case delta > 5:
		return TrendImproving
	case delta < -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// dataQuality reports absent top-level sections and the resulting
// completeness ratio.
func dataQuality(input *HealthScoreInput) DataQuality {
	missing := make([]string, 0, 4)
	if input.PaymentHistory == nil {
		missing = append(missing, SectionPayment)
	}
	if input.EngagementData == nil {
		missing = append(missing, SectionEngagement)
	}
	if input.ContractInfo == nil {
		missing = append(missing, SectionContract)
	}
	if input.SupportData == nil {
		missing = append(missing, SectionSupport)
	}
	return DataQuality{
		MissingFields:     missing,
		CompletenessScore: 1 - float64(len(missing))/4,
	}
}

// ValidateWeights checks that factor weights are non-negative and sum to
// 1.0 within floating-point tolerance.
func ValidateWeights(w FactorWeights) error {
	var errs []string

	weights := map[string]float64{
		"payment":    w.Payment,
		"engagement": w.Engagement,
		"contract":   w.Contract,
		"support":    w.Support,
	}
	for name, v := range weights {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}

	sum := w.Payment + w.Engagement + w.Contract + w.Support
	if math.Abs(sum-1.0) > 0.001 {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.3f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("health: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
