package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ip(v int) *int { return &v }

func TestEngine_Calculate_FullInput(t *testing.T) {
	e := NewEngine(DefaultWeights())

	result, err := e.Calculate(validInput(), nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.LessOrEqual(t, result.OverallScore, 100)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Equal(t, TrendStable, result.Trend, "no previous score means stable")
	assert.Empty(t, result.DataQuality.MissingFields)
	assert.Equal(t, 1.0, result.DataQuality.CompletenessScore)
	assert.Equal(t, 1.0, result.Confidence, "fully supplied input at full weight")
	assert.False(t, result.LastCalculated.IsZero())

	// Overall is the weight-rounded sum of the factor scores.
	f := result.FactorScores
	want := roundScore(float64(f.Payment.Score)*0.4 + float64(f.Engagement.Score)*0.3 +
		float64(f.Contract.Score)*0.2 + float64(f.Support.Score)*0.1)
	assert.Equal(t, want, result.OverallScore)
}

func TestEngine_Calculate_InvalidInput(t *testing.T) {
	e := NewEngine(DefaultWeights())

	input := validInput()
	input.PaymentHistory.AveragePaymentDelay = fp(500)
	input.SupportData.SatisfactionScore = fp(0)

	_, err := e.Calculate(input, nil)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2, "every violation is carried")
	assert.Contains(t, verr.Error(), "averagePaymentDelay")
}

func TestEngine_Calculate_NilInput(t *testing.T) {
	e := NewEngine(DefaultWeights())
	_, err := e.Calculate(nil, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"input is required"}, verr.Errors)
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(DefaultWeights())
	input := validInput()

	a, err := e.Calculate(input, nil)
	require.NoError(t, err)
	b, err := e.Calculate(input, nil)
	require.NoError(t, err)

	a.LastCalculated = time.Time{}
	b.LastCalculated = time.Time{}
	assert.Equal(t, a, b)
}

func TestRiskLevelBoundaries(t *testing.T) {
	assert.Equal(t, RiskHealthy, riskLevel(100))
	assert.Equal(t, RiskHealthy, riskLevel(71))
	assert.Equal(t, RiskWarning, riskLevel(70))
	assert.Equal(t, RiskWarning, riskLevel(31))
	assert.Equal(t, RiskCritical, riskLevel(30))
	assert.Equal(t, RiskCritical, riskLevel(0))
}

func TestTrendBoundaries(t *testing.T) {
	assert.Equal(t, TrendStable, trend(75, nil))
	assert.Equal(t, TrendStable, trend(75, ip(70)), "delta of exactly +5 is stable")
	assert.Equal(t, TrendImproving, trend(76, ip(70)))
	assert.Equal(t, TrendStable, trend(70, ip(75)), "delta of exactly -5 is stable")
	assert.Equal(t, TrendDeclining, trend(69, ip(75)))
}

func TestEngine_TrendFromPrevious(t *testing.T) {
	e := NewEngine(DefaultWeights())
	input := validInput()

	base, err := e.Calculate(input, nil)
	require.NoError(t, err)

	improving, err := e.Calculate(input, ip(base.OverallScore-10))
	require.NoError(t, err)
	assert.Equal(t, TrendImproving, improving.Trend)

	declining, err := e.Calculate(input, ip(base.OverallScore+10))
	require.NoError(t, err)
	assert.Equal(t, TrendDeclining, declining.Trend)
}

func TestEngine_NewCustomerConfidenceDiscount(t *testing.T) {
	e := NewEngine(DefaultWeights())

	established := validInput()
	established.CustomerAge = fp(365)
	a, err := e.Calculate(established, nil)
	require.NoError(t, err)

	fresh := validInput()
	fresh.CustomerAge = fp(60)
	b, err := e.Calculate(fresh, nil)
	require.NoError(t, err)

	assert.InDelta(t, a.Confidence*0.7, b.Confidence, 1e-9)
	assert.Equal(t, a.OverallScore, b.OverallScore, "discount affects confidence only")
}

func TestEngine_MissingSectionAccounting(t *testing.T) {
	e := NewEngine(DefaultWeights())

	input := &HealthScoreInput{
		CustomerAge:    fp(365),
		PaymentHistory: &PaymentMetrics{DaysSinceLastPayment: fp(10)},
	}

	result, err := e.Calculate(input, nil)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{SectionEngagement, SectionContract, SectionSupport},
		result.DataQuality.MissingFields)
	assert.InDelta(t, 0.25, result.DataQuality.CompletenessScore, 1e-9)
}

func TestEngine_CustomWeights(t *testing.T) {
	weights := FactorWeights{Payment: 1.0}
	e := NewEngine(weights)

	result, err := e.Calculate(validInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, result.FactorScores.Payment.Score, result.OverallScore,
		"payment-only weighting mirrors the payment factor")
	assert.Equal(t, 0.0, result.FactorScores.Support.Weight)
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights(DefaultWeights()))
	assert.NoError(t, ValidateWeights(FactorWeights{Payment: 1.0}))

	err := ValidateWeights(FactorWeights{Payment: 0.5, Engagement: 0.3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")

	err = ValidateWeights(FactorWeights{Payment: 1.4, Engagement: -0.4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 0")
}
