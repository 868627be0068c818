package health

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func validInput() *HealthScoreInput {
	tier := TierPremium
	auto := true
	return &HealthScoreInput{
		CustomerAge: fp(365),
		PaymentHistory: &PaymentMetrics{
			DaysSinceLastPayment:     fp(10),
			AveragePaymentDelay:      fp(3),
			OverdueAmount:            fp(0),
			PaymentMethodReliability: fp(0.9),
			BillingCycleAdherence:    fp(0.95),
		},
		EngagementData: &EngagementMetrics{
			LoginFrequency:         fp(5),
			FeatureUsageCount:      fp(8),
			SessionDurationAverage: fp(30),
			PageViews:              fp(40),
			SupportTicketVolume:    fp(2),
		},
		ContractInfo: &ContractMetrics{
			DaysUntilRenewal:  fp(120),
			ContractValue:     fp(25000),
			SubscriptionTier:  &tier,
			RecentUpgrades:    fp(1),
			RecentDowngrades:  fp(0),
			AutoRenewalStatus: &auto,
		},
		SupportData: &SupportMetrics{
			AverageResolutionTime: fp(12),
			SatisfactionScore:     fp(4.2),
			EscalationCount:       fp(1),
			SelfServiceRatio:      fp(0.6),
		},
	}
}

func TestValidate_NilInput(t *testing.T) {
	result := Validate(nil)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "input is required", result.Errors[0])
}

func TestValidate_FullValidInput(t *testing.T) {
	result := Validate(validInput())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_CustomerAge(t *testing.T) {
	tests := []struct {
		name      string
		age       *float64
		wantError string
		wantWarn  bool
	}{
		{name: "missing", age: nil, wantError: "customerAge must be a valid number"},
		{name: "nan", age: fp(math.NaN()), wantError: "customerAge must be a valid number"},
		{name: "negative", age: fp(-1), wantError: "customerAge must be >= 0"},
		{name: "new customer warns", age: fp(60), wantWarn: true},
		{name: "established", age: fp(365)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			input.CustomerAge = tt.age
			result := Validate(input)

			if tt.wantError != "" {
				assert.False(t, result.IsValid)
				assert.Contains(t, result.Errors, tt.wantError)
				return
			}
			assert.True(t, result.IsValid)
			if tt.wantWarn {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "confidence will be reduced")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestValidate_RangeBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*HealthScoreInput)
		wantErr string
	}{
		{
			name:    "payment delay above max",
			mutate:  func(in *HealthScoreInput) { in.PaymentHistory.AveragePaymentDelay = fp(181) },
			wantErr: "paymentHistory.averagePaymentDelay must be <= 180",
		},
		{
			name:    "negative overdue",
			mutate:  func(in *HealthScoreInput) { in.PaymentHistory.OverdueAmount = fp(-5) },
			wantErr: "paymentHistory.overdueAmount must be >= 0",
		},
		{
			name:    "reliability above one",
			mutate:  func(in *HealthScoreInput) { in.PaymentHistory.PaymentMethodReliability = fp(1.5) },
			wantErr: "paymentHistory.paymentMethodReliability must be <= 1",
		},
		{
			name:    "session duration above max",
			mutate:  func(in *HealthScoreInput) { in.EngagementData.SessionDurationAverage = fp(481) },
			wantErr: "engagementData.sessionDurationAverage must be <= 480",
		},
		{
			name:    "renewal below min",
			mutate:  func(in *HealthScoreInput) { in.ContractInfo.DaysUntilRenewal = fp(-400) },
			wantErr: "contractInfo.daysUntilRenewal must be >= -365",
		},
		{
			name:    "renewal above max",
			mutate:  func(in *HealthScoreInput) { in.ContractInfo.DaysUntilRenewal = fp(1100) },
			wantErr: "contractInfo.daysUntilRenewal must be <= 1095",
		},
		{
			name:    "upgrades above max",
			mutate:  func(in *HealthScoreInput) { in.ContractInfo.RecentUpgrades = fp(11) },
			wantErr: "contractInfo.recentUpgrades must be <= 10",
		},
		{
			name:    "satisfaction below min",
			mutate:  func(in *HealthScoreInput) { in.SupportData.SatisfactionScore = fp(0.5) },
			wantErr: "supportData.satisfactionScore must be >= 1",
		},
		{
			name:    "resolution above max",
			mutate:  func(in *HealthScoreInput) { in.SupportData.AverageResolutionTime = fp(721) },
			wantErr: "supportData.averageResolutionTime must be <= 720",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			result := Validate(input)
			assert.False(t, result.IsValid)
			assert.Contains(t, result.Errors, tt.wantErr)
		})
	}
}

func TestValidate_NonFiniteField(t *testing.T) {
	input := validInput()
	input.EngagementData.PageViews = fp(math.NaN())
	result := Validate(input)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "engagementData.pageViews must be a valid number")

	input = validInput()
	input.PaymentHistory.OverdueAmount = fp(math.Inf(1))
	result = Validate(input)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "paymentHistory.overdueAmount must be a valid number")
}

func TestValidate_InvalidTier(t *testing.T) {
	input := validInput()
	bad := SubscriptionTier("platinum")
	input.ContractInfo.SubscriptionTier = &bad
	result := Validate(input)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "contractInfo.subscriptionTier must be one of basic, premium, enterprise")
}

func TestValidate_MissingSectionsWarnOnly(t *testing.T) {
	input := &HealthScoreInput{
		CustomerAge:    fp(365),
		PaymentHistory: &PaymentMetrics{DaysSinceLastPayment: fp(10)},
	}
	result := Validate(input)

	assert.True(t, result.IsValid, "missing sections must not invalidate input")
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], SectionEngagement)
	assert.Contains(t, result.Warnings[1], SectionContract)
	assert.Contains(t, result.Warnings[2], SectionSupport)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	input := validInput()
	input.PaymentHistory.AveragePaymentDelay = fp(200)
	input.SupportData.SatisfactionScore = fp(9)
	input.ContractInfo.RecentDowngrades = fp(-1)

	result := Validate(input)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3, "every violated field must be reported")
}
