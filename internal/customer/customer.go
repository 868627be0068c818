// Package customer holds the in-memory customer record store. It stands in
// for a real database and exists so the CLI and HTTP surface have records to
// score; persistence is deliberately out of scope.
package customer

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/clientpulse/health-cli/internal/health"
)

// ErrNotFound is returned when a customer id has no record.
var ErrNotFound = eris.New("customer not found")

// Customer is a business customer with the metric sections the health
// engine consumes. LastScore is the most recent overall score, used for
// trend detection on the next calculation.
type Customer struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Company   string                  `json:"company"`
	Email     string                  `json:"email,omitempty"`
	Metrics   health.HealthScoreInput `json:"metrics"`
	LastScore *int                    `json:"lastScore,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Store defines customer record access for the CLI and HTTP layers.
type Store interface {
	Get(id string) (*Customer, error)
	List() []Customer
	Create(c Customer) (*Customer, error)
	SetLastScore(id string, score int) error
}

// MemoryStore is a mutex-guarded in-process Store.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]*Customer
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{customers: make(map[string]*Customer)}
}

func (s *MemoryStore) Get(id string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}
	cp := *c
	return &cp, nil
}

// List returns all customers ordered by name.
func (s *MemoryStore) List() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Create stores a customer, assigning an id and timestamps if unset.
func (s *MemoryStore) Create(c Customer) (*Customer, error) {
	if c.Company == "" {
		return nil, eris.New("customer: company is required")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.customers[c.ID]; exists {
		return nil, eris.Errorf("customer: id %s already exists", c.ID)
	}
	stored := c
	s.customers[c.ID] = &stored
	return &c, nil
}

func (s *MemoryStore) SetLastScore(id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	c.LastScore = &score
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func f(v float64) *float64 { return &v }

// Seed populates the store with fixture customers for local use.
func Seed(s Store) error {
	tierEnterprise := health.TierEnterprise
	tierPremium := health.TierPremium
	autoRenew := true
	noAutoRenew := false

	fixtures := []Customer{
		{
			Name:    "Dana Whitfield",
			Company: "TechCorp",
			Email:   "dana@techcorp.example",
			Metrics: health.HealthScoreInput{
				CustomerAge: f(540),
				PaymentHistory: &health.PaymentMetrics{
					DaysSinceLastPayment:     f(12),
					AveragePaymentDelay:      f(2),
					OverdueAmount:            f(0),
					PaymentMethodReliability: f(0.95),
					BillingCycleAdherence:    f(0.98),
				},
				EngagementData: &health.EngagementMetrics{
					LoginFrequency:         f(6),
					FeatureUsageCount:      f(14),
					SessionDurationAverage: f(45),
					PageViews:              f(80),
					SupportTicketVolume:    f(1),
				},
				ContractInfo: &health.ContractMetrics{
					DaysUntilRenewal:  f(240),
					ContractValue:     f(120000),
					SubscriptionTier:  &tierEnterprise,
					RecentUpgrades:    f(1),
					RecentDowngrades:  f(0),
					AutoRenewalStatus: &autoRenew,
				},
				SupportData: &health.SupportMetrics{
					AverageResolutionTime: f(6),
					SatisfactionScore:     f(4.6),
					EscalationCount:       f(0),
					SelfServiceRatio:      f(0.8),
				},
			},
		},
		{
			Name:    "Marcus Oyelaran",
			Company: "Brightside Logistics",
			Email:   "marcus@brightside.example",
			Metrics: health.HealthScoreInput{
				CustomerAge: f(200),
				PaymentHistory: &health.PaymentMetrics{
					DaysSinceLastPayment: f(48),
					AveragePaymentDelay:  f(14),
					OverdueAmount:        f(3800),
				},
				ContractInfo: &health.ContractMetrics{
					DaysUntilRenewal:  f(45),
					ContractValue:     f(18000),
					SubscriptionTier:  &tierPremium,
					AutoRenewalStatus: &noAutoRenew,
				},
			},
		},
		{
			Name:    "Priya Raghavan",
			Company: "Nordic Instruments",
			Email:   "priya@nordic.example",
			Metrics: health.HealthScoreInput{
				CustomerAge: f(45),
				EngagementData: &health.EngagementMetrics{
					LoginFrequency:      f(1),
					FeatureUsageCount:   f(2),
					PageViews:           f(10),
					SupportTicketVolume: f(6),
				},
				SupportData: &health.SupportMetrics{
					AverageResolutionTime: f(72),
					SatisfactionScore:     f(2.5),
					EscalationCount:       f(3),
					SelfServiceRatio:      f(0.2),
				},
			},
		},
	}

	for _, c := range fixtures {
		if _, err := s.Create(c); err != nil {
			return eris.Wrapf(err, "customer: seed %s", c.Company)
		}
	}
	return nil
}
