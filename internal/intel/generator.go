package intel

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Generator produces raw intelligence for a company. Implementations must be
// deterministic per company within a process lifetime: the cache treats the
// generator as a black box and relies on it for payload stability.
type Generator interface {
	Generate(ctx context.Context, company string) (*MarketIntelligenceData, error)
}

// headline templates; %s is the company name.
var headlineTemplates = []string{
	"%s Announces Strategic Partnership to Accelerate Growth",
	"%s Reports Strong Quarterly Results Amid Market Uncertainty",
	"Industry Analysts Weigh In on %s's Product Roadmap",
	"%s Expands Operations Into New Regional Markets",
	"%s Leadership Discusses Long-Term Platform Strategy",
	"What %s's Latest Moves Mean for the Sector",
	"%s Faces Questions Over Renewal Pricing Changes",
	"Customers React to %s's Updated Service Tiers",
}

var headlineSources = []string{
	"Business Wire", "Reuters", "Bloomberg", "TechCrunch",
	"Financial Times", "MarketWatch",
}

// SimulatedGenerator derives pseudo-intelligence from a hash of the company
// name. Latency simulates a provider round trip and should be zero in tests;
// the rate limiter mirrors the request budget a real provider would impose.
type SimulatedGenerator struct {
	latency time.Duration
	limiter *rate.Limiter
	base    time.Time
}

// NewSimulatedGenerator creates a generator with the given simulated latency
// and a requests-per-second budget. rps <= 0 disables rate limiting.
func NewSimulatedGenerator(latency time.Duration, rps float64) *SimulatedGenerator {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &SimulatedGenerator{
		latency: latency,
		limiter: limiter,
		base:    time.Now().UTC(),
	}
}

// Generate derives sentiment, three headlines, and an article count from the
// normalized company name.
func (g *SimulatedGenerator) Generate(ctx context.Context, company string) (*MarketIntelligenceData, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "intel: rate limit wait")
		}
	}

	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "intel: generation cancelled")
		}
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(NormalizeKey(company)))
	seed := h.Sum64()

	score := float64(seed%2001)/1000 - 1 // -1.000 .. 1.000
	label := SentimentNeutral
	switch {
	case score >= 0.2:
		label = SentimentPositive
	case score <= -0.2:
		label = SentimentNegative
	}

	// Timestamps hang off the construction-time base so repeated generation
	// for the same company yields identical headlines, PublishedAt included.
	headlines := make([]Headline, 0, 3)
	for i := 0; i < 3; i++ {
		template := headlineTemplates[(seed/uint64(i+1))%uint64(len(headlineTemplates))]
		source := headlineSources[(seed>>uint(4*i+4))%uint64(len(headlineSources))]
		ageHours := time.Duration(2+7*i+int(seed%5)) * time.Hour
		headlines = append(headlines, Headline{
			Title:       fmt.Sprintf(template, company),
			Source:      source,
			PublishedAt: g.base.Add(-ageHours),
		})
	}

	return &MarketIntelligenceData{
		Sentiment: Sentiment{
			Score:      score,
			Label:      label,
			Confidence: 0.6 + float64((seed>>8)%40)/100,
		},
		Headlines:    headlines,
		ArticleCount: 5 + int((seed>>16)%60),
	}, nil
}
