package intel

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a cached payload stays fresh.
	DefaultTTL = 10 * time.Minute
	// DefaultSweepInterval is how often the background sweeper runs.
	DefaultSweepInterval = 5 * time.Minute
	// DefaultMaxEntries triggers an eager sweep when the store grows past it.
	DefaultMaxEntries = 1000
)

// ServiceConfig tunes the intelligence service. Zero values fall back to the
// package defaults.
type ServiceConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxEntries    int
}

// Service serves market intelligence through a TTL cache with per-key
// single-flight generation: N concurrent callers for the same uncached
// company trigger exactly one generation call and all receive its result.
type Service struct {
	store  CacheStore
	gen    Generator
	ttl    time.Duration
	sweep  time.Duration
	maxLen int
	flight singleflight.Group
	now    func() time.Time
}

// NewService creates a Service over the given store and generator.
func NewService(store CacheStore, gen Generator, cfg ServiceConfig) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	return &Service{
		store:  store,
		gen:    gen,
		ttl:    cfg.TTL,
		sweep:  cfg.SweepInterval,
		maxLen: cfg.MaxEntries,
		now:    time.Now,
	}
}

// Get returns intelligence for a company, serving from cache while fresh and
// regenerating otherwise. Returns a typed *Error: VALIDATION_FAILED for a bad
// company name (not retryable), GET_FAILED when generation fails (the caller
// may retry; the service never retries internally).
func (s *Service) Get(ctx context.Context, company string) (*MarketIntelligenceData, error) {
	if err := ValidateCompanyName(company); err != nil {
		return nil, err
	}
	display := strings.TrimSpace(company)
	key := NormalizeKey(company)

	if entry, ok := s.fresh(key); ok {
		zap.L().Debug("intel: cache hit", zap.String("company", key))
		return cloneData(entry.Data), nil
	}

	v, err, shared := s.flight.Do(key, func() (any, error) {
		// A concurrent caller may have populated the key while this call
		// waited on the flight group.
		if entry, ok := s.fresh(key); ok {
			return entry.Data, nil
		}

		data, err := s.gen.Generate(ctx, display)
		if err != nil {
			return nil, wrapGetError(err, display)
		}

		now := s.now().UTC()
		data.Company = display
		data.LastUpdated = now
		s.store.Set(key, &Entry{
			Data:      data,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		})

		// Bound growth between sweeper runs.
		if s.store.Len() > s.maxLen {
			s.store.DeleteExpired(now)
		}

		zap.L().Info("intel: generated intelligence",
			zap.String("company", key),
			zap.String("sentiment", string(data.Sentiment.Label)),
			zap.Int("article_count", data.ArticleCount),
		)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		zap.L().Debug("intel: request coalesced", zap.String("company", key))
	}
	return cloneData(v.(*MarketIntelligenceData)), nil
}

// cloneData copies a payload so callers cannot mutate cached state.
func cloneData(d *MarketIntelligenceData) *MarketIntelligenceData {
	cp := *d
	cp.Headlines = append([]Headline(nil), d.Headlines...)
	return &cp
}

// fresh returns the entry for key if it exists and has not expired.
func (s *Service) fresh(key string) (*Entry, bool) {
	entry, ok := s.store.Get(key)
	if !ok || !entry.ExpiresAt.After(s.now()) {
		return nil, false
	}
	return entry, true
}

// Invalidate removes any cached entry for a company.
func (s *Service) Invalidate(company string) error {
	if err := ValidateCompanyName(company); err != nil {
		return err
	}
	s.store.Delete(NormalizeKey(company))
	return nil
}

// ClearExpired synchronously removes all expired entries and returns the
// number removed.
func (s *Service) ClearExpired() int {
	return s.store.DeleteExpired(s.now())
}

// Size returns the number of entries currently held, expired or not.
func (s *Service) Size() int {
	return s.store.Len()
}

// StartSweeper runs the periodic expiry sweep until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.ClearExpired(); removed > 0 {
					zap.L().Debug("intel: swept expired entries", zap.Int("removed", removed))
				}
			}
		}
	}()
}
