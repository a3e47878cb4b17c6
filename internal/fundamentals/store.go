package fundamentals

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/metrics"
	"github.com/oppscan/backend/pkg/logger"
	"github.com/oppscan/backend/pkg/redis"
)

// Store is the read-through fundamentals cache backed by a primary and a
// fallback provider. The primary sits behind a circuit breaker so a broken
// upstream fails over to the fallback quickly instead of timing out K times
// per scan. Cache writes are last-write-wins and keyed by ticker only, so
// concurrent scans for different timeframes share snapshots safely.
type Store struct {
	cache    contracts.Cache
	primary  contracts.FundamentalsProvider
	fallback contracts.FundamentalsProvider
	breaker  *gobreaker.CircuitBreaker
	ttl      time.Duration
	logger   *logger.Logger
}

// NewStore creates a new fundamentals store. fallback may be nil.
func NewStore(
	cache contracts.Cache,
	primary contracts.FundamentalsProvider,
	fallback contracts.FundamentalsProvider,
	ttl time.Duration,
	log *logger.Logger,
) *Store {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fundamentals-primary",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Store{
		cache:    cache,
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		ttl:      ttl,
		logger:   log,
	}
}

// Get returns a snapshot for the ticker. forceRefresh bypasses the cache
// read but still writes through on success.
func (s *Store) Get(ctx context.Context, ticker string, forceRefresh bool) (*contracts.FundamentalsSnapshot, error) {
	key := redis.FundamentalsKey(ticker)

	if !forceRefresh {
		var cached contracts.FundamentalsSnapshot
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("Fundamentals cache read failed")
		}
		if found {
			metrics.CacheHits.WithLabelValues("fundamentals").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("fundamentals").Inc()
	}

	snapshot, err := s.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, snapshot, s.ttl); err != nil {
		// Cache write failure degrades to uncached operation
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Fundamentals cache write failed")
	}

	return snapshot, nil
}

// fetch tries the primary provider through the breaker, then the fallback
func (s *Store) fetch(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.primary.GetFundamentals(ctx, ticker)
	})
	if err == nil {
		return result.(*contracts.FundamentalsSnapshot), nil
	}

	metrics.ProviderErrors.WithLabelValues("fundamentals_primary").Inc()

	if s.fallback == nil {
		return nil, fmt.Errorf("primary fundamentals for %s: %w", ticker, err)
	}

	snapshot, fbErr := s.fallback.GetFundamentals(ctx, ticker)
	if fbErr != nil {
		metrics.ProviderErrors.WithLabelValues("fundamentals_fallback").Inc()
		return nil, fmt.Errorf("both fundamentals providers failed for %s: primary: %v, fallback: %w", ticker, err, fbErr)
	}

	return snapshot, nil
}
