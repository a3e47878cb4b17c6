package newswire

import (
	"context"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
	"github.com/oppscan/backend/pkg/redis"
)

// newsCacheTTL is short relative to the overlay window; fresh coverage
// should show up within minutes, not hours
const newsCacheTTL = 10 * time.Minute

// CachedProvider caches recent-news lookups so the enrichment stage does not
// hit the news API once per candidate on every scan. Cache failures fall
// through to the live provider.
type CachedProvider struct {
	inner  contracts.NewsProvider
	cache  contracts.Cache
	logger *logger.Logger
}

// NewCachedProvider wraps a news provider with a read-through cache
func NewCachedProvider(inner contracts.NewsProvider, cache contracts.Cache, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  cache,
		logger: log,
	}
}

// GetRecentNews returns cached events when present, fetching otherwise
func (p *CachedProvider) GetRecentNews(ctx context.Context, ticker string, days int) ([]contracts.NewsEvent, error) {
	key := redis.NewsKey(ticker, days)

	var cached []contracts.NewsEvent
	if hit, err := p.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	events, err := p.inner.GetRecentNews(ctx, ticker, days)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, events, newsCacheTTL); err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Debug("Failed to cache news events")
	}

	return events, nil
}
