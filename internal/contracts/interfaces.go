package contracts

import (
	"context"
	"time"
)

// UniverseProvider supplies the full ticker universe with its core subset
type UniverseProvider interface {
	GetUniverse(ctx context.Context) (*Universe, error)
}

// HistoryProvider fetches OHLCV series for many tickers in one bulk call.
// Partial results are allowed; a missing entry means "no data, skip".
type HistoryProvider interface {
	GetBatchHistory(ctx context.Context, tickers []string, period string) (map[string]HistoricalSeries, error)
}

// FundamentalsProvider fetches a fundamentals snapshot for one ticker.
// Implementations tag the snapshot with their SnapshotSource.
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, ticker string) (*FundamentalsSnapshot, error)
	Source() SnapshotSource
}

// NewsProvider returns recent sentiment-tagged news events for a ticker
type NewsProvider interface {
	GetRecentNews(ctx context.Context, ticker string, days int) ([]NewsEvent, error)
}

// Cache is the TTL key-value cache the pipeline consults across runs.
// Writes are idempotent last-write-wins.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
