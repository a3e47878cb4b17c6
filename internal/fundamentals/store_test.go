package fundamentals

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

type memoryCache struct {
	data map[string]*contracts.FundamentalsSnapshot
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]*contracts.FundamentalsSnapshot)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	snap, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*dest.(*contracts.FundamentalsSnapshot) = *snap
	return true, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	snap := *value.(*contracts.FundamentalsSnapshot)
	m.data[key] = &snap
	return nil
}

type fakeProvider struct {
	source contracts.SnapshotSource
	calls  int
	err    error
}

func (f *fakeProvider) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &contracts.FundamentalsSnapshot{
		Ticker:    ticker,
		Source:    f.source,
		PE:        15,
		FetchedAt: time.Now(),
	}, nil
}

func (f *fakeProvider) Source() contracts.SnapshotSource {
	return f.source
}

func TestStore_CachesSnapshots(t *testing.T) {
	primary := &fakeProvider{source: contracts.SourcePrimary}
	store := NewStore(newMemoryCache(), primary, nil, time.Hour, logger.NewNop())

	first, err := store.Get(context.Background(), "AAPL", false)
	require.NoError(t, err)
	assert.Equal(t, contracts.SourcePrimary, first.Source)

	_, err = store.Get(context.Background(), "AAPL", false)
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls, "second read must come from cache")
}

func TestStore_ForceRefreshBypassesCacheRead(t *testing.T) {
	primary := &fakeProvider{source: contracts.SourcePrimary}
	cache := newMemoryCache()
	store := NewStore(cache, primary, nil, time.Hour, logger.NewNop())

	_, err := store.Get(context.Background(), "AAPL", false)
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "AAPL", true)
	require.NoError(t, err)

	// Force refresh hits the provider again but still writes through
	assert.Equal(t, 2, primary.calls)
	assert.Len(t, cache.data, 1)
}

func TestStore_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeProvider{source: contracts.SourcePrimary, err: errors.New("gateway down")}
	fallback := &fakeProvider{source: contracts.SourceFallback}
	store := NewStore(newMemoryCache(), primary, fallback, time.Hour, logger.NewNop())

	snapshot, err := store.Get(context.Background(), "AAPL", false)
	require.NoError(t, err)

	assert.Equal(t, contracts.SourceFallback, snapshot.Source)
	assert.Equal(t, 1, fallback.calls)
}

func TestStore_BothProvidersFailing(t *testing.T) {
	primary := &fakeProvider{source: contracts.SourcePrimary, err: errors.New("gateway down")}
	fallback := &fakeProvider{source: contracts.SourceFallback, err: errors.New("scrape blocked")}
	store := NewStore(newMemoryCache(), primary, fallback, time.Hour, logger.NewNop())

	_, err := store.Get(context.Background(), "AAPL", false)
	assert.Error(t, err)
}

func TestStore_BreakerStopsHammeringBrokenPrimary(t *testing.T) {
	primary := &fakeProvider{source: contracts.SourcePrimary, err: errors.New("gateway down")}
	fallback := &fakeProvider{source: contracts.SourceFallback}
	store := NewStore(newMemoryCache(), primary, fallback, time.Hour, logger.NewNop())

	// Distinct tickers keep the cache out of the way
	for i := 0; i < 10; i++ {
		snapshot, err := store.Get(context.Background(), fmt.Sprintf("T%02d", i), false)
		require.NoError(t, err)
		assert.Equal(t, contracts.SourceFallback, snapshot.Source)
	}

	// The breaker opens after 5 consecutive failures; later requests go
	// straight to the fallback
	assert.Equal(t, 5, primary.calls)
	assert.Equal(t, 10, fallback.calls)
}
