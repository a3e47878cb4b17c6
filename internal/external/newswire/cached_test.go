package newswire

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

type fakeNews struct {
	events []contracts.NewsEvent
	err    error
	calls  int
}

func (f *fakeNews) GetRecentNews(ctx context.Context, ticker string, days int) ([]contracts.NewsEvent, error) {
	f.calls++
	return f.events, f.err
}

func TestCachedProvider_CachesLookups(t *testing.T) {
	inner := &fakeNews{events: []contracts.NewsEvent{
		{Headline: "Earnings beat", Sentiment: contracts.SentimentPositive, Timestamp: time.Now().UTC()},
	}}
	provider := NewCachedProvider(inner, newMemoryCache(), logger.NewNop())

	first, err := provider.GetRecentNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)

	second, err := provider.GetRecentNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Len(t, first, 1)
	assert.Equal(t, first[0].Headline, second[0].Headline)
}

func TestCachedProvider_KeysIncludeWindow(t *testing.T) {
	inner := &fakeNews{}
	provider := NewCachedProvider(inner, newMemoryCache(), logger.NewNop())

	_, err := provider.GetRecentNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	_, err = provider.GetRecentNews(context.Background(), "AAPL", 30)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	inner := &fakeNews{err: errors.New("news api down")}
	provider := NewCachedProvider(inner, newMemoryCache(), logger.NewNop())

	_, err := provider.GetRecentNews(context.Background(), "AAPL", 7)
	assert.Error(t, err)
	_, err = provider.GetRecentNews(context.Background(), "AAPL", 7)
	assert.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
