package newswire

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/httputil"
	"github.com/oppscan/backend/pkg/logger"
)

func newTestClient(baseURL, apiKey string) *Client {
	httpClient := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), baseURL, apiKey)
}

func TestGetRecentNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"articles": [
				{"headline": "Earnings beat", "sentiment": "positive", "impactScore": 0.9, "publishedAt": "2026-08-26T14:00:00Z"},
				{"headline": "Sector note", "sentiment": "bullish", "impactScore": 0.2, "publishedAt": "2026-08-25T09:30:00Z"},
				{"headline": "Recall issued", "sentiment": "negative", "impactScore": 0.4, "publishedAt": "bad-timestamp"}
			]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret")

	events, err := client.GetRecentNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, contracts.SentimentPositive, events[0].Sentiment)
	assert.True(t, events[0].HighImpact)

	// Unknown sentiment labels collapse to neutral
	assert.Equal(t, contracts.SentimentNeutral, events[1].Sentiment)
	assert.False(t, events[1].HighImpact)

	assert.Equal(t, contracts.SentimentNegative, events[2].Sentiment)
	// Unparseable timestamps fall back to now rather than dropping the event
	assert.WithinDuration(t, time.Now(), events[2].Timestamp, time.Minute)
}

func TestGetRecentNews_DisabledClient(t *testing.T) {
	client := newTestClient("", "")

	assert.False(t, client.Enabled())

	events, err := client.GetRecentNews(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	assert.Empty(t, events)
}
