package marketdata

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

func newTestClient(baseURL string) *Client {
	httpClient := httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
	return NewClient(httpClient, logger.NewNop(), baseURL)
}

func TestGetBatchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/history", r.URL.Path)
		assert.Equal(t, "AAPL,MSFT", r.URL.Query().Get("symbols"))
		assert.Equal(t, "6mo", r.URL.Query().Get("period"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"series": {
				"AAPL": [
					{"date": "2026-08-26", "open": 230, "high": 234, "low": 229, "close": 233, "volume": 51000000},
					{"date": "2026-08-27", "open": 233, "high": 236, "low": 232, "close": 235, "volume": 48000000}
				],
				"MSFT": [
					{"date": "not-a-date", "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}
				]
			},
			"errors": {"ZZZZ": "unknown symbol"}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	histories, err := client.GetBatchHistory(context.Background(), []string{"AAPL", "MSFT"}, "6mo")
	require.NoError(t, err)

	// MSFT's only bar has an unparseable date and drops out entirely
	require.Len(t, histories, 1)
	series := histories["AAPL"]
	require.Len(t, series, 2)
	assert.Equal(t, 235.0, series.LastClose())
	assert.Equal(t, int64(48000000), series[1].Volume)
}

func TestGetBatchHistory_EmptyTickerList(t *testing.T) {
	client := newTestClient("http://localhost:1")

	histories, err := client.GetBatchHistory(context.Background(), nil, "6mo")
	require.NoError(t, err)
	assert.Empty(t, histories)
}

func TestGetBatchHistory_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetBatchHistory(context.Background(), []string{"AAPL"}, "1mo")
	assert.Error(t, err)
}

func TestGetFundamentals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/fundamentals/AAPL", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"symbol": "AAPL",
			"trailingPE": 31.2,
			"returnOnEquity": 0.254,
			"profitMargin": 0.231,
			"revenueGrowth": 0.082,
			"marketCap": 3500000000000,
			"beta": 1.1,
			"fiftyTwoWeekHigh": 260.1,
			"fiftyTwoWeekLow": 169.2,
			"regularMarketPrice": 233.5
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	snapshot, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, contracts.SourcePrimary, snapshot.Source)
	assert.Equal(t, 31.2, snapshot.PE)
	// Decimal fractions converted to percent
	assert.InDelta(t, 25.4, snapshot.ROE, 0.001)
	assert.InDelta(t, 23.1, snapshot.ProfitMargin, 0.001)
	// Growth stays a decimal fraction, normalization is tag-driven
	assert.Equal(t, 0.082, snapshot.RevenueGrowth)
	assert.Equal(t, 3.5e12, snapshot.MarketCap)
	assert.Equal(t, 233.5, snapshot.CurrentPrice)
}

func TestGetFundamentals_UnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetFundamentals(context.Background(), "ZZZZ")
	assert.Error(t, err)
}
