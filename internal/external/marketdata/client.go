package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/httputil"
	"github.com/oppscan/backend/pkg/logger"
)

// Client talks to the market-data gateway. It serves both bulk OHLCV
// history and primary fundamentals snapshots.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new market-data client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// historyResponse is the gateway's bulk history payload
type historyResponse struct {
	Series map[string][]historyBar `json:"series"`
	Errors map[string]string       `json:"errors,omitempty"`
}

type historyBar struct {
	Date   string  `json:"date"` // 2006-01-02
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// GetBatchHistory fetches OHLCV series for all tickers in one bulk call.
// Tickers the gateway has no data for are simply absent from the result.
func (c *Client) GetBatchHistory(ctx context.Context, tickers []string, period string) (map[string]contracts.HistoricalSeries, error) {
	if len(tickers) == 0 {
		return map[string]contracts.HistoricalSeries{}, nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(tickers, ","))
	params.Set("period", period)
	params.Set("interval", "1d")

	fullURL := fmt.Sprintf("%s/api/v1/history?%s", c.baseURL, params.Encode())

	var payload historyResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("batch history request: %w", err)
	}

	result := make(map[string]contracts.HistoricalSeries, len(payload.Series))
	for ticker, bars := range payload.Series {
		series := make(contracts.HistoricalSeries, 0, len(bars))
		for _, b := range bars {
			date, err := time.Parse("2006-01-02", b.Date)
			if err != nil {
				continue
			}
			series = append(series, contracts.Bar{
				Date:   date,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			})
		}
		if len(series) > 0 {
			result[ticker] = series
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"received":  len(result),
		"period":    period,
	}).Info("Fetched batch history")

	return result, nil
}

// fundamentalsResponse is the gateway's fundamentals payload
type fundamentalsResponse struct {
	Symbol        string  `json:"symbol"`
	TrailingPE    float64 `json:"trailingPE"`
	ReturnOnEquity float64 `json:"returnOnEquity"` // decimal fraction
	ProfitMargin  float64 `json:"profitMargin"`    // decimal fraction
	RevenueGrowth float64 `json:"revenueGrowth"`   // decimal fraction
	MarketCap     float64 `json:"marketCap"`
	Beta          float64 `json:"beta"`
	Week52High    float64 `json:"fiftyTwoWeekHigh"`
	Week52Low     float64 `json:"fiftyTwoWeekLow"`
	Price         float64 `json:"regularMarketPrice"`
}

// GetFundamentals fetches the primary fundamentals snapshot for one ticker
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	fullURL := fmt.Sprintf("%s/api/v1/fundamentals/%s", c.baseURL, url.PathEscape(ticker))

	var payload fundamentalsResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("fundamentals request for %s: %w", ticker, err)
	}

	if payload.Symbol == "" {
		return nil, fmt.Errorf("no fundamentals for %s", ticker)
	}

	return &contracts.FundamentalsSnapshot{
		Ticker: ticker,
		Source: contracts.SourcePrimary,
		PE:     payload.TrailingPE,
		// Gateway reports decimal fractions, scoring expects percent
		ROE:           payload.ReturnOnEquity * 100,
		ProfitMargin:  payload.ProfitMargin * 100,
		RevenueGrowth: payload.RevenueGrowth,
		MarketCap:     payload.MarketCap,
		Beta:          payload.Beta,
		Week52High:    payload.Week52High,
		Week52Low:     payload.Week52Low,
		CurrentPrice:  payload.Price,
		FetchedAt:     time.Now().UTC(),
	}, nil
}

// Source tags snapshots from this client as primary
func (c *Client) Source() contracts.SnapshotSource {
	return contracts.SourcePrimary
}
