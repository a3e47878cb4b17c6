package finviz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/httputil"
	"github.com/oppscan/backend/pkg/logger"
)

// Client scrapes fundamentals from the finviz quote page. It is the
// fallback provider: snapshots carry SourceFallback and finviz reports
// growth as whole-number percentages, which scoring normalizes by tag.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new finviz client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetFundamentals scrapes the snapshot table for one ticker
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalsSnapshot, error) {
	fullURL := fmt.Sprintf("%s/quote.ashx?t=%s", c.baseURL, url.QueryEscape(ticker))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("quote page request for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, ticker)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse quote page for %s: %w", ticker, err)
	}

	fields := parseSnapshotTable(doc)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no snapshot table for %s", ticker)
	}

	snapshot := &contracts.FundamentalsSnapshot{
		Ticker:        ticker,
		Source:        contracts.SourceFallback,
		PE:            parseNumber(fields["P/E"]),
		ROE:           parseNumber(fields["ROE"]),           // already percent
		ProfitMargin:  parseNumber(fields["Profit Margin"]), // already percent
		RevenueGrowth: parseNumber(fields["Sales Q/Q"]),     // whole-number percent
		MarketCap:     parseMarketCap(fields["Market Cap"]),
		Beta:          parseNumber(fields["Beta"]),
		CurrentPrice:  parseNumber(fields["Price"]),
		FetchedAt:     time.Now().UTC(),
	}

	// 52W High/Low cells hold the percent distance; derive absolute levels
	if snapshot.CurrentPrice > 0 {
		if pct := parseNumber(fields["52W High"]); pct != 0 {
			snapshot.Week52High = snapshot.CurrentPrice / (1 + pct/100)
		}
		if pct := parseNumber(fields["52W Low"]); pct != 0 {
			snapshot.Week52Low = snapshot.CurrentPrice / (1 + pct/100)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"fields": len(fields),
	}).Debug("Scraped fallback fundamentals")

	return snapshot, nil
}

// Source tags snapshots from this client as fallback
func (c *Client) Source() contracts.SnapshotSource {
	return contracts.SourceFallback
}

// parseSnapshotTable reads the key/value grid on the quote page. Cells
// alternate label, value, label, value across each row.
func parseSnapshotTable(doc *goquery.Document) map[string]string {
	fields := make(map[string]string)

	doc.Find("table.snapshot-table2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			label := strings.TrimSpace(cells.Eq(i).Text())
			value := strings.TrimSpace(cells.Eq(i + 1).Text())
			if label != "" && value != "" && value != "-" {
				fields[label] = value
			}
		}
	})

	return fields
}

// parseNumber parses a cell value, tolerating % suffixes and commas
func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseMarketCap parses values like "2.95T", "310.5B", "45.2M"
func parseMarketCap(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'T':
		mult = 1e12
		s = s[:len(s)-1]
	case 'B':
		mult = 1e9
		s = s[:len(s)-1]
	case 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'K':
		mult = 1e3
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}
