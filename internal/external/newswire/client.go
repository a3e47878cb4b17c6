package newswire

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/httputil"
	"github.com/oppscan/backend/pkg/logger"
)

// Client fetches recent sentiment-tagged news events. When no base URL is
// configured the client is disabled and returns no events, which the
// overlay treats as "no adjustment".
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new news client
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Enabled reports whether a news backend is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type newsResponse struct {
	Articles []newsArticle `json:"articles"`
}

type newsArticle struct {
	Headline    string  `json:"headline"`
	Sentiment   string  `json:"sentiment"` // positive | negative | neutral
	ImpactScore float64 `json:"impactScore"`
	PublishedAt string  `json:"publishedAt"` // RFC3339
}

// GetRecentNews returns sentiment-tagged events over the trailing window
func (c *Client) GetRecentNews(ctx context.Context, ticker string, days int) ([]contracts.NewsEvent, error) {
	if !c.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("days", strconv.Itoa(days))
	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}

	fullURL := fmt.Sprintf("%s/api/v1/news?%s", c.baseURL, params.Encode())

	var payload newsResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("news request for %s: %w", ticker, err)
	}

	events := make([]contracts.NewsEvent, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		ts, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			ts = time.Now().UTC()
		}

		sentiment := strings.ToLower(a.Sentiment)
		switch sentiment {
		case contracts.SentimentPositive, contracts.SentimentNegative:
		default:
			sentiment = contracts.SentimentNeutral
		}

		events = append(events, contracts.NewsEvent{
			Headline:   a.Headline,
			Sentiment:  sentiment,
			HighImpact: a.ImpactScore >= 0.7,
			Timestamp:  ts,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"days":   days,
		"events": len(events),
	}).Debug("Fetched recent news")

	return events, nil
}
