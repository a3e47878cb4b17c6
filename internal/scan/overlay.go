package scan

import (
	"context"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/metrics"
	"github.com/oppscan/backend/internal/scoring"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

// OverlayAdjuster applies the bounded news-sentiment adjustment to a
// candidate's composite score. The adjustment is strictly additive with
// per-category article caps, so piling on more coverage beyond the caps
// has no further effect. A failed news lookup skips the ticker silently.
type OverlayAdjuster struct {
	news   contracts.NewsProvider
	params strategy.Overlay
	logger *logger.Logger
}

// NewOverlayAdjuster creates a new overlay adjuster
func NewOverlayAdjuster(news contracts.NewsProvider, params strategy.Overlay, log *logger.Logger) *OverlayAdjuster {
	return &OverlayAdjuster{
		news:   news,
		params: params,
		logger: log,
	}
}

// Adjust returns the overlay-adjusted score, clamped to [0, 100], plus the
// signal tags the news contributed
func (a *OverlayAdjuster) Adjust(ctx context.Context, ticker string, score float64) (float64, []string) {
	if a.news == nil {
		return score, nil
	}

	events, err := a.news.GetRecentNews(ctx, ticker, a.params.WindowDays)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues("news").Inc()
		a.logger.WithError(err).WithField("ticker", ticker).Debug("News lookup failed, skipping overlay")
		return score, nil
	}
	if len(events) == 0 {
		return score, nil
	}

	adjusted := score + a.adjustment(events)
	adjusted = scoring.Clamp(adjusted, 0, 100)

	a.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"events":   len(events),
		"score":    score,
		"adjusted": adjusted,
	}).Debug("Applied news overlay")

	return adjusted, a.tags(events)
}

// adjustment computes the capped additive correction
func (a *OverlayAdjuster) adjustment(events []contracts.NewsEvent) float64 {
	var positive, negative, highImpact int
	for _, e := range events {
		switch e.Sentiment {
		case contracts.SentimentPositive:
			positive++
		case contracts.SentimentNegative:
			negative++
		}
		if e.HighImpact {
			highImpact++
		}
	}

	p := a.params
	return float64(capInt(positive, p.PositiveCap))*p.PositivePoints -
		float64(capInt(negative, p.NegativeCap))*p.NegativePoints +
		float64(capInt(highImpact, p.HighImpactCap))*p.HighImpactPoints +
		float64(capInt(len(events), p.VolumeCap))*p.VolumePoints
}

// tags derives the news signal tags for the pick
func (a *OverlayAdjuster) tags(events []contracts.NewsEvent) []string {
	var positive, negative, highImpact bool
	for _, e := range events {
		switch e.Sentiment {
		case contracts.SentimentPositive:
			positive = true
		case contracts.SentimentNegative:
			negative = true
		}
		if e.HighImpact {
			highImpact = true
		}
	}

	var tags []string
	if positive {
		tags = append(tags, "positive-news")
	}
	if negative {
		tags = append(tags, "negative-news")
	}
	if highImpact {
		tags = append(tags, "high-impact-news")
	}
	return tags
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}
