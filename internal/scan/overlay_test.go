package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

type fakeNews struct {
	events []contracts.NewsEvent
	err    error
}

func (f *fakeNews) GetRecentNews(ctx context.Context, ticker string, days int) ([]contracts.NewsEvent, error) {
	return f.events, f.err
}

func events(sentiments ...string) []contracts.NewsEvent {
	out := make([]contracts.NewsEvent, len(sentiments))
	for i, s := range sentiments {
		out[i] = contracts.NewsEvent{
			Headline:  "headline",
			Sentiment: s,
			Timestamp: time.Now(),
		}
	}
	return out
}

func newOverlay(news contracts.NewsProvider) *OverlayAdjuster {
	return NewOverlayAdjuster(news, strategy.Default().Overlay, logger.NewNop())
}

func TestOverlay_PositiveNewsRaisesScore(t *testing.T) {
	o := newOverlay(&fakeNews{events: events(contracts.SentimentPositive)})

	// +4 for one positive, +1.5 for one article
	adjusted, tags := o.Adjust(context.Background(), "TICK", 50)

	assert.InDelta(t, 55.5, adjusted, 0.001)
	assert.Contains(t, tags, "positive-news")
}

func TestOverlay_CapsStopPilingOn(t *testing.T) {
	few := newOverlay(&fakeNews{events: events(
		contracts.SentimentPositive, contracts.SentimentPositive,
	)})
	many := newOverlay(&fakeNews{events: events(
		contracts.SentimentPositive, contracts.SentimentPositive, contracts.SentimentPositive,
		contracts.SentimentPositive, contracts.SentimentPositive, contracts.SentimentPositive,
	)})

	fewScore, _ := few.Adjust(context.Background(), "TICK", 50)
	manyScore, _ := many.Adjust(context.Background(), "TICK", 50)

	// 2 positives hit the sentiment cap; extra articles only add capped
	// volume points
	assert.InDelta(t, 50+8+3, fewScore, 0.001)
	assert.InDelta(t, 50+8+4.5, manyScore, 0.001)
}

func TestOverlay_NegativeNewsLowersScore(t *testing.T) {
	o := newOverlay(&fakeNews{events: events(contracts.SentimentNegative)})

	adjusted, tags := o.Adjust(context.Background(), "TICK", 50)

	// -4 for one negative, +1.5 for one article
	assert.InDelta(t, 47.5, adjusted, 0.001)
	assert.Contains(t, tags, "negative-news")
}

func TestOverlay_HighImpact(t *testing.T) {
	evts := events(contracts.SentimentNeutral)
	evts[0].HighImpact = true
	o := newOverlay(&fakeNews{events: evts})

	adjusted, tags := o.Adjust(context.Background(), "TICK", 50)

	// +3 high impact, +1.5 volume
	assert.InDelta(t, 54.5, adjusted, 0.001)
	assert.Contains(t, tags, "high-impact-news")
}

func TestOverlay_LookupFailureLeavesScoreUntouched(t *testing.T) {
	o := newOverlay(&fakeNews{err: errors.New("upstream down")})

	adjusted, tags := o.Adjust(context.Background(), "TICK", 71.5)

	assert.Equal(t, 71.5, adjusted)
	assert.Empty(t, tags)
}

func TestOverlay_NoEventsNoChange(t *testing.T) {
	o := newOverlay(&fakeNews{})

	adjusted, tags := o.Adjust(context.Background(), "TICK", 33)

	assert.Equal(t, 33.0, adjusted)
	assert.Empty(t, tags)
}

func TestOverlay_ClampedAtHundred(t *testing.T) {
	o := newOverlay(&fakeNews{events: events(
		contracts.SentimentPositive, contracts.SentimentPositive, contracts.SentimentPositive,
	)})

	adjusted, _ := o.Adjust(context.Background(), "TICK", 98)

	assert.Equal(t, 100.0, adjusted)
}

func TestOverlay_NilProviderIsNoop(t *testing.T) {
	o := NewOverlayAdjuster(nil, strategy.Default().Overlay, logger.NewNop())

	adjusted, tags := o.Adjust(context.Background(), "TICK", 60)

	assert.Equal(t, 60.0, adjusted)
	assert.Empty(t, tags)
}
