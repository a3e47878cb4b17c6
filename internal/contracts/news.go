package contracts

import "time"

// News sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsEvent is one sentiment-tagged article for a ticker
type NewsEvent struct {
	Headline   string    `json:"headline"`
	Sentiment  string    `json:"sentiment"`
	HighImpact bool      `json:"highImpact"`
	Timestamp  time.Time `json:"timestamp"`
}
