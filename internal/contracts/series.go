package contracts

import "time"

// Bar is a single OHLCV bar
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoricalSeries is a time-ordered OHLCV series, oldest bar first.
// It is fetched once per pipeline run and lent to the scorers, never copied.
type HistoricalSeries []Bar

// LastClose returns the most recent closing price, or 0 for an empty series
func (s HistoricalSeries) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Closes returns the closing prices, oldest first
func (s HistoricalSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}
