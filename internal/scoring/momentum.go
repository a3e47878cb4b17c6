package scoring

import (
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

// MomentumCalculator scores recent price momentum. Maximum raw score is
// contracts.MaxMomentumScore (10): a lookback-window return bucketed into
// 6/5/3/1/0 plus a recent average daily return bucketed into 4/2/1/0,
// additive and capped at 10.
type MomentumCalculator struct {
	logger *logger.Logger
}

// NewMomentumCalculator creates a new momentum calculator
func NewMomentumCalculator(log *logger.Logger) *MomentumCalculator {
	return &MomentumCalculator{
		logger: log,
	}
}

// MomentumDetail carries the raw values behind a momentum score
type MomentumDetail struct {
	WindowReturn   float64 // over lb.MomentumDays, as a fraction
	RecentDailyAvg float64 // average daily return over lb.RecentDays
}

// Calculate computes the momentum score for a series
func (c *MomentumCalculator) Calculate(ticker string, series contracts.HistoricalSeries, lb contracts.LookbackParams) (float64, MomentumDetail) {
	detail := MomentumDetail{}

	detail.WindowReturn = windowReturn(series, lb.MomentumDays)
	var score float64
	switch {
	case detail.WindowReturn >= 0.15:
		score += 6
	case detail.WindowReturn >= 0.08:
		score += 5
	case detail.WindowReturn >= 0.03:
		score += 3
	case detail.WindowReturn >= 0:
		score += 1
	}

	detail.RecentDailyAvg = avgDailyReturn(series, lb.RecentDays)
	switch {
	case detail.RecentDailyAvg >= 0.005:
		score += 4
	case detail.RecentDailyAvg >= 0.002:
		score += 2
	case detail.RecentDailyAvg >= 0:
		score += 1
	}

	if score > contracts.MaxMomentumScore {
		score = contracts.MaxMomentumScore
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":        ticker,
		"window_return": detail.WindowReturn,
		"recent_daily":  detail.RecentDailyAvg,
		"score":         score,
	}).Debug("Calculated momentum score")

	return score, detail
}

// windowReturn is the fractional return over the last n bars
func windowReturn(series contracts.HistoricalSeries, n int) float64 {
	if n <= 0 || len(series) < n+1 {
		return 0
	}

	current := series[len(series)-1].Close
	past := series[len(series)-1-n].Close
	if past <= 0 || !isFinite(current) || !isFinite(past) {
		return 0
	}

	ret := (current - past) / past
	if !isFinite(ret) {
		return 0
	}
	return ret
}

// avgDailyReturn is the mean of the last n single-bar returns
func avgDailyReturn(series contracts.HistoricalSeries, n int) float64 {
	if n <= 0 || len(series) < n+1 {
		return 0
	}

	recent := series[len(series)-n-1:]
	var sum float64
	var counted int
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].Close
		if prev <= 0 {
			continue
		}
		r := (recent[i].Close - prev) / prev
		if !isFinite(r) {
			continue
		}
		sum += r
		counted++
	}

	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}
