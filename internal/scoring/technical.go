package scoring

import (
	"math"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

// TechnicalCalculator scores a ticker from its price history alone.
// Maximum raw score is contracts.MaxTechnicalScore (20):
// fast MA +4, slow MA +4, RSI band up to 6, volume ratio up to 6.
type TechnicalCalculator struct {
	logger *logger.Logger
}

// NewTechnicalCalculator creates a new technical calculator
func NewTechnicalCalculator(log *logger.Logger) *TechnicalCalculator {
	return &TechnicalCalculator{
		logger: log,
	}
}

// TechnicalDetail carries the raw indicator values behind a score
type TechnicalDetail struct {
	RSI         float64
	FastMA      float64
	SlowMA      float64
	VolumeRatio float64
	AboveFastMA bool
	AboveSlowMA bool
}

// Calculate computes the technical score for a series. Series shorter than
// the timeframe minimum are the caller's responsibility to skip; this only
// guards the individual windows.
func (c *TechnicalCalculator) Calculate(ticker string, series contracts.HistoricalSeries, lb contracts.LookbackParams) (float64, TechnicalDetail) {
	detail := TechnicalDetail{RSI: 50}

	price := series.LastClose()
	if price <= 0 || !isFinite(price) {
		return 0, detail
	}

	var score float64

	detail.FastMA = movingAverage(series, lb.FastMA)
	if detail.FastMA > 0 && price > detail.FastMA {
		detail.AboveFastMA = true
		score += 4
	}

	detail.SlowMA = movingAverage(series, lb.SlowMA)
	if detail.SlowMA > 0 && price > detail.SlowMA {
		detail.AboveSlowMA = true
		score += 4
	}

	detail.RSI = relativeStrength(series, lb.RSIPeriod)
	switch {
	case detail.RSI >= 40 && detail.RSI <= 60:
		score += 6
	case detail.RSI >= 30 && detail.RSI <= 70:
		score += 4
	}

	detail.VolumeRatio = volumeRatio(series, lb.VolumeShort, lb.VolumeLong)
	switch {
	case detail.VolumeRatio > 1.2:
		score += 6
	case detail.VolumeRatio > 1.0:
		score += 3
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":       ticker,
		"rsi":          detail.RSI,
		"volume_ratio": detail.VolumeRatio,
		"score":        score,
	}).Debug("Calculated technical score")

	return score, detail
}

// movingAverage returns the simple moving average of the last n closes,
// or 0 when the series is too short
func movingAverage(series contracts.HistoricalSeries, n int) float64 {
	if n <= 0 || len(series) < n {
		return 0
	}

	var sum float64
	for _, bar := range series[len(series)-n:] {
		sum += bar.Close
	}

	ma := sum / float64(n)
	if !isFinite(ma) {
		return 0
	}
	return ma
}

// relativeStrength computes an RSI-like oscillator over the last period
// bars. Degenerate inputs return the neutral 50.
func relativeStrength(series contracts.HistoricalSeries, period int) float64 {
	if period <= 0 || len(series) < period+1 {
		return 50
	}

	var gains, losses float64
	recent := series[len(series)-period-1:]
	for i := 1; i < len(recent); i++ {
		change := recent[i].Close - recent[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	rsi := 100 - (100 / (1 + rs))
	if !isFinite(rsi) {
		return 50
	}
	return rsi
}

// volumeRatio divides the short-window average volume by the long-window
// average. No usable volume data yields 0, which scores no points.
func volumeRatio(series contracts.HistoricalSeries, short, long int) float64 {
	if short <= 0 || long <= 0 || len(series) < long {
		return 0
	}

	avg := func(bars contracts.HistoricalSeries) float64 {
		var sum int64
		for _, b := range bars {
			sum += b.Volume
		}
		return float64(sum) / float64(len(bars))
	}

	shortAvg := avg(series[len(series)-short:])
	longAvg := avg(series[len(series)-long:])
	if longAvg <= 0 {
		return 0
	}

	ratio := shortAvg / longAvg
	if !isFinite(ratio) {
		return 0
	}
	return ratio
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
