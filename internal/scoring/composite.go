package scoring

import (
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
)

// Compose reduces a breakdown to the weighted composite in [0, 100].
// Each sub-score is divided by its own maximum first, so the same weight
// table applies to coarse and enriched breakdowns and their scores stay
// comparable across stages.
func Compose(b contracts.ScoreBreakdown, w strategy.Weights) float64 {
	score := b.Financial/contracts.MaxFinancialScore*w.Financial +
		b.MarketPosition/contracts.MaxMarketPositionScore*w.MarketPosition +
		b.Technical/contracts.MaxTechnicalScore*w.Technical +
		b.Momentum/contracts.MaxMomentumScore*w.Momentum

	return Clamp(score, 0, 100)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
