package scoring

import (
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

// FinancialCalculator scores a fundamentals snapshot. Maximum raw score is
// contracts.MaxFinancialScore (40): P/E up to 12, ROE up to 10, profit
// margin up to 8, revenue growth up to 10.
type FinancialCalculator struct {
	growth strategy.Growth
	logger *logger.Logger
}

// NewFinancialCalculator creates a new financial calculator
func NewFinancialCalculator(growth strategy.Growth, log *logger.Logger) *FinancialCalculator {
	return &FinancialCalculator{
		growth: growth,
		logger: log,
	}
}

// Calculate computes the financial score for a snapshot. A nil snapshot
// (coarse stage, or both providers failed) yields the neutral half-max.
func (c *FinancialCalculator) Calculate(snapshot *contracts.FundamentalsSnapshot) float64 {
	if snapshot == nil {
		return contracts.MaxFinancialScore / 2
	}

	score := peScore(snapshot.PE) +
		roeScore(snapshot.ROE) +
		marginScore(snapshot.ProfitMargin) +
		growthScore(c.NormalizedGrowth(snapshot))

	c.logger.WithFields(map[string]interface{}{
		"ticker": snapshot.Ticker,
		"source": snapshot.Source,
		"score":  score,
	}).Debug("Calculated financial score")

	return score
}

// NormalizedGrowth returns the snapshot's revenue growth as a decimal
// fraction. Figures above the source provider's whole-number threshold are
// divided by 100; the result is clamped and a missing figure gets a mild
// positive prior instead of 0.
func (c *FinancialCalculator) NormalizedGrowth(snapshot *contracts.FundamentalsSnapshot) float64 {
	if snapshot == nil {
		return c.growth.MissingDefault
	}

	raw := snapshot.RevenueGrowth
	if raw == 0 || !isFinite(raw) {
		return c.growth.MissingDefault
	}

	threshold := c.growth.DivideAbove(snapshot.Source)
	if abs(raw) > threshold {
		raw /= 100
	}

	if raw < c.growth.ClampMin {
		raw = c.growth.ClampMin
	}
	if raw > c.growth.ClampMax {
		raw = c.growth.ClampMax
	}
	return raw
}

func peScore(pe float64) float64 {
	if pe <= 0 || !isFinite(pe) {
		return 0
	}
	switch {
	case pe < 5:
		// Suspiciously cheap, score with caution
		return 6
	case pe <= 15:
		return 12
	case pe <= 25:
		return 10
	case pe <= 40:
		return 6
	default:
		return 3
	}
}

func roeScore(roe float64) float64 {
	if !isFinite(roe) {
		return 0
	}
	switch {
	case roe >= 20:
		return 10
	case roe >= 15:
		return 7
	case roe >= 10:
		return 5
	case roe >= 5:
		return 3
	default:
		return 0
	}
}

func marginScore(margin float64) float64 {
	if !isFinite(margin) {
		return 0
	}
	switch {
	case margin >= 20:
		return 8
	case margin >= 15:
		return 6
	case margin >= 10:
		return 4
	case margin >= 5:
		return 2
	default:
		return 0
	}
}

// growthScore expects a normalized decimal fraction
func growthScore(growth float64) float64 {
	switch {
	case growth >= 0.30:
		return 10
	case growth >= 0.20:
		return 8
	case growth >= 0.10:
		return 5
	case growth >= 0.05:
		return 3
	default:
		return 0
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
