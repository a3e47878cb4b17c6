package scoring

import (
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

// MarketPositionCalculator scores market-cap tier and beta stability.
// Maximum raw score is contracts.MaxMarketPositionScore (30):
// cap tier up to 18, beta stability up to 12.
type MarketPositionCalculator struct {
	logger *logger.Logger
}

// NewMarketPositionCalculator creates a new market position calculator
func NewMarketPositionCalculator(log *logger.Logger) *MarketPositionCalculator {
	return &MarketPositionCalculator{
		logger: log,
	}
}

// Calculate computes the market position score for a snapshot. A nil
// snapshot yields the neutral half-max.
func (c *MarketPositionCalculator) Calculate(snapshot *contracts.FundamentalsSnapshot) float64 {
	if snapshot == nil {
		return contracts.MaxMarketPositionScore / 2
	}

	score := capTierScore(snapshot.MarketCap) + betaScore(snapshot.Beta)

	c.logger.WithFields(map[string]interface{}{
		"ticker": snapshot.Ticker,
		"score":  score,
	}).Debug("Calculated market position score")

	return score
}

func capTierScore(marketCap float64) float64 {
	switch {
	case marketCap >= contracts.MegaCap:
		return 18
	case marketCap >= contracts.LargeCap:
		return 15
	case marketCap >= contracts.MidCap:
		return 11
	case marketCap >= contracts.SmallCap:
		return 7
	default:
		return 3
	}
}

func betaScore(beta float64) float64 {
	if !isFinite(beta) {
		return 4
	}
	switch {
	case beta >= 0.8 && beta <= 1.2:
		return 12
	case beta >= 0.5 && beta <= 1.5:
		return 8
	default:
		return 4
	}
}
