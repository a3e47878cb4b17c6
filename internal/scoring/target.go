package scoring

import (
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

// TargetEstimator produces a guardrailed target price and potential return.
// The raw extrapolation is heuristic; the guardrail band is what guarantees
// no emitted pick ever reports an unrealistic move, regardless of upstream
// numeric noise.
type TargetEstimator struct {
	cfg    *strategy.Config
	logger *logger.Logger
}

// NewTargetEstimator creates a new target estimator
func NewTargetEstimator(cfg *strategy.Config, log *logger.Logger) *TargetEstimator {
	return &TargetEstimator{
		cfg:    cfg,
		logger: log,
	}
}

// Estimate extrapolates a raw target and clamps it into the guardrail band.
// Returns the clamped target price and the potential return in percent,
// both derived from the same clamped value so they always agree.
func (e *TargetEstimator) Estimate(
	tf contracts.Timeframe,
	currentPrice float64,
	normalizedGrowth float64,
	momentumScore float64,
	snapshot *contracts.FundamentalsSnapshot,
) (float64, float64) {
	if currentPrice <= 0 || !isFinite(currentPrice) {
		return 0, 0
	}

	raw := e.rawTarget(tf, currentPrice, normalizedGrowth, momentumScore)
	minMult, maxMult := e.band(tf, currentPrice, snapshot)

	target := Clamp(raw, currentPrice*minMult, currentPrice*maxMult)
	potential := (target/currentPrice - 1) * 100

	return target, potential
}

// rawTarget is the unguarded extrapolation:
// price x (1 + growth x growth_weight) x momentum_multiplier
func (e *TargetEstimator) rawTarget(tf contracts.Timeframe, price, growth, momentumScore float64) float64 {
	growthWeight := e.cfg.Target.GrowthWeight[tf]
	swingFrac := e.cfg.Target.MomentumSwingFrac[tf]

	// Momentum multiplier is centered at 1: a max momentum score pushes
	// the target up by swingFrac, a zero score pulls it down by the same.
	momentumMult := 1 + (momentumScore/contracts.MaxMomentumScore-0.5)*2*swingFrac

	raw := price * (1 + growth*growthWeight) * momentumMult
	if !isFinite(raw) || raw <= 0 {
		return price
	}
	return raw
}

// band computes the multiplicative guardrail band around the current price.
// Larger market-cap tiers tighten the band; 52-week extremes bound it when
// available; the timeframe's upside cap is folded into the ceiling.
func (e *TargetEstimator) band(tf contracts.Timeframe, price float64, snapshot *contracts.FundamentalsSnapshot) (float64, float64) {
	g := e.cfg.Guardrail[tf]
	minMult, maxMult := g.MinMult, g.MaxMult

	if snapshot != nil {
		factor := capTierBandFactor(snapshot.MarketCap)
		maxMult = 1 + (maxMult-1)*factor
		minMult = 1 - (1-minMult)*factor

		if snapshot.Week52High > 0 {
			ceiling := snapshot.Week52High * 1.2 / price
			if ceiling < maxMult {
				maxMult = ceiling
			}
		}
		if snapshot.Week52Low > 0 {
			floor := snapshot.Week52Low * 0.9 / price
			if floor > minMult {
				minMult = floor
			}
		}
	}

	// Timeframe upside cap is one more ceiling on the band
	upsideCap := 1 + g.UpsideCapPct/100
	if upsideCap < maxMult {
		maxMult = upsideCap
	}

	// Degenerate data can invert the band; collapse to the ceiling
	if minMult > maxMult {
		minMult = maxMult
	}

	return minMult, maxMult
}

// capTierBandFactor shrinks the band for larger caps. Mega-caps cannot
// realistically move as far as micro-caps over the same horizon.
func capTierBandFactor(marketCap float64) float64 {
	switch {
	case marketCap >= contracts.MegaCap:
		return 0.75
	case marketCap >= contracts.LargeCap:
		return 0.85
	default:
		return 1.0
	}
}
