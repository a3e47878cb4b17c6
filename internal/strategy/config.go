package strategy

import (
	"fmt"

	"github.com/oppscan/backend/internal/contracts"
)

// Config is the tunable scoring strategy: timeframe weight tables,
// guardrail bands, news overlay points and the enrichment budget.
// Defaults live in code; a YAML file may override them.
type Config struct {
	Weights   map[contracts.Timeframe]Weights   `yaml:"weights" json:"weights"`
	Guardrail map[contracts.Timeframe]Guardrail `yaml:"guardrail" json:"guardrail"`
	Overlay   Overlay                           `yaml:"overlay" json:"overlay"`
	Enrich    Enrich                            `yaml:"enrich" json:"enrich"`
	Growth    Growth                            `yaml:"growth" json:"growth"`
	Target    Target                            `yaml:"target" json:"target"`
}

// Weights is the timeframe weight table applied to the four sub-scores.
// Each sub-score is first divided by its own maximum; the weights sum to 100
// so the composite is always reducible to [0, 100].
type Weights struct {
	Financial      float64 `yaml:"financial" json:"financial"`
	MarketPosition float64 `yaml:"market_position" json:"market_position"`
	Technical      float64 `yaml:"technical" json:"technical"`
	Momentum       float64 `yaml:"momentum" json:"momentum"`
}

// Sum returns the weight total
func (w Weights) Sum() float64 {
	return w.Financial + w.MarketPosition + w.Technical + w.Momentum
}

// Guardrail is the multiplicative band for target prices on one timeframe
type Guardrail struct {
	MinMult      float64 `yaml:"min_mult" json:"min_mult"`
	MaxMult      float64 `yaml:"max_mult" json:"max_mult"`
	UpsideCapPct float64 `yaml:"upside_cap_pct" json:"upside_cap_pct"`
}

// Overlay holds the bounded news-sentiment adjustment points and caps
type Overlay struct {
	PositivePoints  float64 `yaml:"positive_points" json:"positive_points"`
	PositiveCap     int     `yaml:"positive_cap" json:"positive_cap"`
	NegativePoints  float64 `yaml:"negative_points" json:"negative_points"`
	NegativeCap     int     `yaml:"negative_cap" json:"negative_cap"`
	HighImpactPoints float64 `yaml:"high_impact_points" json:"high_impact_points"`
	HighImpactCap   int     `yaml:"high_impact_cap" json:"high_impact_cap"`
	VolumePoints    float64 `yaml:"volume_points" json:"volume_points"`
	VolumeCap       int     `yaml:"volume_cap" json:"volume_cap"`
	WindowDays      int     `yaml:"window_days" json:"window_days"`
}

// Enrich bounds the expensive re-scoring stage
type Enrich struct {
	Ceiling       int `yaml:"ceiling" json:"ceiling"`        // hard operator cap on K
	LimitMultiple int `yaml:"limit_multiple" json:"limit_multiple"` // K scales with limit
	Floor         int `yaml:"floor" json:"floor"`            // K never below this
}

// Budget returns K, the number of candidates passed to enrichment
func (e Enrich) Budget(available, limit int) int {
	k := e.LimitMultiple * limit
	if k < e.Floor {
		k = e.Floor
	}
	if k > e.Ceiling {
		k = e.Ceiling
	}
	if k > available {
		k = available
	}
	return k
}

// Growth controls revenue-growth normalization. Providers report growth on
// different scales; a raw figure above the source's threshold is treated as
// a whole-number percentage and divided by 100.
type Growth struct {
	PrimaryDivideAbove  float64 `yaml:"primary_divide_above" json:"primary_divide_above"`
	FallbackDivideAbove float64 `yaml:"fallback_divide_above" json:"fallback_divide_above"`
	ClampMin            float64 `yaml:"clamp_min" json:"clamp_min"`
	ClampMax            float64 `yaml:"clamp_max" json:"clamp_max"`
	MissingDefault      float64 `yaml:"missing_default" json:"missing_default"`
}

// DivideAbove returns the whole-number threshold for a snapshot source
func (g Growth) DivideAbove(source contracts.SnapshotSource) float64 {
	if source == contracts.SourceFallback {
		return g.FallbackDivideAbove
	}
	return g.PrimaryDivideAbove
}

// Target controls the raw target-price extrapolation before guardrailing
type Target struct {
	GrowthWeight      map[contracts.Timeframe]float64 `yaml:"growth_weight" json:"growth_weight"`
	MomentumSwingFrac map[contracts.Timeframe]float64 `yaml:"momentum_swing_frac" json:"momentum_swing_frac"`
}

// Default returns the built-in strategy
func Default() *Config {
	return &Config{
		Weights: map[contracts.Timeframe]Weights{
			contracts.TimeframeShort: {Financial: 15, MarketPosition: 10, Technical: 45, Momentum: 30},
			contracts.TimeframeSwing: {Financial: 35, MarketPosition: 25, Technical: 25, Momentum: 15},
			contracts.TimeframeLong:  {Financial: 45, MarketPosition: 30, Technical: 15, Momentum: 10},
		},
		Guardrail: map[contracts.Timeframe]Guardrail{
			contracts.TimeframeShort: {MinMult: 0.95, MaxMult: 1.10, UpsideCapPct: 8},
			contracts.TimeframeSwing: {MinMult: 0.80, MaxMult: 1.40, UpsideCapPct: 35},
			contracts.TimeframeLong:  {MinMult: 0.50, MaxMult: 1.90, UpsideCapPct: 75},
		},
		Overlay: Overlay{
			PositivePoints:   4,
			PositiveCap:      2,
			NegativePoints:   4,
			NegativeCap:      2,
			HighImpactPoints: 3,
			HighImpactCap:    2,
			VolumePoints:     1.5,
			VolumeCap:        3,
			WindowDays:       7,
		},
		Enrich: Enrich{
			Ceiling:       200,
			LimitMultiple: 5,
			Floor:         30,
		},
		Growth: Growth{
			PrimaryDivideAbove:  1.0,
			FallbackDivideAbove: 5.0,
			ClampMin:            -0.5,
			ClampMax:            2.0,
			MissingDefault:      0.1,
		},
		Target: Target{
			GrowthWeight: map[contracts.Timeframe]float64{
				contracts.TimeframeShort: 0.10,
				contracts.TimeframeSwing: 0.35,
				contracts.TimeframeLong:  1.00,
			},
			MomentumSwingFrac: map[contracts.Timeframe]float64{
				contracts.TimeframeShort: 0.05,
				contracts.TimeframeSwing: 0.10,
				contracts.TimeframeLong:  0.20,
			},
		},
	}
}

// Validate checks internal consistency
func Validate(cfg *Config) error {
	for _, tf := range []contracts.Timeframe{contracts.TimeframeShort, contracts.TimeframeSwing, contracts.TimeframeLong} {
		w, ok := cfg.Weights[tf]
		if !ok {
			return fmt.Errorf("missing weights for timeframe %s", tf)
		}
		if sum := w.Sum(); sum < 99.99 || sum > 100.01 {
			return fmt.Errorf("weights for %s sum to %.2f, want 100", tf, sum)
		}

		g, ok := cfg.Guardrail[tf]
		if !ok {
			return fmt.Errorf("missing guardrail for timeframe %s", tf)
		}
		if g.MinMult <= 0 || g.MaxMult < g.MinMult {
			return fmt.Errorf("guardrail for %s has invalid band [%.2f, %.2f]", tf, g.MinMult, g.MaxMult)
		}
		if g.UpsideCapPct <= 0 {
			return fmt.Errorf("guardrail for %s has non-positive upside cap", tf)
		}
	}

	if cfg.Enrich.Ceiling <= 0 || cfg.Enrich.Floor <= 0 || cfg.Enrich.LimitMultiple <= 0 {
		return fmt.Errorf("enrich budget parameters must be positive")
	}

	if cfg.Growth.ClampMin >= cfg.Growth.ClampMax {
		return fmt.Errorf("growth clamp range is inverted")
	}

	return nil
}
