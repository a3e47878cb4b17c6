package scan

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/metrics"
	"github.com/oppscan/backend/internal/scoring"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/internal/universe"
	"github.com/oppscan/backend/pkg/logger"
)

// FundamentalsGetter is the enrichment-stage snapshot source
type FundamentalsGetter interface {
	Get(ctx context.Context, ticker string, forceRefresh bool) (*contracts.FundamentalsSnapshot, error)
}

// perCategoryLogCap bounds repetitive per-ticker failure logging in one run
const perCategoryLogCap = 3

// Pipeline is the coarse-to-fine scan over the ticker universe. One Run
// samples the universe, scores every sampled ticker from price history
// alone, then spends the expensive fundamentals and news calls only on the
// top K candidates before ranking.
type Pipeline struct {
	universe     contracts.UniverseProvider
	sampler      *universe.Sampler
	history      contracts.HistoryProvider
	fundamentals FundamentalsGetter
	overlay      *OverlayAdjuster
	technical    *scoring.TechnicalCalculator
	momentum     *scoring.MomentumCalculator
	financial    *scoring.FinancialCalculator
	marketPos    *scoring.MarketPositionCalculator
	target       *scoring.TargetEstimator
	strategy     *strategy.Config
	universeCap  int
	defaultLimit int
	logger       *logger.Logger
}

// NewPipeline creates a new scan pipeline
func NewPipeline(
	universeProvider contracts.UniverseProvider,
	sampler *universe.Sampler,
	history contracts.HistoryProvider,
	fundamentals FundamentalsGetter,
	overlay *OverlayAdjuster,
	technical *scoring.TechnicalCalculator,
	momentum *scoring.MomentumCalculator,
	financial *scoring.FinancialCalculator,
	marketPos *scoring.MarketPositionCalculator,
	target *scoring.TargetEstimator,
	strategyCfg *strategy.Config,
	universeCap int,
	defaultLimit int,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		universe:     universeProvider,
		sampler:      sampler,
		history:      history,
		fundamentals: fundamentals,
		overlay:      overlay,
		technical:    technical,
		momentum:     momentum,
		financial:    financial,
		marketPos:    marketPos,
		target:       target,
		strategy:     strategyCfg,
		universeCap:  universeCap,
		defaultLimit: defaultLimit,
		logger:       log,
	}
}

// candidate is the pipeline's working record for one ticker
type candidate struct {
	ticker    string
	series    contracts.HistoricalSeries
	breakdown contracts.ScoreBreakdown
	score     float64
	techDet   scoring.TechnicalDetail
	momDet    scoring.MomentumDetail
	momScore  float64
	snapshot  *contracts.FundamentalsSnapshot
	newsTags  []string
}

// Run executes one scan. limit <= 0 falls back to the configured default.
// Total data unavailability yields an empty result, not an error; callers
// treat an empty scan as "no picks right now".
func (p *Pipeline) Run(ctx context.Context, tf contracts.Timeframe, limit int, forceRefresh bool) ([]contracts.CandidatePick, error) {
	start := time.Now()
	if limit <= 0 {
		limit = p.defaultLimit
	}

	p.logger.WithFields(map[string]interface{}{
		"timeframe": tf,
		"limit":     limit,
		"force":     forceRefresh,
	}).Info("Starting scan")

	u, err := p.universe.GetUniverse(ctx)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(string(tf), "error").Inc()
		return nil, fmt.Errorf("loading universe: %w", err)
	}

	sampled := p.sampler.Sample(u, p.universeCap, time.Now())
	lb := tf.Lookback()

	histories, err := p.history.GetBatchHistory(ctx, sampled.Tickers, lb.HistoryPeriod)
	if err != nil {
		// The whole bulk fetch failing means no ticker is scorable.
		// Emit an empty scan rather than an error so schedulers and API
		// callers degrade instead of alerting on transient upstream loss.
		metrics.ProviderErrors.WithLabelValues("history").Inc()
		metrics.ScansTotal.WithLabelValues(string(tf), "empty").Inc()
		p.logger.WithError(err).WithField("timeframe", tf).Error("Bulk history fetch failed, emitting empty scan")
		return []contracts.CandidatePick{}, nil
	}

	candidates := p.coarseStage(sampled, histories, tf, lb)
	if len(candidates) == 0 {
		metrics.ScansTotal.WithLabelValues(string(tf), "empty").Inc()
		p.logger.WithField("timeframe", tf).Warn("No scorable tickers in sample, emitting empty scan")
		return []contracts.CandidatePick{}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	k := p.strategy.Enrich.Budget(len(candidates), limit)
	top := candidates[:k]

	picks := p.enrichStage(ctx, top, tf, forceRefresh)
	picks = Rank(picks, limit)

	elapsed := time.Since(start)
	metrics.ScansTotal.WithLabelValues(string(tf), "ok").Inc()
	metrics.ScanDuration.WithLabelValues(string(tf)).Observe(elapsed.Seconds())

	p.logger.WithFields(map[string]interface{}{
		"timeframe": tf,
		"sampled":   len(sampled.Tickers),
		"scored":    len(candidates),
		"enriched":  k,
		"picks":     len(picks),
		"elapsed":   elapsed.String(),
	}).Info("Scan complete")

	return picks, nil
}

// coarseStage scores every sampled ticker from price history alone, with
// neutral half-max defaults standing in for the fundamentals sub-scores
func (p *Pipeline) coarseStage(sampled *contracts.Universe, histories map[string]contracts.HistoricalSeries, tf contracts.Timeframe, lb contracts.LookbackParams) []*candidate {
	weights := p.strategy.Weights[tf]
	candidates := make([]*candidate, 0, len(sampled.Tickers))
	skipped := 0

	for _, ticker := range sampled.Tickers {
		series, ok := histories[ticker]
		if !ok || len(series) < lb.MinBars {
			skipped++
			if skipped <= perCategoryLogCap {
				p.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
					"bars":   len(series),
					"min":    lb.MinBars,
				}).Debug("Skipping ticker with insufficient history")
			}
			continue
		}

		techScore, techDet := p.technical.Calculate(ticker, series, lb)
		momScore, momDet := p.momentum.Calculate(ticker, series, lb)

		breakdown := contracts.ScoreBreakdown{
			Financial:      contracts.MaxFinancialScore / 2,
			MarketPosition: contracts.MaxMarketPositionScore / 2,
			Technical:      techScore,
			Momentum:       momScore,
		}

		candidates = append(candidates, &candidate{
			ticker:    ticker,
			series:    series,
			breakdown: breakdown,
			score:     scoring.Compose(breakdown, weights),
			techDet:   techDet,
			momDet:    momDet,
			momScore:  momScore,
		})
	}

	metrics.TickersScored.WithLabelValues("coarse").Add(float64(len(candidates)))
	if skipped > 0 {
		p.logger.WithFields(map[string]interface{}{
			"timeframe": tf,
			"skipped":   skipped,
		}).Debug("Skipped tickers with missing or short history")
	}

	return candidates
}

// enrichStage spends the per-ticker fundamentals and news calls on the
// selected candidates and assembles the final picks
func (p *Pipeline) enrichStage(ctx context.Context, top []*candidate, tf contracts.Timeframe, forceRefresh bool) []contracts.CandidatePick {
	weights := p.strategy.Weights[tf]
	picks := make([]contracts.CandidatePick, 0, len(top))
	fetchFailures := 0

	for _, c := range top {
		snapshot, err := p.fundamentals.Get(ctx, c.ticker, forceRefresh)
		if err != nil {
			// Failed enrichment keeps the candidate on neutral
			// fundamentals sub-scores instead of dropping it
			fetchFailures++
			if fetchFailures <= perCategoryLogCap {
				p.logger.WithError(err).WithField("ticker", c.ticker).Warn("Fundamentals unavailable, scoring with neutral defaults")
			}
			snapshot = nil
		}
		c.snapshot = snapshot

		c.breakdown = contracts.ScoreBreakdown{
			Financial:      p.financial.Calculate(snapshot),
			MarketPosition: p.marketPos.Calculate(snapshot),
			Technical:      c.breakdown.Technical,
			Momentum:       c.breakdown.Momentum,
		}
		c.score = scoring.Compose(c.breakdown, weights)

		c.score, c.newsTags = p.overlay.Adjust(ctx, c.ticker, c.score)

		picks = append(picks, p.buildPick(c, tf))
	}

	metrics.TickersScored.WithLabelValues("enriched").Add(float64(len(top)))
	if fetchFailures > perCategoryLogCap {
		p.logger.WithFields(map[string]interface{}{
			"timeframe": tf,
			"failures":  fetchFailures,
		}).Warn("Fundamentals fetch failures during enrichment")
	}

	return picks
}

// buildPick assembles the emitted value for one enriched candidate
func (p *Pipeline) buildPick(c *candidate, tf contracts.Timeframe) contracts.CandidatePick {
	price := c.series.LastClose()
	if price <= 0 && c.snapshot != nil {
		price = c.snapshot.CurrentPrice
	}

	growth := p.financial.NormalizedGrowth(c.snapshot)
	targetPrice, potential := p.target.Estimate(tf, price, growth, c.momScore, c.snapshot)

	return contracts.CandidatePick{
		Ticker:          c.ticker,
		Score:           c.score,
		CurrentPrice:    price,
		TargetPrice:     targetPrice,
		PotentialReturn: potential,
		Confidence:      contracts.ConfidenceFor(c.score),
		TimeHorizon:     tf,
		Reasoning:       reasoning(c, tf, potential),
		Signals:         signals(c),
		RiskLevel:       riskLevel(c.snapshot),
		Breakdown:       c.breakdown,
	}
}

// signals derives the human-scannable tags for a pick
func signals(c *candidate) []string {
	var tags []string
	if c.techDet.AboveFastMA {
		tags = append(tags, "above-fast-ma")
	}
	if c.techDet.AboveSlowMA {
		tags = append(tags, "above-slow-ma")
	}
	if c.techDet.RSI >= 40 && c.techDet.RSI <= 60 {
		tags = append(tags, "rsi-neutral")
	}
	if c.techDet.VolumeRatio > 1.2 {
		tags = append(tags, "volume-surge")
	}
	if c.momScore >= 8 {
		tags = append(tags, "strong-momentum")
	}
	if c.snapshot != nil && c.snapshot.Source == contracts.SourceFallback {
		tags = append(tags, "fallback-fundamentals")
	}
	tags = append(tags, c.newsTags...)
	return tags
}

// reasoning builds the one-line explanation attached to a pick
func reasoning(c *candidate, tf contracts.Timeframe, potential float64) string {
	parts := []string{
		fmt.Sprintf("technical %.0f/%.0f", c.breakdown.Technical, contracts.MaxTechnicalScore),
		fmt.Sprintf("momentum %.0f/%.0f", c.breakdown.Momentum, contracts.MaxMomentumScore),
	}
	if c.snapshot != nil {
		parts = append(parts,
			fmt.Sprintf("financial %.0f/%.0f", c.breakdown.Financial, contracts.MaxFinancialScore),
			fmt.Sprintf("market position %.0f/%.0f", c.breakdown.MarketPosition, contracts.MaxMarketPositionScore),
		)
	} else {
		parts = append(parts, "fundamentals unavailable, neutral defaults")
	}

	return fmt.Sprintf("%s horizon: %s; est. move %+.1f%%", tf, strings.Join(parts, ", "), potential)
}

// riskLevel tiers a pick by beta and market cap. No snapshot means no basis
// to call it either way.
func riskLevel(snapshot *contracts.FundamentalsSnapshot) string {
	if snapshot == nil {
		return contracts.RiskMedium
	}

	if snapshot.Beta > 1.5 || (snapshot.MarketCap > 0 && snapshot.MarketCap < contracts.SmallCap) {
		return contracts.RiskHigh
	}
	if snapshot.Beta >= 0.8 && snapshot.Beta <= 1.2 && snapshot.MarketCap >= contracts.LargeCap {
		return contracts.RiskLow
	}
	return contracts.RiskMedium
}
