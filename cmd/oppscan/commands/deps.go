package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/oppscan/backend/internal/external/finviz"
	"github.com/oppscan/backend/internal/external/marketdata"
	"github.com/oppscan/backend/internal/external/newswire"
	"github.com/oppscan/backend/internal/fundamentals"
	"github.com/oppscan/backend/internal/realtime"
	"github.com/oppscan/backend/internal/scan"
	"github.com/oppscan/backend/internal/scoring"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/internal/universe"
	"github.com/oppscan/backend/pkg/config"
	"github.com/oppscan/backend/pkg/database"
	"github.com/oppscan/backend/pkg/httputil"
	"github.com/oppscan/backend/pkg/logger"
	"github.com/oppscan/backend/pkg/redis"
)

// browserUserAgent is sent to the scraped fallback provider
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// app bundles the wired dependencies shared by all commands
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	strategy     *strategy.Config
	pipeline     *scan.Pipeline
	universe     *universe.StaticProvider
	fundamentals *fundamentals.Store

	redisClient *redis.Client
	db          *database.DB
	repo        *scan.Repository
	hub         *realtime.Hub
}

// buildApp wires the full scan pipeline from configuration. withHub also
// creates the WebSocket notification hub for long-running server commands.
func buildApp(withHub bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	strategyCfg, err := strategy.LoadOrDefault(cfg.Scan.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	if err := strategy.Validate(strategyCfg); err != nil {
		return nil, fmt.Errorf("validate strategy: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(redisClient, "oppscan")
	limiter := redis.NewRateLimiter(redisClient, "oppscan")

	marketHTTP := httputil.New(log, cfg.MarketData.Timeout).
		WithRetry(3, 500*time.Millisecond).
		WithRateLimiter(limiter, redis.MarketDataRateLimit)
	fallbackHTTP := httputil.New(log, cfg.Fallback.Timeout).
		WithRetry(2, 1*time.Second).
		WithRateLimiter(limiter, redis.FallbackRateLimit).
		WithUserAgent(browserUserAgent)
	newsHTTP := httputil.New(log, 10*time.Second).
		WithRateLimiter(limiter, redis.NewsRateLimit)

	marketClient := marketdata.NewClient(marketHTTP, log, cfg.MarketData.BaseURL)
	finvizClient := finviz.NewClient(fallbackHTTP, log, cfg.Fallback.BaseURL)
	newsClient := newswire.NewClient(newsHTTP, log, cfg.News.BaseURL, cfg.News.APIKey)
	newsProvider := newswire.NewCachedProvider(newsClient, cache, log)

	store := fundamentals.NewStore(cache, marketClient, finvizClient, cfg.Scan.FundamentalsTTL, log)

	overlayParams := strategyCfg.Overlay
	if cfg.News.WindowDays > 0 {
		overlayParams.WindowDays = cfg.News.WindowDays
	}
	overlay := scan.NewOverlayAdjuster(newsProvider, overlayParams, log)

	universeProvider := universe.NewStaticProvider()

	pipeline := scan.NewPipeline(
		universeProvider,
		universe.NewSampler(log),
		marketClient,
		store,
		overlay,
		scoring.NewTechnicalCalculator(log),
		scoring.NewMomentumCalculator(log),
		scoring.NewFinancialCalculator(strategyCfg.Growth, log),
		scoring.NewMarketPositionCalculator(log),
		scoring.NewTargetEstimator(strategyCfg, log),
		strategyCfg,
		cfg.Scan.UniverseCap,
		cfg.Scan.DefaultLimit,
		log,
	)

	a := &app{
		cfg:          cfg,
		log:          log,
		strategy:     strategyCfg,
		pipeline:     pipeline,
		universe:     universeProvider,
		fundamentals: store,
		redisClient:  redisClient,
	}

	if cfg.Database.Enabled {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
		a.repo = scan.NewRepository(db, log)
	}

	if withHub {
		a.hub = realtime.NewHub(log)
	}

	return a, nil
}

// close releases held connections
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
}
