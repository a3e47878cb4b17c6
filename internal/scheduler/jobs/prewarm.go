package jobs

import (
	"context"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/logger"
)

// FundamentalsWarmer refreshes one ticker's cached fundamentals snapshot
type FundamentalsWarmer interface {
	Get(ctx context.Context, ticker string, forceRefresh bool) (*contracts.FundamentalsSnapshot, error)
}

// CoreWarmJob refreshes the fundamentals cache for the core subset ahead of
// the hourly warm scans, so core tickers never hit a cold cache mid-scan.
type CoreWarmJob struct {
	universe contracts.UniverseProvider
	store    FundamentalsWarmer
	logger   *logger.Logger
}

// NewCoreWarmJob creates a new core fundamentals pre-warm job
func NewCoreWarmJob(universe contracts.UniverseProvider, store FundamentalsWarmer, log *logger.Logger) *CoreWarmJob {
	return &CoreWarmJob{
		universe: universe,
		store:    store,
		logger:   log,
	}
}

// Name returns the job name
func (j *CoreWarmJob) Name() string {
	return "core_fundamentals_warm"
}

// Schedule returns the cron schedule (runs ahead of the half-hour warm scans)
func (j *CoreWarmJob) Schedule() string {
	return "5 * * * *"
}

// Run refreshes every core ticker's snapshot. Individual failures are counted
// and logged, not fatal; the scan falls back to neutral scores for them.
func (j *CoreWarmJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	u, err := j.universe.GetUniverse(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, ticker := range u.Core {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.store.Get(ctx, ticker, true); err != nil {
			failed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"core":   len(u.Core),
		"failed": failed,
	}).Info("Core fundamentals pre-warm completed")

	return nil
}
