package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/realtime"
	"github.com/oppscan/backend/internal/scan"
	"github.com/oppscan/backend/pkg/logger"
)

// Scanner runs one scan for a timeframe
type Scanner interface {
	Run(ctx context.Context, tf contracts.Timeframe, limit int, forceRefresh bool) ([]contracts.CandidatePick, error)
}

// WarmScanJob runs a scheduled scan for one timeframe, persists the result
// and notifies WebSocket subscribers. Warm scans keep the fundamentals cache
// hot so interactive requests stay cheap. repo and hub may be nil.
type WarmScanJob struct {
	scanner   Scanner
	repo      *scan.Repository
	hub       *realtime.Hub
	timeframe contracts.Timeframe
	schedule  string
	limit     int
	logger    *logger.Logger
}

// NewWarmScanJob creates a new warm scan job
func NewWarmScanJob(
	scanner Scanner,
	repo *scan.Repository,
	hub *realtime.Hub,
	tf contracts.Timeframe,
	schedule string,
	limit int,
	log *logger.Logger,
) *WarmScanJob {
	return &WarmScanJob{
		scanner:   scanner,
		repo:      repo,
		hub:       hub,
		timeframe: tf,
		schedule:  schedule,
		limit:     limit,
		logger:    log,
	}
}

// Name returns the job name
func (j *WarmScanJob) Name() string {
	return fmt.Sprintf("warm_scan_%s", j.timeframe)
}

// Schedule returns the cron schedule
func (j *WarmScanJob) Schedule() string {
	return j.schedule
}

// Run executes one warm scan
func (j *WarmScanJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	picks, err := j.scanner.Run(ctx, j.timeframe, j.limit, false)
	if err != nil {
		return fmt.Errorf("warm scan %s: %w", j.timeframe, err)
	}

	if j.repo != nil {
		runID := fmt.Sprintf("warm-%s-%d", j.timeframe, time.Now().UnixNano())
		if err := j.repo.Save(ctx, runID, j.timeframe, picks); err != nil {
			// Persistence failure does not fail the warm, the cache is
			// already populated for interactive requests
			j.logger.WithError(err).WithField("timeframe", j.timeframe).Warn("Failed to persist warm scan")
		}
	}

	if j.hub != nil {
		j.hub.BroadcastScanComplete(j.timeframe, len(picks))
	}

	j.logger.WithFields(map[string]interface{}{
		"timeframe": j.timeframe,
		"picks":     len(picks),
	}).Info("Warm scan completed")

	return nil
}
