package jobs

import (
	"context"
	"time"

	"github.com/oppscan/backend/internal/scan"
	"github.com/oppscan/backend/pkg/logger"
)

// snapshotRetention is how long old scan snapshots are kept
const snapshotRetention = 14 * 24 * time.Hour

// SnapshotPruneJob deletes old scan snapshots, keeping the newest row per
// timeframe regardless of age
type SnapshotPruneJob struct {
	repo   *scan.Repository
	logger *logger.Logger
}

// NewSnapshotPruneJob creates a new snapshot prune job
func NewSnapshotPruneJob(repo *scan.Repository, log *logger.Logger) *SnapshotPruneJob {
	return &SnapshotPruneJob{
		repo:   repo,
		logger: log,
	}
}

// Name returns the job name
func (j *SnapshotPruneJob) Name() string {
	return "snapshot_prune"
}

// Schedule returns the cron schedule (daily, off-hours UTC)
func (j *SnapshotPruneJob) Schedule() string {
	return "0 3 * * *"
}

// Run executes the prune
func (j *SnapshotPruneJob) Run(ctx context.Context) error {
	deleted, err := j.repo.Prune(ctx, snapshotRetention)
	if err != nil {
		return err
	}

	if deleted > 0 {
		j.logger.WithField("deleted", deleted).Info("Pruned old scan snapshots")
	}

	return nil
}
