package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/pkg/database"
	"github.com/oppscan/backend/pkg/logger"
)

// ErrNoSnapshot is returned when no persisted scan exists for a timeframe
var ErrNoSnapshot = errors.New("no scan snapshot")

// Repository persists completed scans so the API can serve the most recent
// result without re-running the pipeline. Snapshots are append-only; the
// latest row per timeframe is authoritative.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new scan snapshot repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// Snapshot is one persisted scan result
type Snapshot struct {
	RunID     string
	Timeframe contracts.Timeframe
	Picks     []contracts.CandidatePick
	CreatedAt time.Time
}

// Save persists one completed scan
func (r *Repository) Save(ctx context.Context, runID string, tf contracts.Timeframe, picks []contracts.CandidatePick) error {
	payload, err := json.Marshal(picks)
	if err != nil {
		return fmt.Errorf("marshaling picks: %w", err)
	}

	const query = `
		INSERT INTO scan_snapshots (run_id, timeframe, picks, pick_count)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Pool.Exec(ctx, query, runID, string(tf), payload, len(picks)); err != nil {
		return fmt.Errorf("inserting scan snapshot: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"timeframe": tf,
		"picks":     len(picks),
	}).Info("Persisted scan snapshot")

	return nil
}

// Latest returns the most recent snapshot for a timeframe
func (r *Repository) Latest(ctx context.Context, tf contracts.Timeframe) (*Snapshot, error) {
	const query = `
		SELECT run_id, picks, created_at
		FROM scan_snapshots
		WHERE timeframe = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		runID     string
		payload   []byte
		createdAt time.Time
	)

	err := r.db.Pool.QueryRow(ctx, query, string(tf)).Scan(&runID, &payload, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}

	var picks []contracts.CandidatePick
	if err := json.Unmarshal(payload, &picks); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot picks: %w", err)
	}

	return &Snapshot{
		RunID:     runID,
		Timeframe: tf,
		Picks:     picks,
		CreatedAt: createdAt,
	}, nil
}

// Prune deletes snapshots older than the retention window, keeping at
// least the newest row per timeframe
func (r *Repository) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	const query = `
		DELETE FROM scan_snapshots
		WHERE created_at < $1
		  AND id NOT IN (
			SELECT DISTINCT ON (timeframe) id
			FROM scan_snapshots
			ORDER BY timeframe, created_at DESC
		  )
	`

	tag, err := r.db.Pool.Exec(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
