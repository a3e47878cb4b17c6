package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/realtime"
	"github.com/oppscan/backend/internal/scan"
	"github.com/oppscan/backend/internal/strategy"
	"github.com/oppscan/backend/pkg/logger"
)

// maxPicksLimit bounds the limit query parameter
const maxPicksLimit = 50

// snapshotMaxAge is how stale a persisted scan may be before GetPicks
// re-runs the pipeline instead of serving it
const snapshotMaxAge = 2 * time.Hour

// Scanner runs one scan for a timeframe
type Scanner interface {
	Run(ctx context.Context, tf contracts.Timeframe, limit int, forceRefresh bool) ([]contracts.CandidatePick, error)
}

// PicksHandler serves ranked candidate picks. Fresh persisted snapshots are
// preferred; a live scan runs when none exists. repo and hub may be nil when
// the database or WebSocket layer is disabled.
type PicksHandler struct {
	scanner  Scanner
	repo     *scan.Repository
	hub      *realtime.Hub
	strategy *strategy.Config
	defLimit int
	logger   *logger.Logger
}

// NewPicksHandler creates a new picks handler
func NewPicksHandler(
	scanner Scanner,
	repo *scan.Repository,
	hub *realtime.Hub,
	strategyCfg *strategy.Config,
	defaultLimit int,
	log *logger.Logger,
) *PicksHandler {
	return &PicksHandler{
		scanner:  scanner,
		repo:     repo,
		hub:      hub,
		strategy: strategyCfg,
		defLimit: defaultLimit,
		logger:   log,
	}
}

// GetPicks returns the ranked picks for a timeframe
// GET /api/v1/picks/{timeframe}?limit=10&refresh=false
func (h *PicksHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tf, err := contracts.ParseTimeframe(mux.Vars(r)["timeframe"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), h.defLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"

	if !refresh {
		if snap := h.freshSnapshot(ctx, tf); snap != nil {
			picks := snap.Picks
			if len(picks) > limit {
				picks = scan.Rank(picks, limit)
			}
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"timeframe": tf,
					"count":     len(picks),
					"picks":     picks,
					"asOf":      snap.CreatedAt.Format(time.RFC3339),
					"cached":    true,
				},
			})
			return
		}
	}

	picks, err := h.scanner.Run(ctx, tf, limit, refresh)
	if err != nil {
		h.logger.WithError(err).WithField("timeframe", tf).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"timeframe": tf,
			"count":     len(picks),
			"picks":     picks,
			"asOf":      time.Now().UTC().Format(time.RFC3339),
			"cached":    false,
		},
	})
}

// TriggerScan runs a scan now, persists it and notifies subscribers
// POST /api/v1/scan/{timeframe}?limit=10&refresh=true
func (h *PicksHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tf, err := contracts.ParseTimeframe(mux.Vars(r)["timeframe"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), h.defLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	refresh := r.URL.Query().Get("refresh") != "false"

	picks, err := h.scanner.Run(ctx, tf, limit, refresh)
	if err != nil {
		h.logger.WithError(err).WithField("timeframe", tf).Error("Triggered scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	runID := fmt.Sprintf("manual-%s-%d", tf, time.Now().UnixNano())
	if h.repo != nil {
		if err := h.repo.Save(ctx, runID, tf, picks); err != nil {
			h.logger.WithError(err).Warn("Failed to persist triggered scan")
		}
	}
	if h.hub != nil {
		h.hub.BroadcastScanComplete(tf, len(picks))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"runId":     runID,
			"timeframe": tf,
			"count":     len(picks),
			"picks":     picks,
		},
	})
}

// GetStrategy returns the active scoring strategy
// GET /api/v1/strategy
func (h *PicksHandler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.strategy,
	})
}

// freshSnapshot returns the latest persisted scan if it is recent enough
func (h *PicksHandler) freshSnapshot(ctx context.Context, tf contracts.Timeframe) *scan.Snapshot {
	if h.repo == nil {
		return nil
	}

	snap, err := h.repo.Latest(ctx, tf)
	if errors.Is(err, scan.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		h.logger.WithError(err).WithField("timeframe", tf).Warn("Snapshot lookup failed, running live scan")
		return nil
	}
	if time.Since(snap.CreatedAt) > snapshotMaxAge {
		return nil
	}
	return snap
}

func parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if limit > maxPicksLimit {
		limit = maxPicksLimit
	}
	return limit, nil
}
