package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oppscan/backend/internal/api"
	"github.com/oppscan/backend/internal/api/handlers"
	"github.com/oppscan/backend/internal/contracts"
	"github.com/oppscan/backend/internal/scheduler"
	"github.com/oppscan/backend/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the scanner API server",
	Long: `Starts the HTTP API server with scheduled warm scans.

Endpoints:
  GET  /health                      - Health check
  GET  /metrics                     - Prometheus metrics
  GET  /api/v1/picks/{timeframe}    - Ranked picks (short|swing|long)
  POST /api/v1/scan/{timeframe}     - Trigger a scan now
  GET  /api/v1/strategy             - Active scoring strategy
  GET  /ws                          - Scan completion notifications

Example:
  go run ./cmd/oppscan api
  go run ./cmd/oppscan api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// Scheduled warm scans keep caches and snapshots fresh
	sched := scheduler.New(log)
	for _, tf := range []contracts.Timeframe{contracts.TimeframeShort, contracts.TimeframeSwing, contracts.TimeframeLong} {
		job := jobs.NewWarmScanJob(a.pipeline, a.repo, a.hub, tf, a.cfg.Scan.WarmSchedule, a.cfg.Scan.DefaultLimit, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule warm scan: %w", err)
		}
	}
	if err := sched.AddJob(jobs.NewCoreWarmJob(a.universe, a.fundamentals, log)); err != nil {
		return fmt.Errorf("schedule core pre-warm: %w", err)
	}
	if a.repo != nil {
		if err := sched.AddJob(jobs.NewSnapshotPruneJob(a.repo, log)); err != nil {
			return fmt.Errorf("schedule snapshot prune: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	picksHandler := handlers.NewPicksHandler(a.pipeline, a.repo, a.hub, a.strategy, a.cfg.Scan.DefaultLimit, log)
	router := api.NewRouter(picksHandler, a.hub, a.cfg.MetricsEnabled, log)
	server := api.New(a.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
