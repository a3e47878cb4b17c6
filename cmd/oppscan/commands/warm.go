package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oppscan/backend/internal/contracts"
)

// warmCmd represents the warm command
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Run warm scans for all timeframes once",
	Long: `Runs one scan per timeframe to populate the fundamentals cache and,
when the database is enabled, persist fresh snapshots. Intended for cron or
a one-shot container alongside the API server.

Example:
  go run ./cmd/oppscan warm`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	a, err := buildApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	for _, tf := range []contracts.Timeframe{contracts.TimeframeShort, contracts.TimeframeSwing, contracts.TimeframeLong} {
		picks, err := a.pipeline.Run(ctx, tf, a.cfg.Scan.DefaultLimit, false)
		if err != nil {
			return fmt.Errorf("warm scan %s: %w", tf, err)
		}

		if a.repo != nil {
			runID := fmt.Sprintf("warm-%s-%d", tf, time.Now().UnixNano())
			if err := a.repo.Save(ctx, runID, tf, picks); err != nil {
				a.log.WithError(err).WithField("timeframe", tf).Warn("Failed to persist warm scan")
			}
		}

		fmt.Printf("%-5s: %d picks\n", tf, len(picks))
	}

	return nil
}
