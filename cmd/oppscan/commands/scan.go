package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oppscan/backend/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and print the picks",
	Long: `Runs the full coarse-to-fine scan for one timeframe and prints
the ranked picks.

Example:
  go run ./cmd/oppscan scan --timeframe swing --limit 10
  go run ./cmd/oppscan scan -t short -n 5 --json`,
	RunE: runScan,
}

var (
	scanTimeframe string
	scanLimit     int
	scanRefresh   bool
	scanJSON      bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanTimeframe, "timeframe", "t", "swing", "timeframe (short|swing|long)")
	scanCmd.Flags().IntVarP(&scanLimit, "limit", "n", 0, "number of picks (default from config)")
	scanCmd.Flags().BoolVar(&scanRefresh, "refresh", false, "bypass cached fundamentals")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit JSON instead of a table")
}

func runScan(cmd *cobra.Command, args []string) error {
	tf, err := contracts.ParseTimeframe(scanTimeframe)
	if err != nil {
		return err
	}

	a, err := buildApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	picks, err := a.pipeline.Run(ctx, tf, scanLimit, scanRefresh)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(picks)
	}

	printPicks(tf, picks)
	return nil
}

// printPicks renders a scan result as a table
func printPicks(tf contracts.Timeframe, picks []contracts.CandidatePick) {
	if len(picks) == 0 {
		fmt.Printf("No picks for %s timeframe (no scorable data)\n", tf)
		return
	}

	fmt.Printf("Top %d picks, %s timeframe\n\n", len(picks), tf)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tTICKER\tSCORE\tPRICE\tTARGET\tRETURN\tRISK\tSIGNALS")
	for _, p := range picks {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%.2f\t%.2f\t%+.1f%%\t%s\t%s\n",
			p.Rank, p.Ticker, p.Score, p.CurrentPrice, p.TargetPrice,
			p.PotentialReturn, p.RiskLevel, strings.Join(p.Signals, ","))
	}
	w.Flush()
}
