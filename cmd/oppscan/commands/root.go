package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oppscan",
	Short: "Multi-stage stock opportunity scanner",
	Long: `oppscan ranks a ticker universe through a coarse-to-fine scoring
funnel and emits the top candidate picks per trading timeframe.

Usage:
  go run ./cmd/oppscan [command]

Examples:
  go run ./cmd/oppscan api
  go run ./cmd/oppscan scan --timeframe swing --limit 10
  go run ./cmd/oppscan warm`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
