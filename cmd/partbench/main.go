package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/optiview/partbench/cmd/partbench/commands"
	"github.com/optiview/partbench/config"
	"github.com/optiview/partbench/logger"
)

var rootCmd = &cobra.Command{
	Use:   "partbench",
	Short: "partbench - working-set analytics for machined part catalogs",
	Long: `partbench - working-set analytics for machined part catalogs.

partbench loads a part catalog, selects a working set, and computes
descriptive statistics, box plots, outlier detection, selection-bias
heuristics, inspection-zone aggregates, and the bounding envelope.

Available commands:
  analyze - Run the full analytics suite over a working set
  watch   - Recompute analytics whenever a catalog file changes
  serve   - Start the websocket analytics server
  version - Show version information

Examples:
  partbench analyze --catalog parts.json            # Full report
  partbench analyze --catalog parts.json --json     # Machine-readable
  partbench analyze --catalog parts.yaml --select A-100,B-205
  partbench watch --catalog parts.json              # Live recompute
  partbench serve --port 8741                       # Websocket endpoint`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLog := false
		if cfg, err := config.Load(); err == nil {
			jsonLog = cfg.Log.JSON
		}
		// Machine-readable result output keeps stderr logs structured too
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			jsonLog = true
		}
		if err := logger.Initialize(jsonLog); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.AnalyzeCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Cleanup()
		os.Exit(1)
	}
}
