package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loglenshq/loglens/internal/monitor"
	"github.com/loglenshq/loglens/internal/stats"
)

var (
	statsRollup string
	statsJSON   bool
)

// statsCmd shows aggregated usage stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated usage stats for the last 30 days",
	Long: `Show aggregated usage stats for the last 30 days.

Examples:
  # Global stats across all projects
  loglens stats

  # Stats for one rollup group
  loglens stats --rollup backend

  # Raw JSON output
  loglens stats --json`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsRollup, "rollup", "", "limit stats to a rollup group")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the raw JSON summary")
}

// runStats handles the stats command
func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var summary *stats.Summary
	var err error
	if statsRollup != "" {
		summary, err = apiClient().RollupStats(ctx, statsRollup)
	} else {
		summary, err = apiClient().GlobalStats(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printSummary(summary)
	return nil
}

// printSummary renders a summary in human-readable form.
func printSummary(s *stats.Summary) {
	if s.Rollup != "" {
		fmt.Printf("Rollup:        %s\n", s.Rollup)
	}
	fmt.Printf("Projects:      %d\n", s.TotalProjects)
	fmt.Printf("Commands:      %d\n", s.TotalCommands)
	fmt.Printf("Input tokens:  %s\n", monitor.FormatTokens(s.TotalInputTokens))
	fmt.Printf("Output tokens: %s\n", monitor.FormatTokens(s.TotalOutputTokens))
	fmt.Printf("Cache read:    %s\n", monitor.FormatTokens(s.TotalCacheReadTokens))
	fmt.Printf("Cache write:   %s\n", monitor.FormatTokens(s.TotalCacheWriteTokens))
	fmt.Printf("Cost:          %s\n", monitor.FormatCost(s.TotalCost))
	fmt.Printf("Activity:      %s\n", monitor.FormatDateRange(s.FirstUseDate, s.LastUseDate))
}
