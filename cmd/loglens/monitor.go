package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/loglenshq/loglens/internal/monitor"
)

var monitorInterval time.Duration

// monitorCmd runs the live terminal dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live terminal dashboard of usage stats",
	Long: `Run a live terminal dashboard that polls the loglens daemon for
aggregated usage stats.

Examples:
  # Monitor with the default 5s refresh
  loglens monitor

  # Slower refresh
  loglens monitor --interval 30s`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 5*time.Second, "refresh interval")
}

// runMonitor handles the monitor command
func runMonitor(cmd *cobra.Command, args []string) error {
	fetcher := monitor.NewClientFetcher(apiClient())
	model := monitor.NewModel(fetcher, serverURL, monitorInterval)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	return nil
}
