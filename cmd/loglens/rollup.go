package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loglenshq/loglens/internal/config"
	"github.com/loglenshq/loglens/internal/monitor"
)

// rollupCmd manages rollup groups
var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Manage rollup groups of related projects",
	Long: `Manage rollup groups. A rollup maps a name to a parent directory;
every project whose original path lives under that directory is
aggregated into the rollup's stats.

Examples:
  # Group everything under ~/dev/teamA
  loglens rollup add backend ~/dev/teamA

  # List configured rollups
  loglens rollup list

  # Show a rollup's aggregated stats
  loglens rollup show backend

  # Remove a rollup
  loglens rollup remove backend`,
}

var rollupAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Add a rollup group",
	Args:  cobra.ExactArgs(2),
	RunE:  runRollupAdd,
}

var rollupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured rollup groups",
	RunE:  runRollupList,
}

var rollupRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a rollup group",
	Args:  cobra.ExactArgs(1),
	RunE:  runRollupRemove,
}

var rollupShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a rollup's aggregated stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runRollupShow,
}

func init() {
	rollupCmd.AddCommand(rollupAddCmd)
	rollupCmd.AddCommand(rollupListCmd)
	rollupCmd.AddCommand(rollupRemoveCmd)
	rollupCmd.AddCommand(rollupShowCmd)
}

func rollupStore() (*config.Store, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return config.NewStore("")
}

// runRollupAdd handles the rollup add command
func runRollupAdd(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	store, err := rollupStore()
	if err != nil {
		return err
	}

	if err := store.AddRollup(name, path); err != nil {
		return fmt.Errorf("failed to add rollup %q: %w", name, err)
	}

	fmt.Printf("Added rollup %q for %s\n", name, path)
	fmt.Println("Restart loglensd for the change to take effect.")
	return nil
}

// runRollupList handles the rollup list command
func runRollupList(cmd *cobra.Command, args []string) error {
	store, err := rollupStore()
	if err != nil {
		return err
	}

	rollups, err := store.Rollups()
	if err != nil {
		return fmt.Errorf("failed to read rollups: %w", err)
	}

	if len(rollups) == 0 {
		fmt.Println("No rollups configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH")
	for _, name := range sortedKeys(rollups) {
		fmt.Fprintf(w, "%s\t%s\n", name, rollups[name])
	}
	return w.Flush()
}

// runRollupRemove handles the rollup remove command
func runRollupRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := rollupStore()
	if err != nil {
		return err
	}

	if err := store.RemoveRollup(name); err != nil {
		return fmt.Errorf("failed to remove rollup %q: %w", name, err)
	}

	fmt.Printf("Removed rollup %q\n", name)
	return nil
}

// runRollupShow handles the rollup show command
func runRollupShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	summary, err := apiClient().RollupStats(context.Background(), name)
	if err != nil {
		return fmt.Errorf("failed to fetch rollup stats: %w", err)
	}

	fmt.Printf("Rollup:        %s\n", name)
	fmt.Printf("Projects:      %d\n", summary.TotalProjects)
	fmt.Printf("Input tokens:  %s\n", monitor.FormatTokens(summary.TotalInputTokens))
	fmt.Printf("Output tokens: %s\n", monitor.FormatTokens(summary.TotalOutputTokens))
	fmt.Printf("Cost:          %s\n", monitor.FormatCost(summary.TotalCost))
	fmt.Printf("Activity:      %s\n", monitor.FormatDateRange(summary.FirstUseDate, summary.LastUseDate))
	return nil
}
