// Package main implements the loglens CLI for manual operations against the loglens daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loglenshq/loglens/internal/client"
)

var (
	// serverURL is the base URL for the loglens daemon
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "loglens",
	Short: "CLI for the loglens dashboard daemon",
	Long: `loglens is a command-line interface for the loglens dashboard daemon.
It provides commands for resolving dashboard paths, inspecting projects
and usage stats, and managing rollup groups.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8081", "loglens daemon URL")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(rollupCmd)
}

// apiClient creates a client for the configured daemon.
func apiClient() *client.Client {
	return client.New(serverURL)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("loglens %s\n", version)
	},
}

// healthCmd checks daemon health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check loglens daemon health",
	Long: `Check the health status of the loglens daemon.

Examples:
  # Check health
  loglens health

  # Check health on a different server
  loglens health --server http://127.0.0.1:9090`,
	RunE: runHealth,
}

// projectsCmd lists discovered projects
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects discovered under the Claude logs root",
	RunE:  runProjects,
}

// shareCmd creates a shareable dashboard link
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create a shareable link for the active project's dashboard",
	RunE:  runShare,
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	resp, err := apiClient().Health(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", serverURL, err)
		return err
	}

	fmt.Printf("Server Status: %s\n", resp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)
	return nil
}

// runProjects handles the projects command
func runProjects(cmd *cobra.Command, args []string) error {
	projects, err := apiClient().Projects(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tDIR\tSIZE (MB)\tLAST MODIFIED\tCACHED")
	for _, p := range projects {
		cached := ""
		if p.InCache {
			cached = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n",
			p.DisplayName, p.DirName, p.SizeMB, p.LastModified, cached)
	}
	return w.Flush()
}

// runShare handles the share command
func runShare(cmd *cobra.Command, args []string) error {
	resp, err := apiClient().CreateShare(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}

	fmt.Printf("Share ID:  %s\n", resp.ID)
	fmt.Printf("Share URL: %s\n", resp.URL)
	return nil
}
