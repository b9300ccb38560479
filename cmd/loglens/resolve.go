package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/dashboard"
)

// resolveCmd resolves a dashboard path against the daemon
var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a dashboard path into its project or rollup context",
	Long: `Resolve a dashboard path into its project or rollup context.

A /project/<dir> path is activated on the daemon and the canonical
project name is printed. A /rollup/<name> path resolves locally. Any
other path is reported as unrecognized.

Examples:
  # Resolve a project path
  loglens resolve /project/-Users-chip-dev-teamA-service

  # Resolve a rollup path
  loglens resolve /rollup/backend`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

// terminalHeader prints the context header line to a writer.
type terminalHeader struct {
	out io.Writer
}

func (h *terminalHeader) SetText(text string) {
	fmt.Fprintln(h.out, text)
}

// terminalErrorView prints presenter errors to a writer.
type terminalErrorView struct {
	out io.Writer
}

func (v *terminalErrorView) ShowError(message string) {
	fmt.Fprintln(v.out, "Error:", message)
}

// runResolve handles the resolve command
func runResolve(cmd *cobra.Command, args []string) error {
	path := args[0]

	if _, ok := dashboard.Classify(path); !ok {
		fmt.Printf("No project or rollup context for %s\n", path)
		return nil
	}

	slot := dashboard.NewContextSlot()
	sync := dashboard.NewSynchronizer(
		apiClient(),
		slot,
		&terminalHeader{out: os.Stdout},
		&terminalErrorView{out: os.Stderr},
		zap.NewNop(),
	)

	if !sync.Sync(context.Background(), path) {
		// The error view has already reported the failure.
		return fmt.Errorf("could not resolve %s", path)
	}

	active := slot.Current()
	switch active.Kind {
	case dashboard.KindProject:
		fmt.Printf("Active project: %s\n", active.DirName)
	case dashboard.KindRollup:
		fmt.Printf("Active rollup: %s\n", active.Name)
	}
	return nil
}
