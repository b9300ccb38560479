// Loglensd is the local dashboard daemon for Claude Code usage logs.
//
// This binary starts the loglens HTTP server with full service
// initialization, including the project scanner, the stats cache, and
// the log directory watcher.
//
// Configuration is loaded from LOGLENS_ environment variables and
// ~/.loglens/config.yaml. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	loglensd
//
//	# Configure via environment
//	LOGLENS_SERVER_PORT=9090 LOGLENS_LOGS_ROOT=/tmp/logs loglensd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/cache"
	"github.com/loglenshq/loglens/internal/config"
	"github.com/loglenshq/loglens/internal/logging"
	"github.com/loglenshq/loglens/internal/project"
	"github.com/loglenshq/loglens/internal/server"
	"github.com/loglenshq/loglens/internal/stats"
	"github.com/loglenshq/loglens/internal/watcher"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.loglens/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  loglensd           Start the loglens daemon\n")
			fmt.Fprintf(os.Stderr, "  loglensd version   Show version information\n")
			os.Exit(1)
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("loglensd\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the loglens daemon and blocks until context is cancelled.
//
// This function initializes all dependencies and services:
//  1. Loads and validates configuration
//  2. Initializes the structured logger
//  3. Scans the Claude logs root for projects
//  4. Creates and optionally warms the stats cache
//  5. Starts the filesystem watcher for live refresh
//  6. Starts the HTTP server
//  7. Performs graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting loglensd",
		zap.String("version", version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("logs_root", cfg.Logs.Root),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	manager, err := project.NewManager(cfg.Logs.Root, logger)
	if err != nil {
		return fmt.Errorf("failed to create project manager: %w", err)
	}
	if err := manager.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to scan logs root: %w", err)
	}

	statsCache := cache.New(cfg.Cache.MaxProjects, cfg.Cache.MaxMBPerProject, logger)
	if cfg.Cache.WarmOnStartup > 0 {
		warmed := statsCache.Warm(ctx, manager.List(ctx), cfg.Cache.WarmOnStartup)
		logger.Info("Stats cache warmed", zap.Int("projects", warmed))
	}

	aggregator := stats.NewAggregator(statsCache, logger)

	w, err := watcher.New(cfg.Logs.Root,
		manager.Refresh,
		statsCache.Invalidate,
		logger)
	if err != nil {
		logger.Warn("Log watcher unavailable, dashboard data will be static", zap.Error(err))
	} else {
		if err := w.Start(ctx); err != nil {
			logger.Warn("Failed to start log watcher", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	srv, err := server.NewServer(server.Options{
		Config:     cfg,
		Manager:    manager,
		StatsCache: statsCache,
		Aggregator: aggregator,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Register metrics endpoint
	srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	dashboardURL := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server configured",
		zap.String("dashboard", dashboardURL),
		zap.String("health_endpoint", dashboardURL+"/health"),
		zap.String("metrics_endpoint", "/metrics"),
		zap.Int("projects", len(manager.List(ctx))))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if cfg.Dashboard.AutoBrowser {
		if err := openBrowser(dashboardURL); err != nil {
			logger.Debug("Could not open browser", zap.Error(err))
		}
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

// openBrowser opens the dashboard URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
