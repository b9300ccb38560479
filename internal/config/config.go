// Package config provides configuration loading for loglens.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/loglenshq/loglens/internal/logging"
)

// Config is the root configuration for the loglens daemon and CLI.
type Config struct {
	Server    ServerConfig      `koanf:"server" yaml:"server"`
	Logs      LogsConfig        `koanf:"logs" yaml:"logs"`
	Cache     CacheConfig       `koanf:"cache" yaml:"cache"`
	Dashboard DashboardConfig   `koanf:"dashboard" yaml:"dashboard"`
	Share     ShareConfig       `koanf:"share" yaml:"share"`
	Log       logging.Config    `koanf:"log" yaml:"log"`
	Rollups   map[string]string `koanf:"rollups" yaml:"rollups"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host" yaml:"host"`
	Port            int      `koanf:"port" yaml:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogsConfig locates the logs root that projects are discovered under.
type LogsConfig struct {
	Root string `koanf:"root" yaml:"root"`
}

// CacheConfig bounds the in-memory stats cache.
type CacheConfig struct {
	MaxProjects     int `koanf:"max_projects" yaml:"max_projects"`
	MaxMBPerProject int `koanf:"max_mb_per_project" yaml:"max_mb_per_project"`
	WarmOnStartup   int `koanf:"warm_on_startup" yaml:"warm_on_startup"`
}

// DashboardConfig holds dashboard behavior settings.
type DashboardConfig struct {
	AutoBrowser         bool `koanf:"auto_browser" yaml:"auto_browser"`
	MaxDateRangeDays    int  `koanf:"max_date_range_days" yaml:"max_date_range_days"`
	MessagesInitialLoad int  `koanf:"messages_initial_load" yaml:"messages_initial_load"`
}

// ShareConfig controls shareable dashboard links.
type ShareConfig struct {
	BaseURL string `koanf:"base_url" yaml:"base_url"`
	APIURL  string `koanf:"api_url" yaml:"api_url"`
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
}

// Default returns the built-in configuration. File and environment values
// are layered on top of it.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8081,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logs: LogsConfig{
			Root: filepath.Join(home, ".loglens", "logs"),
		},
		Cache: CacheConfig{
			MaxProjects:     5,
			MaxMBPerProject: 500,
			WarmOnStartup:   3,
		},
		Dashboard: DashboardConfig{
			AutoBrowser:         true,
			MaxDateRangeDays:    30,
			MessagesInitialLoad: 500,
		},
		Share: ShareConfig{
			BaseURL: "https://loglens.dev",
			APIURL:  "https://loglens.dev",
			Enabled: true,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
		Rollups: map[string]string{},
	}
}

// DefaultPath returns the default config file location (~/.loglens/config.yaml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".loglens", "config.yaml"), nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Logs.Root == "" {
		return fmt.Errorf("logs root cannot be empty")
	}
	if c.Cache.MaxProjects < 1 {
		return fmt.Errorf("cache max_projects must be at least 1, got %d", c.Cache.MaxProjects)
	}
	if c.Cache.MaxMBPerProject < 1 {
		return fmt.Errorf("cache max_mb_per_project must be at least 1, got %d", c.Cache.MaxMBPerProject)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	for name, path := range c.Rollups {
		if err := ValidateRollupName(name); err != nil {
			return fmt.Errorf("rollup %q: %w", name, err)
		}
		if path == "" {
			return fmt.Errorf("rollup %q: path cannot be empty", name)
		}
	}
	return nil
}

var rollupNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)

const maxRollupNameLen = 50

// ValidateRollupName checks a rollup name for length and character constraints.
func ValidateRollupName(name string) error {
	if name == "" {
		return fmt.Errorf("rollup name cannot be empty")
	}
	if len(name) > maxRollupNameLen {
		return fmt.Errorf("rollup name cannot exceed %d characters", maxRollupNameLen)
	}
	if !rollupNamePattern.MatchString(name) {
		return fmt.Errorf("rollup name can only contain letters, numbers, spaces, hyphens, and underscores")
	}
	return nil
}
