// Package project discovers and activates log-backed projects.
//
// Projects live under a single logs root. Each child directory holding
// .jsonl log files is a project; the directory name encodes the original
// workspace path with path separators flattened to hyphens
// (e.g. "-Users-chip-dev-teamA-service" for /Users/chip/dev/teamA/service).
package project

import (
	"errors"
	"strings"
	"time"
)

// Common errors.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrEmptyDirName    = errors.New("project dir name cannot be empty")
	ErrNoLogsRoot      = errors.New("logs root cannot be empty")
)

// Project is a directory-backed unit of logs identified by its dir name.
type Project struct {
	// DirName is the identifier clients request projects by: the log
	// directory name without its leading hyphen.
	DirName string `json:"dir_name"`

	// LogDirName is the canonical on-disk directory name under the logs root.
	LogDirName string `json:"log_dir_name"`

	// DisplayName is DirName with hyphens rendered as path separators.
	DisplayName string `json:"display_name"`

	// LogPath is the absolute path of the project's log directory.
	LogPath string `json:"log_path"`

	// SizeMB is the total size of the project's log files in megabytes.
	SizeMB float64 `json:"total_size_mb"`

	// LastModified is the newest log file modification time.
	LastModified time.Time `json:"last_modified"`
}

// OriginalPath reconstructs the workspace path the log directory encodes.
// The mapping is lossy when the original path itself contained hyphens;
// rollup membership checks accept that ambiguity.
func (p *Project) OriginalPath() string {
	return "/" + strings.ReplaceAll(strings.TrimPrefix(p.LogDirName, "-"), "-", "/")
}

// newProject builds a Project from its on-disk directory name.
func newProject(logDirName, logPath string, sizeMB float64, lastModified time.Time) *Project {
	dirName := strings.TrimPrefix(logDirName, "-")
	return &Project{
		DirName:      dirName,
		LogDirName:   logDirName,
		DisplayName:  strings.ReplaceAll(dirName, "-", "/"),
		LogPath:      logPath,
		SizeMB:       sizeMB,
		LastModified: lastModified,
	}
}
