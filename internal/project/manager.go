package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager scans the logs root and tracks the currently active project.
type Manager struct {
	root   string
	logger *zap.Logger

	mu       sync.RWMutex
	projects map[string]*Project // dir name -> project
	current  *Project
}

// NewManager creates a manager for the given logs root.
func NewManager(root string, logger *zap.Logger) (*Manager, error) {
	if root == "" {
		return nil, ErrNoLogsRoot
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		root:     root,
		logger:   logger,
		projects: make(map[string]*Project),
	}, nil
}

// Refresh rescans the logs root. Directories without .jsonl files are
// skipped. A missing root yields an empty project set, not an error.
func (m *Manager) Refresh(ctx context.Context) error {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("logs root does not exist", zap.String("root", m.root))
			m.mu.Lock()
			m.projects = make(map[string]*Project)
			m.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read logs root %s: %w", m.root, err)
	}

	found := make(map[string]*Project, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.IsDir() {
			continue
		}

		logPath := filepath.Join(m.root, entry.Name())
		sizeMB, lastModified, hasLogs := scanLogDir(logPath)
		if !hasLogs {
			continue
		}

		p := newProject(entry.Name(), logPath, sizeMB, lastModified)
		found[p.DirName] = p
	}

	m.mu.Lock()
	// Keep the current pointer coherent across rescans.
	if m.current != nil {
		if replacement, ok := found[m.current.DirName]; ok {
			m.current = replacement
		} else {
			m.current = nil
		}
	}
	m.projects = found
	m.mu.Unlock()

	m.logger.Debug("refreshed projects", zap.Int("count", len(found)))
	return nil
}

// List returns all known projects sorted by dir name.
func (m *Manager) List(ctx context.Context) []*Project {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]*Project, 0, len(m.projects))
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].DirName < projects[j].DirName
	})
	return projects
}

// Get retrieves a project by its dir name.
func (m *Manager) Get(ctx context.Context, dirName string) (*Project, error) {
	if dirName == "" {
		return nil, ErrEmptyDirName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.projects[dirName]; ok {
		return p, nil
	}
	// Requests may carry the on-disk leading hyphen or differ in case.
	trimmed := strings.TrimPrefix(dirName, "-")
	if p, ok := m.projects[trimmed]; ok {
		return p, nil
	}
	for name, p := range m.projects {
		if strings.EqualFold(name, trimmed) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, dirName)
}

// Activate resolves a project by dir name and makes it current.
func (m *Manager) Activate(ctx context.Context, dirName string) (*Project, error) {
	p, err := m.Get(ctx, dirName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	m.logger.Info("activated project",
		zap.String("dir_name", p.DirName),
		zap.String("log_dir_name", p.LogDirName))
	return p, nil
}

// Current returns the active project, or nil if none has been activated.
func (m *Manager) Current() *Project {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// RollupChildren returns the projects whose original workspace path lies
// under rollupPath.
func (m *Manager) RollupChildren(ctx context.Context, rollupPath string) []*Project {
	rollupPath = filepath.Clean(rollupPath)

	var children []*Project
	for _, p := range m.List(ctx) {
		original := p.OriginalPath()
		if original == rollupPath || strings.HasPrefix(original, rollupPath+"/") {
			children = append(children, p)
		}
	}
	return children
}

// scanLogDir sums .jsonl file sizes and finds the newest modification time.
func scanLogDir(path string) (sizeMB float64, lastModified time.Time, hasLogs bool) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, time.Time{}, false
	}

	var totalBytes int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		hasLogs = true
		totalBytes += info.Size()
		if info.ModTime().After(lastModified) {
			lastModified = info.ModTime()
		}
	}
	return float64(totalBytes) / (1024 * 1024), lastModified, hasLogs
}
