// Package cache provides a bounded in-memory cache of project statistics.
package cache

import (
	"container/list"
	"context"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/project"
	"github.com/loglenshq/loglens/internal/stats"
)

// Cache is an LRU of parsed project statistics keyed by log path. It
// implements stats.Source. Entries larger than the per-project byte limit
// are served but never retained.
type Cache struct {
	capacity     int
	maxEntrySize int64
	logger       *zap.Logger

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type entry struct {
	logPath string
	stats   *stats.ProjectStats
}

// New creates a cache holding at most maxProjects entries, each backed by a
// stats file of at most maxMBPerProject megabytes.
func New(maxProjects, maxMBPerProject int, logger *zap.Logger) *Cache {
	if maxProjects < 1 {
		maxProjects = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		capacity:     maxProjects,
		maxEntrySize: int64(maxMBPerProject) * 1024 * 1024,
		logger:       logger,
		entries:      make(map[string]*list.Element),
		order:        list.New(),
	}
}

// Stats returns the statistics for a project, loading and caching its
// stats file on a miss.
func (c *Cache) Stats(ctx context.Context, p *project.Project) (*stats.ProjectStats, error) {
	c.mu.Lock()
	if elem, ok := c.entries[p.LogPath]; ok {
		c.order.MoveToFront(elem)
		cached := elem.Value.(*entry).stats
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	loaded, err := stats.LoadDir(p.LogPath)
	if err != nil {
		return nil, err
	}

	if c.fitsLimit(p.LogPath) {
		c.put(p.LogPath, loaded)
	} else {
		c.logger.Debug("stats too large to cache",
			zap.String("dir_name", p.DirName),
			zap.Int64("limit_bytes", c.maxEntrySize))
	}
	return loaded, nil
}

// Contains reports whether a project's stats are currently cached.
func (c *Cache) Contains(logPath string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[logPath]
	return ok
}

// Len returns the number of cached projects.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Invalidate drops a project's cached stats.
func (c *Cache) Invalidate(logPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[logPath]; ok {
		c.order.Remove(elem)
		delete(c.entries, logPath)
	}
}

// Warm preloads stats for up to limit projects. Load failures are logged
// and skipped.
func (c *Cache) Warm(ctx context.Context, projects []*project.Project, limit int) int {
	warmed := 0
	for _, p := range projects {
		if warmed >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			break
		}
		if _, err := c.Stats(ctx, p); err != nil {
			c.logger.Debug("skipping project during cache warm",
				zap.String("dir_name", p.DirName),
				zap.Error(err))
			continue
		}
		warmed++
	}
	return warmed
}

func (c *Cache) put(logPath string, loaded *stats.ProjectStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[logPath]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry).stats = loaded
		return
	}

	c.entries[logPath] = c.order.PushFront(&entry{logPath: logPath, stats: loaded})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).logPath)
	}
}

// fitsLimit checks the on-disk stats file size against the per-entry cap.
func (c *Cache) fitsLimit(logPath string) bool {
	info, err := os.Stat(filepath.Join(logPath, stats.FileName))
	if err != nil {
		return true
	}
	return info.Size() <= c.maxEntrySize
}
