package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu          sync.Mutex
	refreshes   int
	invalidated []string
}

func (r *recorder) refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return nil
}

func (r *recorder) invalidate(logPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, logPath)
}

func (r *recorder) refreshCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}

func (r *recorder) invalidatedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.invalidated...)
}

func startWatcher(t *testing.T, root string, rec *recorder) *Watcher {
	t.Helper()
	w, err := New(root, rec.refresh, rec.invalidate, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(w.Stop)
	return w
}

func TestNew(t *testing.T) {
	_, err := New("", nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestRefreshOnNewProjectDir(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	startWatcher(t, root, rec)

	require.NoError(t, os.Mkdir(filepath.Join(root, "-Users-chip-dev-app"), 0o755))

	require.Eventually(t, func() bool {
		return rec.refreshCount() > 0
	}, 3*time.Second, 50*time.Millisecond, "expected a refresh after creating a project dir")
}

func TestInvalidateOnStatsChange(t *testing.T) {
	root := t.TempDir()
	projectDir := filepath.Join(root, "-Users-chip-dev-app")
	require.NoError(t, os.Mkdir(projectDir, 0o755))

	rec := &recorder{}
	startWatcher(t, root, rec)

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "stats.json"), []byte("{}"), 0o644))

	require.Eventually(t, func() bool {
		for _, p := range rec.invalidatedPaths() {
			if p == projectDir {
				return true
			}
		}
		return false
	}, 3*time.Second, 50*time.Millisecond, "expected invalidation for the project dir")
}

func TestStopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	w := startWatcher(t, root, rec)

	w.Stop()
	w.Stop()
}
