package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeLogDir creates a project log directory with one .jsonl file.
func writeLogDir(t *testing.T, root, logDirName string) {
	t.Helper()
	dir := filepath.Join(root, logDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.jsonl"), []byte(`{"type":"user"}`+"\n"), 0o644))
}

func newTestManager(t *testing.T, root string) *Manager {
	t.Helper()
	m, err := NewManager(root, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Refresh(context.Background()))
	return m
}

func TestNewManager(t *testing.T) {
	_, err := NewManager("", zap.NewNop())
	assert.ErrorIs(t, err, ErrNoLogsRoot)
}

func TestRefresh(t *testing.T) {
	t.Run("discovers log directories", func(t *testing.T) {
		root := t.TempDir()
		writeLogDir(t, root, "-Users-chip-dev-teamA-service")
		writeLogDir(t, root, "-Users-chip-dev-teamB-api")

		// Directories without logs are not projects.
		require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755))

		m := newTestManager(t, root)
		projects := m.List(context.Background())
		require.Len(t, projects, 2)

		p := projects[0]
		assert.Equal(t, "Users-chip-dev-teamA-service", p.DirName)
		assert.Equal(t, "-Users-chip-dev-teamA-service", p.LogDirName)
		assert.Equal(t, "Users/chip/dev/teamA/service", p.DisplayName)
		assert.Greater(t, p.SizeMB, 0.0)
		assert.False(t, p.LastModified.IsZero())
	})

	t.Run("missing root yields empty set", func(t *testing.T) {
		m := newTestManager(t, filepath.Join(t.TempDir(), "nope"))
		assert.Empty(t, m.List(context.Background()))
	})

	t.Run("drops current when project disappears", func(t *testing.T) {
		root := t.TempDir()
		writeLogDir(t, root, "-Users-chip-dev-app")

		m := newTestManager(t, root)
		_, err := m.Activate(context.Background(), "Users-chip-dev-app")
		require.NoError(t, err)
		require.NotNil(t, m.Current())

		require.NoError(t, os.RemoveAll(filepath.Join(root, "-Users-chip-dev-app")))
		require.NoError(t, m.Refresh(context.Background()))
		assert.Nil(t, m.Current())
	})
}

func TestGet(t *testing.T) {
	root := t.TempDir()
	writeLogDir(t, root, "-Users-chip-dev-teamA-service")
	m := newTestManager(t, root)
	ctx := context.Background()

	t.Run("by dir name", func(t *testing.T) {
		p, err := m.Get(ctx, "Users-chip-dev-teamA-service")
		require.NoError(t, err)
		assert.Equal(t, "-Users-chip-dev-teamA-service", p.LogDirName)
	})

	t.Run("accepts leading hyphen", func(t *testing.T) {
		p, err := m.Get(ctx, "-Users-chip-dev-teamA-service")
		require.NoError(t, err)
		assert.Equal(t, "Users-chip-dev-teamA-service", p.DirName)
	})

	t.Run("case insensitive fallback", func(t *testing.T) {
		p, err := m.Get(ctx, "users-chip-dev-teama-service")
		require.NoError(t, err)
		assert.Equal(t, "Users-chip-dev-teamA-service", p.DirName)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := m.Get(ctx, "no-such-project")
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("empty dir name", func(t *testing.T) {
		_, err := m.Get(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyDirName)
	})
}

func TestActivate(t *testing.T) {
	root := t.TempDir()
	writeLogDir(t, root, "-Users-chip-dev-teamA-service")
	m := newTestManager(t, root)
	ctx := context.Background()

	assert.Nil(t, m.Current())

	p, err := m.Activate(ctx, "Users-chip-dev-teamA-service")
	require.NoError(t, err)
	assert.Equal(t, p, m.Current())

	_, err = m.Activate(ctx, "unknown")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	// Failed activation leaves current untouched.
	assert.Equal(t, p, m.Current())
}

func TestRollupChildren(t *testing.T) {
	root := t.TempDir()
	writeLogDir(t, root, "-Users-chip-dev-teamA-service")
	writeLogDir(t, root, "-Users-chip-dev-teamA-worker")
	writeLogDir(t, root, "-Users-chip-other-tool")

	m := newTestManager(t, root)
	ctx := context.Background()

	children := m.RollupChildren(ctx, "/Users/chip/dev/teamA")
	require.Len(t, children, 2)
	assert.Equal(t, "Users-chip-dev-teamA-service", children[0].DirName)
	assert.Equal(t, "Users-chip-dev-teamA-worker", children[1].DirName)

	assert.Empty(t, m.RollupChildren(ctx, "/Users/nobody"))
}

func TestOriginalPath(t *testing.T) {
	p := newProject("-Users-chip-dev-app", "/logs/-Users-chip-dev-app", 1, time.Time{})
	assert.Equal(t, "/Users/chip/dev/app", p.OriginalPath())
}
