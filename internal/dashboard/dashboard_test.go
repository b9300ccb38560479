package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/client"
)

type fakeActivator struct {
	calls      int
	lastName   string
	logDirName string
	err        error
}

func (f *fakeActivator) ActivateProject(ctx context.Context, dirName string) (string, error) {
	f.calls++
	f.lastName = dirName
	if f.err != nil {
		return "", f.err
	}
	return f.logDirName, nil
}

type fakeHeader struct {
	texts []string
}

func (f *fakeHeader) SetText(text string) { f.texts = append(f.texts, text) }

type fakeErrView struct {
	messages []string
}

func (f *fakeErrView) ShowError(message string) { f.messages = append(f.messages, message) }

type fakeNav struct {
	urls []string
}

func (f *fakeNav) Navigate(url string) { f.urls = append(f.urls, url) }

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Descriptor
		ok   bool
	}{
		{"/project/teamA-service", Descriptor{KindProject, "teamA-service"}, true},
		{"/project/a/b/c", Descriptor{KindProject, "a/b/c"}, true},
		{"/project/x", Descriptor{KindProject, "x"}, true},
		{"/rollup/q3-report", Descriptor{KindRollup, "q3-report"}, true},
		{"/rollup/My Projects", Descriptor{KindRollup, "My Projects"}, true},
		{"/", Descriptor{}, false},
		{"/dashboard", Descriptor{}, false},
		{"/projectX", Descriptor{}, false},
		{"/project/", Descriptor{}, false},
		{"/rollup/", Descriptor{}, false},
		{"/rollupX/y", Descriptor{}, false},
		{"", Descriptor{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestSync(activator *fakeActivator) (*Synchronizer, *ContextSlot, *fakeHeader, *fakeErrView) {
	slot := NewContextSlot()
	header := &fakeHeader{}
	errView := &fakeErrView{}
	return NewSynchronizer(activator, slot, header, errView, zap.NewNop()), slot, header, errView
}

func TestSyncClassificationMiss(t *testing.T) {
	activator := &fakeActivator{}
	sync, slot, header, errView := newTestSync(activator)

	assert.False(t, sync.Sync(context.Background(), "/"))
	assert.Zero(t, activator.calls)
	assert.Empty(t, header.texts)
	assert.Empty(t, errView.messages)
	assert.Nil(t, slot.Current())
}

func TestSyncProjectSuccess(t *testing.T) {
	activator := &fakeActivator{logDirName: "teamA/service"}
	sync, slot, header, errView := newTestSync(activator)

	ok := sync.Sync(context.Background(), "/project/teamA-service")
	require.True(t, ok)

	assert.Equal(t, 1, activator.calls)
	assert.Equal(t, "teamA-service", activator.lastName)
	require.Len(t, header.texts, 1)
	assert.Equal(t, "Project: teamA/service", header.texts[0])
	assert.Empty(t, errView.messages)

	current := slot.Current()
	require.NotNil(t, current)
	assert.Equal(t, KindProject, current.Kind)
	// The slot records the requested name, not the canonical one.
	assert.Equal(t, "teamA-service", current.DirName)
	assert.Empty(t, current.Name)
}

func TestSyncProjectCanonicalDisplay(t *testing.T) {
	// Canonical names that still contain hyphens are displayed with slashes.
	activator := &fakeActivator{logDirName: "teamA-service"}
	sync, _, header, _ := newTestSync(activator)

	require.True(t, sync.Sync(context.Background(), "/project/teamA-service"))
	require.Len(t, header.texts, 1)
	assert.Equal(t, "Project: teamA/service", header.texts[0])
}

func TestSyncProjectRejected(t *testing.T) {
	t.Run("embeds server detail", func(t *testing.T) {
		activator := &fakeActivator{err: &client.APIError{StatusCode: http.StatusNotFound, Detail: "not found"}}
		sync, slot, header, errView := newTestSync(activator)

		ok := sync.Sync(context.Background(), "/project/bad")
		assert.False(t, ok)
		assert.Empty(t, header.texts)
		require.Len(t, errView.messages, 1)
		assert.Contains(t, errView.messages[0], "not found")
		assert.Nil(t, slot.Current())
	})

	t.Run("generic phrase without detail", func(t *testing.T) {
		activator := &fakeActivator{err: &client.APIError{StatusCode: http.StatusBadGateway}}
		sync, _, _, errView := newTestSync(activator)

		assert.False(t, sync.Sync(context.Background(), "/project/bad"))
		require.Len(t, errView.messages, 1)
		assert.Contains(t, errView.messages[0], "unknown error")
	})
}

func TestSyncProjectTransportFailure(t *testing.T) {
	activator := &fakeActivator{err: errors.New("connection refused")}
	sync, slot, _, errView := newTestSync(activator)

	assert.False(t, sync.Sync(context.Background(), "/project/x"))
	require.Len(t, errView.messages, 1)
	assert.Equal(t, "Failed to load project view", errView.messages[0])
	assert.Nil(t, slot.Current())
}

func TestSyncRollup(t *testing.T) {
	activator := &fakeActivator{}
	sync, slot, header, errView := newTestSync(activator)

	ok := sync.Sync(context.Background(), "/rollup/q3-report")
	require.True(t, ok)

	// Rollups never hit the network.
	assert.Zero(t, activator.calls)
	require.Len(t, header.texts, 1)
	assert.Equal(t, "Rollup: q3-report", header.texts[0])
	assert.Empty(t, errView.messages)

	current := slot.Current()
	require.NotNil(t, current)
	assert.Equal(t, KindRollup, current.Kind)
	assert.Equal(t, "q3-report", current.Name)
	assert.Empty(t, current.DirName)
}

func TestSyncOverwritesPreviousContext(t *testing.T) {
	activator := &fakeActivator{logDirName: "teamA-service"}
	sync, slot, _, _ := newTestSync(activator)
	ctx := context.Background()

	require.True(t, sync.Sync(ctx, "/project/teamA-service"))
	require.True(t, sync.Sync(ctx, "/rollup/q3-report"))

	current := slot.Current()
	require.NotNil(t, current)
	assert.Equal(t, KindRollup, current.Kind)
	assert.Equal(t, "q3-report", current.Name)
	assert.Empty(t, current.DirName)
}

func TestSyncWithoutViews(t *testing.T) {
	// Absent header and error views are silent no-ops, not panics.
	activator := &fakeActivator{logDirName: "x"}
	slot := NewContextSlot()
	sync := NewSynchronizer(activator, slot, nil, nil, zap.NewNop())
	ctx := context.Background()

	assert.True(t, sync.Sync(ctx, "/project/x"))
	require.NotNil(t, slot.Current())

	activator.err = errors.New("boom")
	assert.False(t, sync.Sync(ctx, "/project/x"))
}

func TestGoToOverview(t *testing.T) {
	nav := &fakeNav{}
	GoToOverview(nav)
	assert.Equal(t, []string{"/"}, nav.urls)

	GoToOverview(nil) // no panic
}

func TestGoToProject(t *testing.T) {
	nav := &fakeNav{}

	GoToProject(nav, "")
	assert.Empty(t, nav.urls)

	GoToProject(nav, "x")
	assert.Equal(t, []string{"/project/x"}, nav.urls)

	GoToProject(nil, "x") // no panic
}
