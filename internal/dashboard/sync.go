package dashboard

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/client"
)

// Display labels written to the header view.
const (
	projectLabel = "Project: "
	rollupLabel  = "Rollup: "
)

// Messages shown in the error view.
const (
	genericDetail      = "unknown error"
	transportFailedMsg = "Failed to load project view"
)

// ProjectActivator registers a project as active server-side and returns
// its canonical log directory name. *client.Client implements it.
type ProjectActivator interface {
	ActivateProject(ctx context.Context, dirName string) (string, error)
}

// Synchronizer resolves a page path into an active context, keeping the
// header view and the context slot in step with the daemon. All failures
// are absorbed here; Sync never returns an error to its caller.
type Synchronizer struct {
	activator ProjectActivator
	slot      *ContextSlot
	header    HeaderView
	errView   ErrorView
	logger    *zap.Logger
}

// NewSynchronizer creates a synchronizer. header and errView may be nil;
// missing views degrade to silent no-ops.
func NewSynchronizer(activator ProjectActivator, slot *ContextSlot, header HeaderView, errView ErrorView, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		activator: activator,
		slot:      slot,
		header:    header,
		errView:   errView,
		logger:    logger.Named("project-context"),
	}
}

// Sync classifies path and synchronizes the resulting context.
//
// A classification miss returns false without side effects. Project paths
// cost one daemon call; rollup paths are resolved locally. On success the
// context slot holds the requested name, while the header shows the
// daemon's canonical name with hyphens rendered as slashes.
func (s *Synchronizer) Sync(ctx context.Context, path string) bool {
	desc, ok := Classify(path)
	if !ok {
		return false
	}

	switch desc.Kind {
	case KindProject:
		return s.syncProject(ctx, desc.Name)
	case KindRollup:
		s.setHeader(rollupLabel + desc.Name)
		s.slot.Set(&ActiveContext{Kind: KindRollup, Name: desc.Name})
		return true
	}
	return false
}

func (s *Synchronizer) syncProject(ctx context.Context, dirName string) bool {
	logDirName, err := s.activator.ActivateProject(ctx, dirName)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			detail := apiErr.Detail
			if detail == "" {
				detail = genericDetail
			}
			s.logger.Error("project activation rejected",
				zap.String("dir_name", dirName),
				zap.Int("status", apiErr.StatusCode),
				zap.String("detail", apiErr.Detail))
			s.showError("Failed to load project: " + detail)
			return false
		}

		s.logger.Error("project activation failed",
			zap.String("dir_name", dirName),
			zap.Error(err))
		s.showError(transportFailedMsg)
		return false
	}

	s.setHeader(projectLabel + strings.ReplaceAll(logDirName, "-", "/"))
	// The slot keeps the requested name; the header shows the canonical one.
	s.slot.Set(&ActiveContext{Kind: KindProject, DirName: dirName})
	return true
}

func (s *Synchronizer) setHeader(text string) {
	if s.header == nil {
		s.logger.Debug("no header view attached", zap.String("text", text))
		return
	}
	s.header.SetText(text)
}

func (s *Synchronizer) showError(message string) {
	if s.errView == nil {
		return
	}
	s.errView.ShowError(message)
}
