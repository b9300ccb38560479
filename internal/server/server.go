// Package server provides the HTTP API for the loglens daemon.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/cache"
	"github.com/loglenshq/loglens/internal/config"
	"github.com/loglenshq/loglens/internal/project"
	"github.com/loglenshq/loglens/internal/stats"
)

// Server provides HTTP endpoints for the loglens dashboard.
type Server struct {
	echo       *echo.Echo
	logger     *zap.Logger
	config     *config.Config
	manager    *project.Manager
	statsCache *cache.Cache
	aggregator *stats.Aggregator
	metrics    *Metrics

	sharesMu sync.Mutex
	shares   map[string]shareRecord
}

type shareRecord struct {
	dirName   string
	createdAt time.Time
}

// Options bundles the server's collaborators.
type Options struct {
	Config     *config.Config
	Manager    *project.Manager
	StatsCache *cache.Cache
	Aggregator *stats.Aggregator
	Logger     *zap.Logger

	// Registerer receives the server metrics; nil uses the default registry.
	Registerer prometheus.Registerer
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opts.Manager == nil {
		return nil, fmt.Errorf("project manager cannot be nil")
	}
	if opts.Aggregator == nil {
		return nil, fmt.Errorf("aggregator cannot be nil")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		logger:     opts.Logger,
		config:     opts.Config,
		manager:    opts.Manager,
		statsCache: opts.StatsCache,
		aggregator: opts.Aggregator,
		metrics:    NewMetrics(opts.Registerer),
		shares:     make(map[string]shareRecord),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			opts.Logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s.registerRoutes()
	return s, nil
}

// Echo exposes the underlying router for route additions (e.g. /metrics).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/project-by-dir", s.handleProjectByDir)
	api.GET("/projects", s.handleProjects)
	api.GET("/global-stats", s.handleGlobalStats)
	api.GET("/rollups", s.handleRollups)
	api.GET("/rollup/:name/stats", s.handleRollupStats)
	api.POST("/share", s.handleCreateShare)
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the error body for all failed API calls.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ProjectByDirRequest is the body for POST /api/project-by-dir.
type ProjectByDirRequest struct {
	DirName string `json:"dir_name"`
}

// ProjectByDirResponse is the success body for POST /api/project-by-dir.
type ProjectByDirResponse struct {
	LogDirName string `json:"log_dir_name"`
}

// ProjectsResponse is the body for GET /api/projects.
type ProjectsResponse struct {
	Projects []ProjectInfo `json:"projects"`
}

// ProjectInfo describes one discovered project.
type ProjectInfo struct {
	DirName      string  `json:"dir_name"`
	LogDirName   string  `json:"log_dir_name"`
	DisplayName  string  `json:"display_name"`
	SizeMB       float64 `json:"total_size_mb"`
	LastModified string  `json:"last_modified"`
	InCache      bool    `json:"in_cache"`
}

// RollupsResponse is the body for GET /api/rollups.
type RollupsResponse struct {
	Rollups map[string]string `json:"rollups"`
}

// ShareResponse is the body for POST /api/share.
type ShareResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleProjectByDir resolves a directory name and makes it the active
// project. The response carries the canonical log directory name, which may
// differ from the requested name in case or leading hyphen.
func (s *Server) handleProjectByDir(c echo.Context) error {
	var req ProjectByDirRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid project-by-dir request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body"})
	}
	if req.DirName == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "dir_name field is required"})
	}

	p, err := s.manager.Activate(c.Request().Context(), req.DirName)
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Detail: fmt.Sprintf("no project found for directory %q", req.DirName),
		})
	}

	s.metrics.projectActivations.Inc()

	// Best-effort cache warm; activation succeeds regardless.
	if s.statsCache != nil {
		if _, err := s.statsCache.Stats(c.Request().Context(), p); err != nil {
			s.logger.Debug("stats not cached for activated project",
				zap.String("dir_name", p.DirName),
				zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, ProjectByDirResponse{LogDirName: p.LogDirName})
}

func (s *Server) handleProjects(c echo.Context) error {
	projects := s.manager.List(c.Request().Context())

	infos := make([]ProjectInfo, 0, len(projects))
	for _, p := range projects {
		info := ProjectInfo{
			DirName:     p.DirName,
			LogDirName:  p.LogDirName,
			DisplayName: p.DisplayName,
			SizeMB:      p.SizeMB,
		}
		if !p.LastModified.IsZero() {
			info.LastModified = p.LastModified.Format(time.RFC3339)
		}
		if s.statsCache != nil {
			info.InCache = s.statsCache.Contains(p.LogPath)
		}
		infos = append(infos, info)
	}

	return c.JSON(http.StatusOK, ProjectsResponse{Projects: infos})
}

func (s *Server) handleGlobalStats(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := s.aggregator.Global(ctx, s.manager.List(ctx))
	if err != nil {
		s.logger.Error("global stats aggregation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to aggregate statistics"})
	}

	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleRollups(c echo.Context) error {
	return c.JSON(http.StatusOK, RollupsResponse{Rollups: s.config.Rollups})
}

func (s *Server) handleRollupStats(c echo.Context) error {
	name := c.Param("name")

	path, ok := s.config.Rollups[name]
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Detail: fmt.Sprintf("no rollup named %q", name),
		})
	}

	ctx := c.Request().Context()
	children := s.manager.RollupChildren(ctx, path)

	summary, err := s.aggregator.Rollup(ctx, name, children)
	if err != nil {
		s.logger.Error("rollup stats aggregation failed",
			zap.String("rollup", name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "failed to aggregate statistics"})
	}

	return c.JSON(http.StatusOK, summary)
}

// handleCreateShare mints a shareable dashboard link for the active project.
func (s *Server) handleCreateShare(c echo.Context) error {
	if !s.config.Share.Enabled {
		return c.JSON(http.StatusForbidden, ErrorResponse{Detail: "sharing is disabled"})
	}

	current := s.manager.Current()
	if current == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "no active project to share"})
	}

	id := uuid.New().String()
	s.sharesMu.Lock()
	s.shares[id] = shareRecord{dirName: current.DirName, createdAt: time.Now()}
	s.sharesMu.Unlock()

	s.logger.Info("created share link",
		zap.String("share_id", id),
		zap.String("dir_name", current.DirName))

	return c.JSON(http.StatusOK, ShareResponse{
		ID:  id,
		URL: s.config.Share.BaseURL + "/share/" + id,
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
