// Package client provides a typed HTTP client for the loglens daemon API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/loglenshq/loglens/internal/stats"
)

// APIError is a non-2xx response from the daemon, decoded once at this
// boundary. Detail carries the server's error body when present.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to a running loglens daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the daemon at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ActivateProjectRequest is the body for POST /api/project-by-dir.
type ActivateProjectRequest struct {
	DirName string `json:"dir_name"`
}

// ActivateProjectResponse is the success body for POST /api/project-by-dir.
type ActivateProjectResponse struct {
	LogDirName string `json:"log_dir_name"`
}

// ErrorResponse is the error body the daemon returns on failures.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
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

// ActivateProject registers dirName as the server's active project and
// returns the canonical log directory name.
func (c *Client) ActivateProject(ctx context.Context, dirName string) (string, error) {
	var resp ActivateProjectResponse
	err := c.post(ctx, "/api/project-by-dir", ActivateProjectRequest{DirName: dirName}, &resp)
	if err != nil {
		return "", err
	}
	return resp.LogDirName, nil
}

// Health checks daemon liveness.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Projects lists the daemon's discovered projects.
func (c *Client) Projects(ctx context.Context) ([]ProjectInfo, error) {
	var resp ProjectsResponse
	if err := c.get(ctx, "/api/projects", &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// GlobalStats fetches the aggregate across all projects.
func (c *Client) GlobalStats(ctx context.Context) (*stats.Summary, error) {
	var resp stats.Summary
	if err := c.get(ctx, "/api/global-stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RollupStats fetches the aggregate for a named rollup.
func (c *Client) RollupStats(ctx context.Context, name string) (*stats.Summary, error) {
	var resp stats.Summary
	if err := c.get(ctx, "/api/rollup/"+url.PathEscape(name)+"/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rollups lists the configured rollups.
func (c *Client) Rollups(ctx context.Context) (map[string]string, error) {
	var resp RollupsResponse
	if err := c.get(ctx, "/api/rollups", &resp); err != nil {
		return nil, err
	}
	return resp.Rollups, nil
}

// CreateShare requests a shareable link for the current dashboard.
func (c *Client) CreateShare(ctx context.Context) (*ShareResponse, error) {
	var resp ShareResponse
	if err := c.post(ctx, "/api/share", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail ErrorResponse
		// Detail is best-effort; a non-JSON error body is still an APIError.
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
