// Package stats aggregates per-project analytics for the dashboard.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the cached statistics file inside each project log directory.
const FileName = "stats.json"

// TokenTotals holds all-time token counts for a project.
type TokenTotals struct {
	Input         int64 `json:"input"`
	Output        int64 `json:"output"`
	CacheRead     int64 `json:"cache_read"`
	CacheCreation int64 `json:"cache_creation"`
}

// Overview is the all-time summary section of a project's statistics.
// Unlike the daily series it covers every message, including those
// without timestamps.
type Overview struct {
	TotalTokens TokenTotals `json:"total_tokens"`
	TotalCost   float64     `json:"total_cost"`
}

// UserInteractions summarizes analyzed user commands.
type UserInteractions struct {
	CommandsAnalyzed int `json:"user_commands_analyzed"`
}

// ModelCost breaks a day's cost down per model.
type ModelCost struct {
	InputCost         float64 `json:"input_cost"`
	OutputCost        float64 `json:"output_cost"`
	CacheCreationCost float64 `json:"cache_creation_cost"`
	CacheReadCost     float64 `json:"cache_read_cost"`
}

// DayTokens holds a single day's token counts.
type DayTokens struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

// DayCost holds a single day's cost with its per-model breakdown.
type DayCost struct {
	Total   float64              `json:"total"`
	ByModel map[string]ModelCost `json:"by_model"`
}

// DayStats is one entry of a project's daily series, keyed by ISO date.
type DayStats struct {
	Tokens DayTokens `json:"tokens"`
	Cost   DayCost   `json:"cost"`
}

// ProjectStats is the per-project statistics document produced by the log
// processor and cached as stats.json in the project's log directory.
type ProjectStats struct {
	Overview         Overview            `json:"overview"`
	UserInteractions UserInteractions    `json:"user_interactions"`
	DailyStats       map[string]DayStats `json:"daily_stats"`
	FirstMessageDate string              `json:"first_message_date"`
	LastMessageDate  string              `json:"last_message_date"`
}

// LoadFile reads a ProjectStats document from a stats.json file.
func LoadFile(path string) (*ProjectStats, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}

	var stats ProjectStats
	if err := json.Unmarshal(content, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats file %s: %w", path, err)
	}
	return &stats, nil
}

// LoadDir reads the stats document for a project log directory.
func LoadDir(logPath string) (*ProjectStats, error) {
	return LoadFile(filepath.Join(logPath, FileName))
}
