package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/project"
)

// windowDays is the length of the daily series returned by aggregation.
const windowDays = 30

// Source supplies per-project statistics. Implementations may cache.
type Source interface {
	Stats(ctx context.Context, p *project.Project) (*ProjectStats, error)
}

// DailyTokenPoint is one chart point of the aggregated daily token series.
type DailyTokenPoint struct {
	Date   string `json:"date"`
	Input  int64  `json:"input"`
	Output int64  `json:"output"`
}

// DailyCostPoint is one chart point of the aggregated daily cost series.
type DailyCostPoint struct {
	Date       string  `json:"date"`
	Cost       float64 `json:"cost"`
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	CacheCost  float64 `json:"cache_cost"`
}

// Summary is the aggregate across a set of projects: all-time totals from
// project overviews plus a zero-filled 30-day daily series. The two can
// diverge slightly because overview totals include messages that carry no
// timestamp and therefore never land in a daily bucket.
type Summary struct {
	Rollup        string `json:"rollup,omitempty"`
	TotalProjects int    `json:"total_projects"`
	FirstUseDate  string `json:"first_use_date,omitempty"`
	LastUseDate   string `json:"last_use_date,omitempty"`

	TotalInputTokens      int64   `json:"total_input_tokens"`
	TotalOutputTokens     int64   `json:"total_output_tokens"`
	TotalCacheReadTokens  int64   `json:"total_cache_read_tokens"`
	TotalCacheWriteTokens int64   `json:"total_cache_write_tokens"`
	TotalCommands         int     `json:"total_commands"`
	TotalCost             float64 `json:"total_cost"`

	DailyTokenUsage []DailyTokenPoint `json:"daily_token_usage"`
	DailyCosts      []DailyCostPoint  `json:"daily_costs"`
}

// Aggregator computes global and rollup summaries from a stats source.
type Aggregator struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewAggregator creates an aggregator reading from source.
func NewAggregator(source Source, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Global aggregates statistics across all projects.
//
// Projects whose stats cannot be loaded are logged and skipped; aggregation
// never fails on a single bad project.
func (a *Aggregator) Global(ctx context.Context, projects []*project.Project) (*Summary, error) {
	summary, err := a.aggregate(ctx, projects)
	if err != nil {
		return nil, err
	}

	a.logger.Info("global stats aggregation complete",
		zap.Int("projects", summary.TotalProjects),
		zap.Int("commands", summary.TotalCommands),
		zap.Int64("total_tokens", summary.TotalInputTokens+summary.TotalOutputTokens),
		zap.Float64("total_cost", summary.TotalCost))
	return summary, nil
}

// Rollup aggregates statistics across a rollup's child projects.
func (a *Aggregator) Rollup(ctx context.Context, name string, children []*project.Project) (*Summary, error) {
	summary, err := a.aggregate(ctx, children)
	if err != nil {
		return nil, err
	}
	summary.Rollup = name

	a.logger.Info("rollup stats aggregation complete",
		zap.String("rollup", name),
		zap.Int("projects", summary.TotalProjects))
	return summary, nil
}

func (a *Aggregator) aggregate(ctx context.Context, projects []*project.Project) (*Summary, error) {
	// Anchor the window on the clock's calendar date; truncating the
	// absolute time would end the window on yesterday for zones west of UTC.
	y, m, d := a.now().Date()
	endDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -(windowDays - 1))

	dailyTokens := make(map[string]*DailyTokenPoint, windowDays)
	dailyCosts := make(map[string]*DailyCostPoint, windowDays)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		dailyTokens[date] = &DailyTokenPoint{Date: date}
		dailyCosts[date] = &DailyCostPoint{Date: date}
	}

	summary := &Summary{TotalProjects: len(projects)}

	var earliest, latest time.Time
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats, err := a.source.Stats(ctx, p)
		if err != nil {
			a.logger.Warn("skipping project without stats",
				zap.String("dir_name", p.DirName),
				zap.Error(err))
			continue
		}

		// All-time totals from the overview section.
		summary.TotalInputTokens += stats.Overview.TotalTokens.Input
		summary.TotalOutputTokens += stats.Overview.TotalTokens.Output
		summary.TotalCacheReadTokens += stats.Overview.TotalTokens.CacheRead
		summary.TotalCacheWriteTokens += stats.Overview.TotalTokens.CacheCreation
		summary.TotalCost += stats.Overview.TotalCost
		summary.TotalCommands += stats.UserInteractions.CommandsAnalyzed

		// Daily series for the window.
		for date, day := range stats.DailyStats {
			tokens, ok := dailyTokens[date]
			if !ok {
				continue
			}
			tokens.Input += day.Tokens.Input
			tokens.Output += day.Tokens.Output

			cost := dailyCosts[date]
			cost.Cost += day.Cost.Total
			for _, mc := range day.Cost.ByModel {
				cost.InputCost += mc.InputCost
				cost.OutputCost += mc.OutputCost
				cost.CacheCost += mc.CacheCreationCost + mc.CacheReadCost
			}
		}

		if ts, ok := parseMessageDate(stats.FirstMessageDate); ok {
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
		} else if stats.FirstMessageDate != "" {
			a.logger.Warn("invalid first_message_date",
				zap.String("dir_name", p.DirName),
				zap.String("value", stats.FirstMessageDate))
		}
		if ts, ok := parseMessageDate(stats.LastMessageDate); ok {
			if ts.After(latest) {
				latest = ts
			}
		} else if stats.LastMessageDate != "" {
			a.logger.Warn("invalid last_message_date",
				zap.String("dir_name", p.DirName),
				zap.String("value", stats.LastMessageDate))
		}
	}

	if !earliest.IsZero() {
		summary.FirstUseDate = earliest.Format(time.RFC3339)
	}
	if !latest.IsZero() {
		summary.LastUseDate = latest.Format(time.RFC3339)
	}

	summary.DailyTokenUsage = make([]DailyTokenPoint, 0, windowDays)
	summary.DailyCosts = make([]DailyCostPoint, 0, windowDays)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		summary.DailyTokenUsage = append(summary.DailyTokenUsage, *dailyTokens[date])
		summary.DailyCosts = append(summary.DailyCosts, *dailyCosts[date])
	}

	return summary, nil
}

// parseMessageDate accepts RFC3339 timestamps, with or without sub-second
// precision.
func parseMessageDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
