package monitor

import (
	"context"
	"time"

	"github.com/loglenshq/loglens/internal/client"
	"github.com/loglenshq/loglens/internal/stats"
)

// Snapshot holds the aggregated usage data displayed by the dashboard.
type Snapshot struct {
	TotalProjects         int
	TotalInputTokens      int64
	TotalOutputTokens     int64
	TotalCacheReadTokens  int64
	TotalCacheWriteTokens int64
	TotalCommands         int
	TotalCost             float64
	FirstUseDate          string
	LastUseDate           string

	// Per-day input+output token counts for the trailing window,
	// oldest first.
	DailyTokens []float64
	DailyCosts  []float64
	DailyDates  []string
}

// Fetcher retrieves a usage snapshot from the daemon.
type Fetcher interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// ClientFetcher fetches snapshots over the daemon HTTP API.
type ClientFetcher struct {
	client *client.Client
}

// NewClientFetcher creates a fetcher backed by the given API client.
func NewClientFetcher(c *client.Client) *ClientFetcher {
	return &ClientFetcher{client: c}
}

// Fetch retrieves global stats and flattens them into a Snapshot.
func (f *ClientFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	summary, err := f.client.GlobalStats(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshotFromSummary(summary), nil
}

func snapshotFromSummary(s *stats.Summary) Snapshot {
	snap := Snapshot{
		TotalProjects:         s.TotalProjects,
		TotalInputTokens:      s.TotalInputTokens,
		TotalOutputTokens:     s.TotalOutputTokens,
		TotalCacheReadTokens:  s.TotalCacheReadTokens,
		TotalCacheWriteTokens: s.TotalCacheWriteTokens,
		TotalCommands:         s.TotalCommands,
		TotalCost:             s.TotalCost,
		FirstUseDate:          s.FirstUseDate,
		LastUseDate:           s.LastUseDate,
		DailyTokens:           make([]float64, 0, len(s.DailyTokenUsage)),
		DailyCosts:            make([]float64, 0, len(s.DailyCosts)),
		DailyDates:            make([]string, 0, len(s.DailyTokenUsage)),
	}
	for _, p := range s.DailyTokenUsage {
		snap.DailyTokens = append(snap.DailyTokens, float64(p.Input+p.Output))
		snap.DailyDates = append(snap.DailyDates, p.Date)
	}
	for _, p := range s.DailyCosts {
		snap.DailyCosts = append(snap.DailyCosts, p.Cost)
	}
	return snap
}

// peak returns the largest value in data, or 0 for empty input.
func peak(data []float64) float64 {
	var max float64
	for _, v := range data {
		if v > max {
			max = v
		}
	}
	return max
}

// lastValue returns the final element of data, or 0 for empty input.
func lastValue(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return data[len(data)-1]
}

var _ Fetcher = (*ClientFetcher)(nil)

// fetchTimeout bounds a single snapshot request.
const fetchTimeout = 5 * time.Second
