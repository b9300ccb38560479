package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loglenshq/loglens/internal/project"
)

// mapSource serves canned stats keyed by dir name.
type mapSource struct {
	stats map[string]*ProjectStats
}

func (s *mapSource) Stats(ctx context.Context, p *project.Project) (*ProjectStats, error) {
	stats, ok := s.stats[p.DirName]
	if !ok {
		return nil, errors.New("no stats")
	}
	return stats, nil
}

func fakeProject(dirName string) *project.Project {
	return &project.Project{DirName: dirName, LogDirName: "-" + dirName}
}

func fixedAggregator(source Source, now time.Time) *Aggregator {
	a := NewAggregator(source, zap.NewNop())
	a.now = func() time.Time { return now }
	return a
}

func TestGlobal(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	source := &mapSource{stats: map[string]*ProjectStats{
		"alpha": {
			Overview: Overview{
				TotalTokens: TokenTotals{Input: 100, Output: 50, CacheRead: 10, CacheCreation: 5},
				TotalCost:   1.5,
			},
			UserInteractions: UserInteractions{CommandsAnalyzed: 7},
			DailyStats: map[string]DayStats{
				"2025-06-29": {
					Tokens: DayTokens{Input: 40, Output: 20},
					Cost: DayCost{
						Total: 0.5,
						ByModel: map[string]ModelCost{
							"opus": {InputCost: 0.2, OutputCost: 0.2, CacheReadCost: 0.05, CacheCreationCost: 0.05},
						},
					},
				},
				// Outside the 30-day window: all-time totals only.
				"2025-01-01": {Tokens: DayTokens{Input: 999, Output: 999}},
			},
			FirstMessageDate: "2025-01-01T08:00:00Z",
			LastMessageDate:  "2025-06-29T17:30:00Z",
		},
		"beta": {
			Overview: Overview{
				TotalTokens: TokenTotals{Input: 30, Output: 20},
				TotalCost:   0.25,
			},
			UserInteractions: UserInteractions{CommandsAnalyzed: 3},
			DailyStats: map[string]DayStats{
				"2025-06-29": {Tokens: DayTokens{Input: 10, Output: 5}, Cost: DayCost{Total: 0.25}},
			},
			FirstMessageDate: "2025-03-15T09:00:00Z",
			LastMessageDate:  "2025-06-29T18:00:00Z",
		},
	}}

	a := fixedAggregator(source, now)
	projects := []*project.Project{fakeProject("alpha"), fakeProject("beta"), fakeProject("gamma")}

	summary, err := a.Global(context.Background(), projects)
	require.NoError(t, err)

	// gamma has no stats and is skipped, but still counts as a project.
	assert.Equal(t, 3, summary.TotalProjects)
	assert.Equal(t, int64(130), summary.TotalInputTokens)
	assert.Equal(t, int64(70), summary.TotalOutputTokens)
	assert.Equal(t, int64(10), summary.TotalCacheReadTokens)
	assert.Equal(t, int64(5), summary.TotalCacheWriteTokens)
	assert.Equal(t, 10, summary.TotalCommands)
	assert.InDelta(t, 1.75, summary.TotalCost, 1e-9)
	assert.Equal(t, "2025-01-01T08:00:00Z", summary.FirstUseDate)
	assert.Equal(t, "2025-06-29T18:00:00Z", summary.LastUseDate)

	require.Len(t, summary.DailyTokenUsage, 30)
	require.Len(t, summary.DailyCosts, 30)
	assert.Equal(t, "2025-06-01", summary.DailyTokenUsage[0].Date)
	assert.Equal(t, "2025-06-30", summary.DailyTokenUsage[29].Date)

	day := summary.DailyTokenUsage[28] // 2025-06-29
	assert.Equal(t, int64(50), day.Input)
	assert.Equal(t, int64(25), day.Output)

	cost := summary.DailyCosts[28]
	assert.InDelta(t, 0.75, cost.Cost, 1e-9)
	assert.InDelta(t, 0.2, cost.InputCost, 1e-9)
	assert.InDelta(t, 0.2, cost.OutputCost, 1e-9)
	assert.InDelta(t, 0.1, cost.CacheCost, 1e-9)

	// Days without data are zero-filled, not absent.
	assert.Equal(t, int64(0), summary.DailyTokenUsage[0].Input)
	assert.InDelta(t, 0.0, summary.DailyCosts[0].Cost, 1e-9)
}

func TestGlobalEmpty(t *testing.T) {
	a := fixedAggregator(&mapSource{}, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	summary, err := a.Global(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalProjects)
	assert.Empty(t, summary.FirstUseDate)
	assert.Len(t, summary.DailyTokenUsage, 30)
}

func TestGlobalWestOfUTCClock(t *testing.T) {
	// Mid-morning on June 30 in a UTC-7 zone. The window must still end on
	// the clock's calendar date, not on the UTC-truncated instant.
	zone := time.FixedZone("PDT", -7*60*60)
	now := time.Date(2025, 6, 30, 10, 0, 0, 0, zone)

	source := &mapSource{stats: map[string]*ProjectStats{
		"alpha": {
			Overview: Overview{TotalTokens: TokenTotals{Input: 42}},
			DailyStats: map[string]DayStats{
				"2025-06-30": {Tokens: DayTokens{Input: 42}, Cost: DayCost{Total: 0.1}},
			},
		},
	}}

	a := fixedAggregator(source, now)
	summary, err := a.Global(context.Background(), []*project.Project{fakeProject("alpha")})
	require.NoError(t, err)

	require.Len(t, summary.DailyTokenUsage, 30)
	last := summary.DailyTokenUsage[29]
	assert.Equal(t, "2025-06-30", last.Date)
	assert.Equal(t, int64(42), last.Input)
	assert.Equal(t, "2025-06-01", summary.DailyTokenUsage[0].Date)
	assert.InDelta(t, 0.1, summary.DailyCosts[29].Cost, 1e-9)
}

func TestRollup(t *testing.T) {
	source := &mapSource{stats: map[string]*ProjectStats{
		"alpha": {Overview: Overview{TotalTokens: TokenTotals{Input: 10}}},
	}}
	a := fixedAggregator(source, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

	summary, err := a.Rollup(context.Background(), "q3-report", []*project.Project{fakeProject("alpha")})
	require.NoError(t, err)

	assert.Equal(t, "q3-report", summary.Rollup)
	assert.Equal(t, 1, summary.TotalProjects)
	assert.Equal(t, int64(10), summary.TotalInputTokens)
}

func TestParseMessageDate(t *testing.T) {
	_, ok := parseMessageDate("")
	assert.False(t, ok)

	_, ok = parseMessageDate("yesterday")
	assert.False(t, ok)

	ts, ok := parseMessageDate("2025-06-29T17:30:00.123Z")
	require.True(t, ok)
	assert.Equal(t, 2025, ts.Year())
}
