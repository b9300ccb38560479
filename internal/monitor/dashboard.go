package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
)

// Model represents the BubbleTea dashboard model
type Model struct {
	fetcher    Fetcher
	serverURL  string
	interval   time.Duration
	lastUpdate time.Time
	snapshot   Snapshot
	err        error
	quitting   bool

	tokenProgress progress.Model
}

// Lipgloss styles. Green accent to match the dashboard web theme.
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("72"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	// Units and secondary info
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// NewModel creates a new dashboard model
func NewModel(fetcher Fetcher, serverURL string, interval time.Duration) Model {
	tokenProg := progress.New(
		progress.WithGradient("#00d787", "#ffff00"),
		progress.WithWidth(40),
	)

	return Model{
		fetcher:       fetcher,
		serverURL:     serverURL,
		interval:      interval,
		tokenProgress: tokenProg,
	}
}

// createSparkline creates a sparkline chart from historical data
func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}

	return sparklineStyle.Render(spark.View())
}

// Message types
type tickMsg time.Time
type snapshotMsg Snapshot
type errMsg error

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		fetchSnapshot(m.fetcher),
	)
}

// tick creates a tick command for auto-refresh
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshot fetches a usage snapshot from the daemon
func fetchSnapshot(fetcher Fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		snap, err := fetcher.Fetch(ctx)
		if err != nil {
			return errMsg(err)
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, fetchSnapshot(m.fetcher)
		}

	case tickMsg:
		// Auto-refresh triggered
		return m, tea.Batch(
			tick(m.interval),
			fetchSnapshot(m.fetcher),
		)

	case snapshotMsg:
		m.snapshot = Snapshot(msg)
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case errMsg:
		m.err = error(msg)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return m.renderError()
	}

	return m.renderDashboard()
}

// renderError renders the error view
func (m Model) renderError() string {
	header := headerStyle.Render(" loglens monitor ")

	var content string
	content += "\n"
	content += errorStyle.Render("⚠ Cannot reach the loglens daemon") + "\n"
	content += "\n"
	content += dimStyle.Render("URL: ") + valueStyle.Render(m.serverURL) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n"
	content += "\n"
	content += dimStyle.Render("Please ensure loglensd is running.") + "\n"
	content += "\n"
	content += footerStyle.Render("[q] quit  [r] retry") + "\n"

	return containerStyle.Render(header + "\n" + content)
}

// renderDashboard renders the main dashboard view with sparklines and progress bars
func (m Model) renderDashboard() string {
	var content string

	lastUpdateStr := "Never"
	if !m.lastUpdate.IsZero() {
		lastUpdateStr = m.lastUpdate.Format("3:04:05 PM")
	}

	header := headerStyle.Render(" loglens monitor ")
	headerLine := fmt.Sprintf("%s %s   %s",
		dimStyle.Render("Updated:"),
		valueStyle.Render(lastUpdateStr),
		dimStyle.Render(m.serverURL))

	content += header + "\n"
	content += headerLine + "\n"

	// Totals section
	snap := m.snapshot
	content += "\n" + sectionStyle.Render("┃ Totals (30 days)") + "\n"
	content += labelStyle.Render("  Projects: ") +
		valueStyle.Render(FormatCount(snap.TotalProjects)) +
		labelStyle.Render("   Commands: ") +
		valueStyle.Render(FormatCount(snap.TotalCommands)) + "\n"
	content += labelStyle.Render("  Input tokens: ") +
		valueStyle.Render(FormatTokens(snap.TotalInputTokens)) +
		labelStyle.Render("   Output tokens: ") +
		valueStyle.Render(FormatTokens(snap.TotalOutputTokens)) + "\n"
	content += labelStyle.Render("  Cache read: ") +
		valueStyle.Render(FormatTokens(snap.TotalCacheReadTokens)) +
		labelStyle.Render("   Cache write: ") +
		valueStyle.Render(FormatTokens(snap.TotalCacheWriteTokens)) + "\n"
	content += labelStyle.Render("  Cost: ") +
		valueStyle.Render(FormatCost(snap.TotalCost)) +
		"   " + dimStyle.Render(FormatDateRange(snap.FirstUseDate, snap.LastUseDate)) + "\n"

	// Token activity section with sparkline
	content += "\n" + sectionStyle.Render("┃ Daily Tokens") + "\n"
	content += labelStyle.Render("  Trend: ") + createSparkline(snap.DailyTokens) + "\n"

	// Today's volume relative to the busiest day in the window
	todayTokens := lastValue(snap.DailyTokens)
	peakTokens := peak(snap.DailyTokens)
	todayPercent := 0.0
	if peakTokens > 0 {
		todayPercent = todayTokens / peakTokens
	}
	content += labelStyle.Render("  Today vs peak: ") +
		m.tokenProgress.ViewAs(todayPercent) +
		" " + dimStyle.Render(FormatTokens(int64(todayTokens))) + "\n"

	// Cost section with sparkline
	content += "\n" + sectionStyle.Render("┃ Daily Cost") + "\n"
	content += labelStyle.Render("  Trend: ") + createSparkline(snap.DailyCosts) + "\n"
	content += labelStyle.Render("  Today: ") +
		valueStyle.Render(FormatCost(lastValue(snap.DailyCosts))) + "\n"

	content += footerStyle.Render("[q] quit  [r] refresh") + "\n"

	return containerStyle.Render(content)
}
