package monitor

import "fmt"

// FormatTokens formats a token count as "1.2K" / "3.4M" / "1.1B".
func FormatTokens(n int64) string {
	const (
		thousand = 1_000
		million  = 1_000_000
		billion  = 1_000_000_000
	)

	switch {
	case n >= billion:
		return fmt.Sprintf("%.1fB", float64(n)/float64(billion))
	case n >= million:
		return fmt.Sprintf("%.1fM", float64(n)/float64(million))
	case n >= thousand:
		return fmt.Sprintf("%.1fK", float64(n)/float64(thousand))
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatCost formats a dollar amount as "$12.34".
func FormatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}

// FormatCount formats an integer with no abbreviation.
func FormatCount(n int) string {
	return fmt.Sprintf("%d", n)
}

// FormatDateRange formats a first/last usage date pair for display.
func FormatDateRange(first, last string) string {
	if first == "" && last == "" {
		return "no activity"
	}
	if first == last {
		return first
	}
	return fmt.Sprintf("%s to %s", first, last)
}
