package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		name     string
		tokens   int64
		expected string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"thousands", 1_200, "1.2K"},
		{"millions", 3_450_000, "3.5M"},
		{"billions", 1_100_000_000, "1.1B"},
		{"exact_thousand", 1_000, "1.0K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTokens(tt.tokens))
		})
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCost(0))
	assert.Equal(t, "$12.34", FormatCost(12.34))
	assert.Equal(t, "$1234.57", FormatCost(1234.567))
}

func TestFormatDateRange(t *testing.T) {
	assert.Equal(t, "no activity", FormatDateRange("", ""))
	assert.Equal(t, "2025-06-01", FormatDateRange("2025-06-01", "2025-06-01"))
	assert.Equal(t, "2025-06-01 to 2025-06-30", FormatDateRange("2025-06-01", "2025-06-30"))
}
