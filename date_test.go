package plantchart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"DayFirst", "15/03/2026 08:15", time.Date(2026, time.March, 15, 8, 15, 0, 0, time.UTC)},
		{"DayFirstSingleDigits", "5/3/2026 8:05", time.Date(2026, time.March, 5, 8, 5, 0, 0, time.UTC)},
		{"YearFirst", "2026-02-01 13:30", time.Date(2026, time.February, 1, 13, 30, 0, 0, time.UTC)},
		{"YearFirstWithSeconds", "2026-2-1 13:30:45", time.Date(2026, time.February, 1, 13, 30, 0, 0, time.UTC)},
		{"RFC3339", "2026-02-01T10:00:00Z", time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)},
		{"MonthName", "Feb 1, 2026 10:00", time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)},
		{"DayFirstWithSeconds", "03/04/2026 10:00:00", time.Date(2026, time.April, 3, 10, 0, 0, 0, time.UTC)},
		{"Whitespace", "  01/02/2026 09:00  ", time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseDate(tt.input, time.UTC)
			assert.True(t, ok)
			assert.True(t, tt.expected.Equal(result), "expected %s, got %s", tt.expected, result)
		})
	}

	t.Run("MidnightRollsToNextDay", func(t *testing.T) {
		first, ok := ParseDate("01/02/2026 00:00", time.UTC)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), first)

		second, ok := ParseDate("02/02/2026 00:00", time.UTC)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC), second)

		assert.NotEqual(t, first, second)
		assert.Equal(t, "01/02/2026 24:00", FormatEndOfDay(first))
	})

	t.Run("MidnightRollsOnEveryPath", func(t *testing.T) {
		result, ok := ParseDate("2026-02-01 00:00", time.UTC)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), result)

		result, ok = ParseDate("2026-02-01", time.UTC)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC), result)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, input := range []string{"", "   ", "not a date", "32-13"} {
			_, ok := ParseDate(input, time.UTC)
			assert.False(t, ok, input)
		}
	})

	t.Run("NilLocationUsesLocal", func(t *testing.T) {
		result, ok := ParseDate("01/02/2026 09:00", nil)
		assert.True(t, ok)
		assert.Equal(t, time.Local, result.Location())
	})
}

func TestFormatEndOfDay(t *testing.T) {
	assert.Equal(t, "31/12/2025 24:00", FormatEndOfDay(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "01/01/2026 07:45", FormatEndOfDay(time.Date(2026, time.January, 1, 7, 45, 0, 0, time.UTC)))
}
