package plantchart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShiftBands(t *testing.T) {
	day := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("DayWindow", func(t *testing.T) {
		bands := ShiftBands(TimeRange{Start: day.Add(time.Hour), End: day.Add(oneDay)})

		assert.Len(t, bands, 3)
		assert.Equal(t, "Night Shift", bands[0].Name)
		assert.Equal(t, day.Add(time.Hour), bands[0].Start)
		assert.Equal(t, day.Add(8*time.Hour), bands[0].End)
		assert.Equal(t, "Morning Shift", bands[1].Name)
		assert.Equal(t, "Afternoon Shift", bands[2].Name)
		assert.Equal(t, day.Add(oneDay), bands[2].End)
	})

	t.Run("ClippedToWindow", func(t *testing.T) {
		bands := ShiftBands(TimeRange{Start: day.Add(6 * time.Hour), End: day.Add(10 * time.Hour)})

		assert.Len(t, bands, 2)
		assert.Equal(t, day.Add(6*time.Hour), bands[0].Start)
		assert.Equal(t, day.Add(10*time.Hour), bands[1].End)
	})

	t.Run("TwoDays", func(t *testing.T) {
		bands := ShiftBands(TimeRange{Start: day, End: day.Add(2 * oneDay)})
		assert.Len(t, bands, 6)
	})

	t.Run("WideWindowHasNone", func(t *testing.T) {
		assert.Empty(t, ShiftBands(TimeRange{Start: day, End: day.Add(3 * oneDay)}))
	})

	t.Run("MarkArea", func(t *testing.T) {
		bands := ShiftBands(TimeRange{Start: day.Add(time.Hour), End: day.Add(oneDay)})
		area := bands[0].MarkArea()

		assert.Len(t, area, 2)
		assert.Equal(t, "Night Shift", area[0].Name)
		assert.Equal(t, day.Add(time.Hour).Format(time.RFC3339), area[0].XAxis)
	})
}
