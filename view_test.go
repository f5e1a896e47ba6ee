package plantchart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datasetAt(times ...time.Time) *Dataset {
	records := make([]Record, len(times))
	for i, t := range times {
		records[i] = Record{Time: t, Power: 10, Steam: 20}
	}
	return NewDataset(records)
}

func hourly(start time.Time, n int) *Dataset {
	times := make([]time.Time, n)
	for i := range n {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return datasetAt(times...)
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input    string
		expected Preset
	}{
		{"all", Preset{Kind: PresetAll}},
		{"Month", Preset{Kind: PresetMonth}},
		{"720", Preset{Kind: PresetMonth}},
		{"24h", Preset{Kind: PresetDay}},
		{"day", Preset{Kind: PresetDay}},
		{"6", Preset{Kind: PresetHours, Hours: 6}},
		{"12h", Preset{Kind: PresetHours, Hours: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePreset(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		for _, input := range []string{"", "week", "-3", "0"} {
			_, err := ParsePreset(input)
			assert.ErrorIs(t, err, ErrInvalidPreset, input)
		}
	})
}

func TestZoomPreset(t *testing.T) {
	t.Run("AllSinglePointIsPadded", func(t *testing.T) {
		point := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
		view, err := ZoomPreset(nil, datasetAt(point), Preset{Kind: PresetAll})
		assert.NoError(t, err)

		assert.Equal(t, point.Add(-time.Hour), view.Min)
		assert.Equal(t, point.Add(time.Hour), view.Max)
		assert.Equal(t, GranularityDay, view.Granularity)
	})

	t.Run("AllLongSpanPadsByFraction", func(t *testing.T) {
		start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(100 * oneDay)
		view, err := ZoomPreset(nil, datasetAt(start, end), Preset{Kind: PresetAll})
		assert.NoError(t, err)

		assert.Equal(t, start.Add(-2*oneDay), view.Min)
		assert.Equal(t, end.Add(2*oneDay), view.Max)
	})

	t.Run("Month", func(t *testing.T) {
		data := hourly(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 48)
		current := ViewState{
			Min: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			Max: time.Date(2026, time.February, 12, 0, 0, 0, 0, time.UTC),
		}
		view, err := ZoomPreset(&current, data, Preset{Kind: PresetMonth})
		assert.NoError(t, err)

		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), view.Min)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), view.Max)
		assert.Equal(t, GranularityDay, view.Granularity)
	})

	t.Run("Day", func(t *testing.T) {
		data := hourly(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 48)
		current := ViewState{
			Min: time.Date(2026, time.February, 11, 6, 0, 0, 0, time.UTC),
			Max: time.Date(2026, time.February, 11, 8, 0, 0, 0, time.UTC),
		}
		view, err := ZoomPreset(&current, data, Preset{Kind: PresetDay})
		assert.NoError(t, err)

		assert.Equal(t, time.Date(2026, time.February, 11, 1, 0, 0, 0, time.UTC), view.Min)
		assert.Equal(t, time.Date(2026, time.February, 12, 0, 0, 0, 0, time.UTC), view.Max)
		assert.Equal(t, GranularityHour, view.Granularity)
	})

	t.Run("Hours", func(t *testing.T) {
		data := hourly(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 48)
		current := ViewState{
			Min: time.Date(2026, time.February, 11, 10, 0, 0, 0, time.UTC),
			Max: time.Date(2026, time.February, 11, 14, 0, 0, 0, time.UTC),
		}
		view, err := ZoomPreset(&current, data, Preset{Kind: PresetHours, Hours: 6})
		assert.NoError(t, err)

		assert.Equal(t, time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC), view.Min)
		assert.Equal(t, time.Date(2026, time.February, 11, 6, 0, 0, 0, time.UTC), view.Max)
	})

	t.Run("NoData", func(t *testing.T) {
		_, err := ZoomPreset(nil, nil, Preset{Kind: PresetAll})
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestApplyRange(t *testing.T) {
	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("SingleDay", func(t *testing.T) {
		view, err := ApplyRange(start, nil)
		assert.NoError(t, err)

		assert.Equal(t, start.Add(time.Hour), view.Min)
		assert.Equal(t, start.AddDate(0, 0, 1), view.Max)
		assert.Equal(t, GranularityHour, view.Granularity)
	})

	t.Run("EndInclusive", func(t *testing.T) {
		end := start.AddDate(0, 0, 6)
		view, err := ApplyRange(start, &end)
		assert.NoError(t, err)

		assert.Equal(t, start.AddDate(0, 0, 7), view.Max)
		assert.Equal(t, GranularityDay, view.Granularity)
	})

	t.Run("SameDayIsValid", func(t *testing.T) {
		end := start.Add(15 * time.Hour)
		_, err := ApplyRange(start, &end)
		assert.NoError(t, err)
	})

	t.Run("StartAfterEnd", func(t *testing.T) {
		end := start.AddDate(0, 0, -1)
		_, err := ApplyRange(start, &end)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestDrillIn(t *testing.T) {
	click := time.Date(2026, time.February, 5, 14, 20, 0, 0, time.UTC)

	t.Run("DayGranularity", func(t *testing.T) {
		current := ViewState{Granularity: GranularityDay}
		view, ok := DrillIn(current, click)
		assert.True(t, ok)

		assert.Equal(t, time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC), view.Min)
		assert.Equal(t, time.Date(2026, time.February, 6, 0, 0, 0, 0, time.UTC), view.Max)
		assert.Equal(t, GranularityHour, view.Granularity)
	})

	t.Run("HourGranularityIgnored", func(t *testing.T) {
		current := ViewState{Granularity: GranularityHour}
		view, ok := DrillIn(current, click)
		assert.False(t, ok)
		assert.Equal(t, current, view)
	})
}

func TestWheelStep(t *testing.T) {
	data := hourly(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 24*90)

	t.Run("DayWindowStepsCalendarDay", func(t *testing.T) {
		current := ViewState{
			Min:         time.Date(2026, time.February, 1, 1, 0, 0, 0, time.UTC),
			Max:         time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC),
			Granularity: GranularityHour,
		}
		next, ok := WheelStep(current, data, 1)
		assert.True(t, ok)

		assert.Equal(t, time.Date(2026, time.February, 2, 1, 0, 0, 0, time.UTC), next.Min)
		assert.Equal(t, time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC), next.Max)
		assert.Equal(t, GranularityHour, next.Granularity)

		prev, ok := WheelStep(current, data, -3)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2026, time.January, 31, 1, 0, 0, 0, time.UTC), prev.Min)
	})

	t.Run("MonthWindowStepsCalendarMonth", func(t *testing.T) {
		current := ViewState{
			Min:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Max:         time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			Granularity: GranularityDay,
		}
		next, ok := WheelStep(current, data, 1)
		assert.True(t, ok)

		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), next.Min)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), next.Max)
	})

	t.Run("OtherWidthsShiftByTenth", func(t *testing.T) {
		current := ViewState{
			Min:         time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			Max:         time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC),
			Granularity: GranularityDay,
		}
		next, ok := WheelStep(current, data, 1)
		assert.True(t, ok)

		assert.Equal(t, current.Min.Add(oneDay), next.Min)
		assert.Equal(t, current.Max.Add(oneDay), next.Max)
	})

	t.Run("RejectedOutsideData", func(t *testing.T) {
		current := ViewState{
			Min:         time.Date(2025, time.December, 30, 1, 0, 0, 0, time.UTC),
			Max:         time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			Granularity: GranularityHour,
		}
		next, ok := WheelStep(current, data, -1)
		assert.False(t, ok)
		assert.Equal(t, current, next)
	})

	t.Run("ZeroDirection", func(t *testing.T) {
		current := ViewState{Min: data.First(), Max: data.Last()}
		_, ok := WheelStep(current, data, 0)
		assert.False(t, ok)
	})
}

func TestSetWindow(t *testing.T) {
	current := ViewState{Granularity: GranularityHour}
	minT := time.Date(2026, time.February, 1, 3, 0, 0, 0, time.UTC)
	maxT := minT.Add(5 * time.Hour)

	view, err := SetWindow(current, minT, maxT)
	assert.NoError(t, err)
	assert.Equal(t, ViewState{Min: minT, Max: maxT, Granularity: GranularityHour}, view)

	_, err = SetWindow(current, maxT, minT)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
