package plantchart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCodeStyle(t *testing.T) {
	assert.Equal(t, MarkerStyle{"circle", "#22c55e"}, CodeStyle(1))
	assert.Equal(t, MarkerStyle{"diamond", "#ef4444"}, CodeStyle(4))
	assert.Equal(t, genericMarker, CodeStyle(0))
	assert.Equal(t, genericMarker, CodeStyle(9))
}

func TestBuildFrame(t *testing.T) {
	start := time.Date(2026, time.February, 1, 1, 0, 0, 0, time.UTC)
	data := NewDataset([]Record{
		{Time: start, Steam: 50, Power: 10, Soot: 1},
		{Time: start.Add(time.Hour), Steam: 55, Power: 12, ProblemValue: ProblemFlagValue, ProblemText: "Problem", ProblemCodes: []int{2, 4}},
		{Time: start.Add(2 * time.Hour), Steam: 60, Power: 14, ProblemValue: ProblemFlagValue, ProblemText: "Boiler trip", ProblemCodes: []int{}},
	})
	view := ViewState{Min: start, Max: start.Add(23 * time.Hour), Granularity: GranularityHour}
	threshold := 45.0
	first := start.Add(30 * time.Minute)
	second := start.Add(2 * time.Hour)

	st := State{
		View:      &view,
		Axes:      ComputeAxisScales(data.Records()),
		Threshold: &threshold,
		Hidden:    defaultHidden(),
		Measurement: Measurement{
			Active: true,
			First:  &first,
			Second: &second,
		},
	}

	frame := BuildFrame(data, st, true)

	t.Run("Series", func(t *testing.T) {
		assert.Len(t, frame.Series, 7)
		assert.Equal(t, "steam", frame.Series[0].Key)
		assert.False(t, frame.Series[0].Hidden)
		assert.Len(t, frame.Series[0].Points, 3)

		rgf := frame.Series[2]
		assert.Equal(t, "rgf", rgf.Key)
		assert.True(t, rgf.Hidden)
		assert.True(t, rgf.Dashed)
	})

	t.Run("Markers", func(t *testing.T) {
		assert.Len(t, frame.Soot, 1)
		assert.Equal(t, sootMarkerValue, frame.Soot[0].Value)

		assert.Len(t, frame.Problems, 3)
		assert.Equal(t, 2, frame.Problems[0].Code)
		assert.InDelta(t, 1.1, frame.Problems[0].Value, 1e-9)
		assert.Equal(t, 4, frame.Problems[1].Code)
		assert.InDelta(t, 1.15, frame.Problems[1].Value, 1e-9)
		assert.Equal(t, frame.Problems[0].Time, frame.Problems[1].Time)

		assert.Equal(t, 0, frame.Problems[2].Code)
		assert.Equal(t, "Boiler trip", frame.Problems[2].Label)
	})

	t.Run("Overlays", func(t *testing.T) {
		assert.Len(t, frame.Shifts, 3)
		assert.Equal(t, "Lim: 45 MW", frame.Threshold.Label)
		assert.Equal(t, first, frame.Measure.First)
		assert.Equal(t, "1h 30m", frame.Measure.Label)
	})

	t.Run("Chart", func(t *testing.T) {
		chart, err := frame.Chart()
		assert.NoError(t, err)

		var buf bytes.Buffer
		err = chart.Render(&buf)
		assert.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Export Power (MW)")
		assert.Contains(t, out, "Lim: 45 MW")
		assert.Contains(t, out, "Night Shift")
		assert.Contains(t, out, "1h 30m")
	})

	t.Run("YAxes", func(t *testing.T) {
		axes := frame.extraYAxes()
		assert.Len(t, axes, len(axisOrder)-1)

		var shownRight []string
		for i, a := range axes {
			assert.Equal(t, frame.Axes.Max(axisOrder[i+1]), a.Max)
			if a.Show != nil && *a.Show && a.Position == "right" {
				shownRight = append(shownRight, a.Name)
			}
		}
		assert.Equal(t, []string{"Power (MW)"}, shownRight)

		steam := frame.yAxis(AxisSteam, "Steam (t/h)", "left", true)
		assert.Equal(t, frame.Axes.Steam, steam.Max)
		assert.True(t, *steam.Show)
	})

	t.Run("NoThresholdOrMeasurement", func(t *testing.T) {
		st := st
		st.Threshold = nil
		st.Measurement = Measurement{}

		frame := BuildFrame(data, st, false)
		assert.Nil(t, frame.Threshold)
		assert.Nil(t, frame.Measure)
	})

	t.Run("AwaitingSecond", func(t *testing.T) {
		st := st
		st.Measurement = Measurement{Active: true, First: &first}

		frame := BuildFrame(data, st, false)
		assert.NotNil(t, frame.Measure)
		assert.Nil(t, frame.Measure.Second)
	})
}

func TestSeriesList(t *testing.T) {
	list := SeriesList()
	assert.Len(t, list, len(seriesDefs))
	assert.Equal(t, SeriesInfo{Key: "steam", Label: "Steam to Turbine (t/h)"}, list[0])

	_, ok := seriesByKey("power")
	assert.True(t, ok)
	_, ok = seriesByKey("bogus")
	assert.False(t, ok)
}
