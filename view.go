package plantchart

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Granularity is the display resolution of the visible window
type Granularity string

const (
	GranularityHour Granularity = "hour"
	GranularityDay  Granularity = "day"
)

const (
	oneDay = 24 * time.Hour

	// allPadFraction pads the "all" preset on both sides, but never by less
	// than minAllPad
	allPadFraction = 0.02
	minAllPad      = time.Hour

	hourViewLimit = 3 * oneDay
	wheelFraction = 0.1
)

// ViewState is the visible time window
type ViewState struct {
	Min         time.Time
	Max         time.Time
	Granularity Granularity
}

// Range returns the window as a TimeRange
func (v ViewState) Range() TimeRange {
	return TimeRange{Start: v.Min, End: v.Max}
}

func (v ViewState) Width() time.Duration {
	return v.Max.Sub(v.Min)
}

// isDayWindow is true for windows of roughly one day, which covers both the
// 01:00-24:00 view and a full midnight-to-midnight drill-in
func (v ViewState) isDayWindow() bool {
	w := v.Width()
	return w > 22*time.Hour && w < 26*time.Hour
}

func (v ViewState) isMonthWindow() bool {
	w := v.Width()
	return w > 25*oneDay && w < 35*oneDay
}

// dayWindow is the 01:00 to 24:00 view of the day starting at midnight
func dayWindow(midnight time.Time) ViewState {
	return ViewState{
		Min:         midnight.Add(time.Hour),
		Max:         midnight.AddDate(0, 0, 1),
		Granularity: GranularityHour,
	}
}

// PresetKind selects a zoom preset
type PresetKind int

const (
	PresetAll PresetKind = iota
	PresetMonth
	PresetDay
	PresetHours
)

// Preset is a parsed zoom token
type Preset struct {
	Kind  PresetKind
	Hours int
}

// ParsePreset accepts "all", "month", "day", "24h", or a number of hours.
// 24 and 720 hours are the day and month presets.
func ParsePreset(token string) (Preset, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	switch token {
	case "all":
		return Preset{Kind: PresetAll}, nil
	case "month", "1m", "720", "720h":
		return Preset{Kind: PresetMonth}, nil
	case "day", "1d", "24", "24h":
		return Preset{Kind: PresetDay}, nil
	}

	hours, err := strconv.Atoi(strings.TrimSuffix(token, "h"))
	if err != nil || hours <= 0 {
		return Preset{}, fmt.Errorf("%w: %q", ErrInvalidPreset, token)
	}
	return Preset{Kind: PresetHours, Hours: hours}, nil
}

// ZoomPreset computes the window for a preset. The window is anchored on the
// centre of the current view, or on the last record when there is none.
func ZoomPreset(current *ViewState, data *Dataset, p Preset) (ViewState, error) {
	if data.Empty() {
		return ViewState{}, ErrNoData
	}

	center := data.Last()
	if current != nil && !current.Min.IsZero() && !current.Max.IsZero() {
		center = current.Range().Center()
	}

	switch p.Kind {
	case PresetAll:
		span := data.Span()
		pad := max(time.Duration(float64(span.Duration())*allPadFraction), minAllPad)
		return ViewState{
			Min:         span.Start.Add(-pad),
			Max:         span.End.Add(pad),
			Granularity: GranularityDay,
		}, nil
	case PresetMonth:
		start := startOfMonth(center)
		return ViewState{
			Min:         start,
			Max:         start.AddDate(0, 1, 0),
			Granularity: GranularityDay,
		}, nil
	case PresetDay:
		return dayWindow(startOfDay(center)), nil
	case PresetHours:
		width := time.Duration(p.Hours) * time.Hour
		start := startOfDay(center.Add(-width / 2))
		return ViewState{
			Min:         start,
			Max:         start.Add(width),
			Granularity: GranularityDay,
		}, nil
	}
	return ViewState{}, fmt.Errorf("%w: kind %d", ErrInvalidPreset, p.Kind)
}

// ApplyRange builds the window for a user-selected date range. Both dates are
// whole days and end is inclusive; a nil end selects the single start day.
// The window opens at 01:00 of the start day and closes at the midnight
// after the end day.
func ApplyRange(start time.Time, end *time.Time) (ViewState, error) {
	startDay := startOfDay(start)
	endDay := startDay
	if end != nil {
		endDay = startOfDay(end.In(start.Location()))
	}
	if startDay.After(endDay) {
		return ViewState{}, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, startDay.Format(time.DateOnly), endDay.Format(time.DateOnly))
	}

	closing := endDay.AddDate(0, 0, 1)
	granularity := GranularityDay
	if closing.Sub(startDay) < hourViewLimit {
		granularity = GranularityHour
	}

	return ViewState{
		Min:         startDay.Add(time.Hour),
		Max:         closing,
		Granularity: granularity,
	}, nil
}

// DrillIn narrows a day-granularity view to the calendar day containing t.
// It returns false when the view is not at day granularity.
func DrillIn(current ViewState, t time.Time) (ViewState, bool) {
	if current.Granularity != GranularityDay {
		return current, false
	}
	midnight := startOfDay(t)
	return ViewState{
		Min:         midnight,
		Max:         midnight.AddDate(0, 0, 1),
		Granularity: GranularityHour,
	}, true
}

// WheelStep moves the window one step in direction (sign only). Day-wide
// windows step by a calendar day, month-wide windows by a calendar month and
// anything else by a tenth of its width. A step that would leave the data
// entirely is rejected.
func WheelStep(current ViewState, data *Dataset, direction int) (ViewState, bool) {
	dir := sign(direction)
	if dir == 0 || data.Empty() {
		return current, false
	}

	var next ViewState
	switch {
	case current.isDayWindow():
		anchor := startOfDay(current.Min).AddDate(0, 0, dir)
		next = dayWindow(anchor)
		next.Granularity = current.Granularity
	case current.isMonthWindow():
		start := startOfMonth(current.Min).AddDate(0, dir, 0)
		next = ViewState{
			Min:         start,
			Max:         start.AddDate(0, 1, 0),
			Granularity: current.Granularity,
		}
	default:
		shift := time.Duration(float64(current.Width())*wheelFraction) * time.Duration(dir)
		next = ViewState{
			Min:         current.Min.Add(shift),
			Max:         current.Max.Add(shift),
			Granularity: current.Granularity,
		}
	}

	if next.Max.Before(data.First()) || next.Min.After(data.Last()) {
		return current, false
	}
	return next, true
}

// SetWindow accepts a window reported by the chart's own pan or zoom. The
// granularity is kept.
func SetWindow(current ViewState, minT, maxT time.Time) (ViewState, error) {
	if !minT.Before(maxT) {
		return current, fmt.Errorf("%w: %s to %s", ErrInvalidWindow, minT.Format(time.RFC3339), maxT.Format(time.RFC3339))
	}
	granularity := current.Granularity
	if granularity == "" {
		granularity = GranularityDay
	}
	return ViewState{Min: minT, Max: maxT, Granularity: granularity}, nil
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
