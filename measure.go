package plantchart

import (
	"fmt"
	"time"
)

// MeasureState is the phase of the two-click time measurement
type MeasureState int

const (
	MeasureInactive MeasureState = iota
	MeasureAwaitingFirst
	MeasureAwaitingSecond
	MeasureComplete
)

func (s MeasureState) String() string {
	switch s {
	case MeasureAwaitingFirst:
		return "awaiting-first"
	case MeasureAwaitingSecond:
		return "awaiting-second"
	case MeasureComplete:
		return "complete"
	}
	return "inactive"
}

// Measurement holds the endpoints of a time measurement
type Measurement struct {
	Active bool
	First  *time.Time
	Second *time.Time
}

func (m Measurement) State() MeasureState {
	switch {
	case !m.Active:
		return MeasureInactive
	case m.First == nil:
		return MeasureAwaitingFirst
	case m.Second == nil:
		return MeasureAwaitingSecond
	}
	return MeasureComplete
}

// Toggle switches measurement mode and clears both points
func (m *Measurement) Toggle() {
	m.Active = !m.Active
	m.First = nil
	m.Second = nil
}

// Click records t as the next endpoint. A click after a completed
// measurement starts a new one. It returns false when inactive.
func (m *Measurement) Click(t time.Time) bool {
	switch m.State() {
	case MeasureInactive:
		return false
	case MeasureAwaitingSecond:
		m.Second = &t
	default:
		m.First = &t
		m.Second = nil
	}
	return true
}

// Elapsed is |Second - First| rounded to the nearest minute
func (m Measurement) Elapsed() (time.Duration, bool) {
	if m.State() != MeasureComplete {
		return 0, false
	}
	d := m.Second.Sub(*m.First)
	if d < 0 {
		d = -d
	}
	return d.Round(time.Minute), true
}

// Guidance is the status text shown next to the measurement toggle
func (m Measurement) Guidance() string {
	switch m.State() {
	case MeasureAwaitingFirst:
		return "Click on chart to start..."
	case MeasureAwaitingSecond:
		return "Select end point..."
	case MeasureComplete:
		d, _ := m.Elapsed()
		return "Diff: " + FormatElapsed(d)
	}
	return ""
}

// FormatElapsed renders a duration as "2d 0h", "3h 30m" or "45 mins". Days
// drop the minutes; zero days and hours fall back to minutes only.
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d / oneDay)
	hours := int((d % oneDay) / time.Hour)
	mins := int((d % time.Hour) / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%d mins", mins)
}
