package plantchart

import "time"

// ClickResult says what a chart click did
type ClickResult int

const (
	ClickIgnored ClickResult = iota
	ClickMeasured
	ClickDrilled
)

func (c ClickResult) String() string {
	switch c {
	case ClickMeasured:
		return "measured"
	case ClickDrilled:
		return "drilled"
	}
	return "ignored"
}

// Mediator decides which behaviour owns a click on the chart. Measurement
// mode takes every click while active; otherwise a click on a day-level view
// drills into that day. Native pan and zoom never reach the mediator as
// clicks.
type Mediator struct {
	Measurement Measurement
}

// Click dispatches a click at t. When it drills in, the new view is returned.
func (m *Mediator) Click(view *ViewState, t time.Time) (ViewState, ClickResult) {
	if m.Measurement.Active {
		m.Measurement.Click(t)
		if view == nil {
			return ViewState{}, ClickMeasured
		}
		return *view, ClickMeasured
	}

	if view == nil {
		return ViewState{}, ClickIgnored
	}

	next, ok := DrillIn(*view, t)
	if !ok {
		return *view, ClickIgnored
	}
	return next, ClickDrilled
}

// ToggleMeasure switches measurement mode, clearing both points
func (m *Mediator) ToggleMeasure() {
	m.Measurement.Toggle()
}

// Reset returns to the inactive state
func (m *Mediator) Reset() {
	m.Measurement = Measurement{}
}
