package plantchart

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

const (
	headerPrompt = "Please open a CSV file to begin analysis"
	headerReset  = "Dashboard Reset. Please open a CSV file."
)

// Config holds the policies a dashboard session runs with
type Config struct {
	// Location is used for dates without an offset and for day boundaries
	Location *time.Location
	// AxisPolicy selects whether axes scale to all data or the visible window
	AxisPolicy AxisPolicy
	// Selectable is the metric shown as the third KPI
	Selectable Metric
	// HideMarkerTooltips keeps soot and problem markers out of tooltips
	HideMarkerTooltips bool
	// SampleLabel, when set, replaces the header and pins it. Navigation and
	// loads never overwrite a pinned header.
	SampleLabel string
}

// DefaultConfig returns the configuration used by the dashboard server
func DefaultConfig() Config {
	return Config{
		Location:           time.Local,
		AxisPolicy:         AxisPolicyDataset,
		Selectable:         MetricTempCombustion,
		HideMarkerTooltips: true,
	}
}

// Session is the state of one dashboard: the loaded dataset, the visible
// window, the measurement tool, the threshold and the legend. Every
// navigation goes through one mutate-then-rederive path so KPIs, axes and
// the header always describe the current window.
type Session struct {
	mu sync.Mutex

	cfg Config

	data      *Dataset
	view      *ViewState
	mediator  Mediator
	threshold *float64
	hidden    map[string]bool

	kpis   KPIs
	axes   AxisScales
	header string
	pinned bool
	source string
	report LoadReport

	loadToken xid.ID
	revision  int
}

// NewSession creates an empty session
func NewSession(cfg Config) *Session {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.AxisPolicy == "" {
		cfg.AxisPolicy = AxisPolicyDataset
	}
	if cfg.Selectable == "" {
		cfg.Selectable = MetricTempCombustion
	}

	s := &Session{
		cfg:    cfg,
		hidden: defaultHidden(),
		header: headerPrompt,
	}
	if cfg.SampleLabel != "" {
		s.header = cfg.SampleLabel
		s.pinned = true
	}
	return s
}

func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// BeginLoad starts a load and returns its token. Starting another load makes
// earlier tokens stale.
func (s *Session) BeginLoad() xid.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadToken = xid.New()
	return s.loadToken
}

// CommitLoad replaces the dataset with records parsed for token. The prior
// state is kept when the token is stale or no records survived.
func (s *Session) CommitLoad(token xid.ID, records []Record, report LoadReport, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.loadToken {
		return ErrStaleLoad
	}
	if len(records) == 0 {
		return ErrNoValidRows
	}

	s.data = NewDataset(records)
	s.report = report
	s.source = source

	view, err := ZoomPreset(nil, s.data, Preset{Kind: PresetAll})
	if err != nil {
		return err
	}
	s.setView(view)

	log.Info().
		Str("source", source).
		Int("rows", report.Rows).
		Int("kept", report.Kept).
		Int("dropped", report.Dropped).
		Msg("loaded dataset")

	return nil
}

// Load parses CSV input and replaces the dataset
func (s *Session) Load(r io.Reader, source string) (LoadReport, error) {
	token := s.BeginLoad()

	records, report, err := ReadRecords(r, s.cfg.Location)
	if err != nil {
		return report, fmt.Errorf("error loading %q: %w", source, err)
	}

	err = s.CommitLoad(token, records, report, source)
	if err != nil {
		return report, fmt.Errorf("error loading %q: %w", source, err)
	}
	return report, nil
}

// LoadFile loads a CSV file from disk
func (s *Session) LoadFile(filename string) (LoadReport, error) {
	f, err := os.Open(filename)
	if err != nil {
		return LoadReport{}, fmt.Errorf("error opening file %q: %w", filename, err)
	}
	defer f.Close()

	return s.Load(f, filename)
}

// AutoLoad tries to load a default file. Failure only changes the header.
func (s *Session) AutoLoad(filename string) {
	_, err := s.LoadFile(filename)
	if err == nil {
		return
	}

	log.Warn().Err(err).Str("file", filename).Msg("auto-load failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setHeader(headerPrompt)
}

// Reset clears all data. It must be confirmed.
func (s *Session) Reset(confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil
	s.view = nil
	s.mediator.Reset()
	s.threshold = nil
	s.hidden = defaultHidden()
	s.kpis = KPIs{Selectable: s.cfg.Selectable}
	s.axes = AxisScales{}
	s.source = ""
	s.report = LoadReport{}
	s.header = headerReset
	s.revision++

	return nil
}

// ZoomPreset applies a zoom token such as "all", "24h", "month" or "6"
func (s *Session) ZoomPreset(token string) error {
	p, err := ParsePreset(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := ZoomPreset(s.view, s.data, p)
	if err != nil {
		return err
	}
	s.setView(view)
	return nil
}

// ApplyRange shows the days from start through end. A nil end shows one day.
func (s *Session) ApplyRange(start time.Time, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Empty() {
		return ErrNoData
	}
	view, err := ApplyRange(start.In(s.cfg.Location), end)
	if err != nil {
		return err
	}
	s.setView(view)
	return nil
}

// WheelStep moves the window in direction. It returns false when the step
// was rejected.
func (s *Session) WheelStep(direction int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return false, ErrNoData
	}
	view, ok := WheelStep(*s.view, s.data, direction)
	if !ok {
		return false, nil
	}
	s.setView(view)
	return true, nil
}

// SetWindow records the window after the chart's own pan or zoom
func (s *Session) SetWindow(minT, maxT time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return ErrNoData
	}
	view, err := SetWindow(*s.view, minT, maxT)
	if err != nil {
		return err
	}
	s.setView(view)
	return nil
}

// Click handles a click on the chart at t
func (s *Session) Click(t time.Time) (ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Empty() {
		return ClickIgnored, ErrNoData
	}

	view, result := s.mediator.Click(s.view, t.In(s.cfg.Location))
	switch result {
	case ClickDrilled:
		s.setView(view)
	case ClickMeasured:
		s.revision++
	}
	return result, nil
}

// ToggleMeasure switches measurement mode
func (s *Session) ToggleMeasure() Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mediator.ToggleMeasure()
	s.revision++
	return s.mediator.Measurement
}

// SetThreshold sets the power limit line, or clears it when nil
func (s *Session) SetThreshold(power *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threshold = power
	s.revision++
}

// ToggleSeries flips the visibility of a series and returns whether it is
// now visible
func (s *Session) ToggleSeries(key string) (bool, error) {
	if _, ok := seriesByKey(key); !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSeries, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hidden[key] = !s.hidden[key]
	s.revision++
	return !s.hidden[key], nil
}

// SetSelectable changes the metric of the third KPI
func (s *Session) SetSelectable(m Metric) error {
	if !slices.Contains(SelectableMetrics, m) {
		return fmt.Errorf("%w: %q is not selectable", ErrUnknownMetric, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Selectable = m
	if s.view != nil {
		s.rederive()
	} else {
		s.kpis.Selectable = m
	}
	return nil
}

// setView is the single path for navigation. The caller holds the lock.
func (s *Session) setView(view ViewState) {
	s.view = &view
	s.rederive()
}

// rederive recomputes everything that depends on the visible window
func (s *Session) rederive() {
	rng := s.view.Range()
	s.kpis = ComputeKPIs(s.data.Records(), &rng, s.cfg.Selectable)
	s.axes = ScaleAxes(s.cfg.AxisPolicy, s.data, s.view)
	s.setHeader(rangeLabel(rng))
	s.revision++
}

// setHeader replaces the header unless a sample label is pinned, in which
// case the label comes back after a reset
func (s *Session) setHeader(header string) {
	if s.pinned {
		s.header = s.cfg.SampleLabel
		return
	}
	s.header = header
}

func rangeLabel(rng TimeRange) string {
	const layout = "02/01/2006"
	return fmt.Sprintf("Range: %s - %s", rng.Start.Format(layout), rng.End.Format(layout))
}

// State is a copy of the session for rendering
type State struct {
	Loaded       bool            `json:"loaded"`
	Source       string          `json:"source,omitempty"`
	Header       string          `json:"header"`
	Points       int             `json:"points"`
	View         *ViewState      `json:"view,omitempty"`
	KPIs         KPIs            `json:"kpis"`
	Axes         AxisScales      `json:"axes"`
	Measurement  Measurement     `json:"measurement"`
	MeasureState string          `json:"measure_state"`
	Guidance     string          `json:"guidance"`
	Threshold    *float64        `json:"threshold,omitempty"`
	Hidden       map[string]bool `json:"hidden"`
	Report       LoadReport      `json:"report"`
	Revision     int             `json:"revision"`
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Session) state() State {
	st := State{
		Loaded:       !s.data.Empty(),
		Source:       s.source,
		Header:       s.header,
		Points:       s.data.Len(),
		KPIs:         s.kpis,
		Axes:         s.axes,
		Measurement:  s.mediator.Measurement,
		MeasureState: s.mediator.Measurement.State().String(),
		Guidance:     s.mediator.Measurement.Guidance(),
		Threshold:    s.threshold,
		Hidden:       make(map[string]bool, len(s.hidden)),
		Report:       s.report,
		Revision:     s.revision,
	}
	if s.view != nil {
		v := *s.view
		st.View = &v
	}
	for k, v := range s.hidden {
		st.Hidden[k] = v
	}
	return st
}
