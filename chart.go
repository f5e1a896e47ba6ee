package plantchart

import (
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartID is the element ID of the rendered chart. The page script reaches
// the ECharts instance through it.
const ChartID = "plantchart"

const (
	sootMarkerValue   = 0.05
	problemMarkerBase = 1.1
	problemMarkerStep = 0.05

	sootLabel    = "Soot Blow"
	problemLabel = "Problem"
)

// axisOrder is the index of each axis in the ECharts option
var axisOrder = []Axis{AxisSteam, AxisPower, AxisPercent, AxisTemp, AxisEvent}

func axisIndex(a Axis) int {
	for i, v := range axisOrder {
		if v == a {
			return i
		}
	}
	return 0
}

type seriesDef struct {
	key    string
	label  string
	metric Metric
	axis   Axis
	color  string
	hidden bool
	dashed bool
}

var seriesDefs = []seriesDef{
	{"steam", "Steam to Turbine (t/h)", MetricSteam, AxisSteam, "#0ea5e9", false, false},
	{"power", "Export Power (MW)", MetricPower, AxisPower, "#f59e0b", false, false},
	{"rgf", "RGF Running (%)", MetricRGF, AxisPercent, "#64748b", true, true},
	{"paf", "PAF Running (%)", MetricPAF, AxisPercent, "#94a3b8", true, true},
	{"temp", "Post Combustion Temp (°C)", MetricTempCombustion, AxisTemp, "#ef4444", true, false},
	{"flue", "Inlet Bag Temp (°C)", MetricTempFlue, AxisTemp, "#fb923c", true, false},
	{"idf", "IDF Running (%)", MetricIDF, AxisPercent, "#0f172a", true, false},
	{"soot", sootLabel, MetricSoot, AxisEvent, "#dc2626", true, false},
	{"problem", problemLabel, "", AxisEvent, "#dc2626", false, false},
}

func seriesByKey(key string) (seriesDef, bool) {
	for _, s := range seriesDefs {
		if s.key == key {
			return s, true
		}
	}
	return seriesDef{}, false
}

// SeriesInfo names a series that can be shown or hidden
type SeriesInfo struct {
	Key   string
	Label string
}

// SeriesList returns the toggleable series in legend order
func SeriesList() []SeriesInfo {
	result := make([]SeriesInfo, len(seriesDefs))
	for i, s := range seriesDefs {
		result[i] = SeriesInfo{Key: s.key, Label: s.label}
	}
	return result
}

func defaultHidden() map[string]bool {
	hidden := map[string]bool{}
	for _, s := range seriesDefs {
		hidden[s.key] = s.hidden
	}
	return hidden
}

// MarkerStyle is the symbol and colour of a problem code
type MarkerStyle struct {
	Symbol string
	Color  string
}

var codeStyles = map[int]MarkerStyle{
	1: {"circle", "#22c55e"},
	2: {"triangle", "#3b82f6"},
	3: {"rect", "#f59e0b"},
	4: {"diamond", "#ef4444"},
	5: {"path://M12 2l3 7h7l-5.5 4.5 2 7.5-6.5-4.5-6.5 4.5 2-7.5L2 9h7z", "#a855f7"},
}

var genericMarker = MarkerStyle{"pin", "#dc2626"}

// CodeStyle returns the marker for a problem code, or a generic marker for
// codes outside 1-5
func CodeStyle(code int) MarkerStyle {
	if s, ok := codeStyles[code]; ok {
		return s
	}
	return genericMarker
}

// Point is a plotted value
type Point struct {
	Time  time.Time
	Value float64
}

// ProblemMarker is one code of a flagged instant. An instant with several
// codes gets one marker per code, stacked upwards.
type ProblemMarker struct {
	Time  time.Time
	Value float64
	Code  int
	Label string
}

// SeriesFrame is one line series
type SeriesFrame struct {
	Key    string
	Label  string
	Axis   Axis
	Color  string
	Dashed bool
	Hidden bool
	Points []Point
}

// ThresholdLine is the power limit overlay
type ThresholdLine struct {
	Value float64
	Label string
}

// MeasureOverlay is the measurement tool overlay. Second and Label are only
// set once both points are chosen.
type MeasureOverlay struct {
	First  time.Time
	Second *time.Time
	Label  string
}

// Frame describes everything drawn for one redraw, independent of the
// charting library
type Frame struct {
	Header             string
	View               ViewState
	Axes               AxisScales
	Series             []SeriesFrame
	Soot               []Point
	SootHidden         bool
	Problems           []ProblemMarker
	ProblemsHidden     bool
	Shifts             []ShiftBand
	Threshold          *ThresholdLine
	Measure            *MeasureOverlay
	HideMarkerTooltips bool
}

// Frame builds the render description of the current session
func (s *Session) Frame() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Empty() || s.view == nil {
		return Frame{}, ErrNoData
	}
	return BuildFrame(s.data, s.state(), s.cfg.HideMarkerTooltips), nil
}

// BuildFrame converts the dataset and a session snapshot into a Frame
func BuildFrame(data *Dataset, st State, hideMarkerTooltips bool) Frame {
	f := Frame{
		Header:             st.Header,
		Axes:               st.Axes,
		HideMarkerTooltips: hideMarkerTooltips,
		SootHidden:         st.Hidden["soot"],
		ProblemsHidden:     st.Hidden["problem"],
	}
	if st.View != nil {
		f.View = *st.View
		f.Shifts = ShiftBands(f.View.Range())
	}

	records := data.Records()
	for _, def := range seriesDefs {
		if def.axis == AxisEvent {
			continue
		}
		points := make([]Point, len(records))
		for i, r := range records {
			points[i] = Point{Time: r.Time, Value: def.metric.Value(r)}
		}
		f.Series = append(f.Series, SeriesFrame{
			Key:    def.key,
			Label:  def.label,
			Axis:   def.axis,
			Color:  def.color,
			Dashed: def.dashed,
			Hidden: st.Hidden[def.key],
			Points: points,
		})
	}

	for _, r := range records {
		if r.Soot == 1 {
			f.Soot = append(f.Soot, Point{Time: r.Time, Value: sootMarkerValue})
		}
		codes := r.ProblemCodes
		if len(codes) == 0 && r.ProblemValue > 0 {
			codes = []int{0}
		}
		for i, code := range codes {
			f.Problems = append(f.Problems, ProblemMarker{
				Time:  r.Time,
				Value: problemMarkerBase + float64(i)*problemMarkerStep,
				Code:  code,
				Label: r.ProblemText,
			})
		}
	}

	if st.Threshold != nil {
		f.Threshold = &ThresholdLine{
			Value: *st.Threshold,
			Label: fmt.Sprintf("Lim: %g MW", *st.Threshold),
		}
	}

	m := st.Measurement
	if m.Active && m.First != nil {
		f.Measure = &MeasureOverlay{First: *m.First}
		if d, ok := m.Elapsed(); ok {
			second := *m.Second
			f.Measure.Second = &second
			f.Measure.Label = FormatElapsed(d)
		}
	}

	return f
}

// Chart converts the Frame into an ECharts line chart with one Y axis per
// value kind and scatter series for the event markers
func (f Frame) Chart() (*charts.Line, error) {
	line := charts.NewLine()

	selected := map[string]bool{}
	for _, s := range f.Series {
		selected[s.Label] = !s.Hidden
	}
	selected[sootLabel] = !f.SootHidden
	selected[problemLabel] = !f.ProblemsHidden

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: ChartID,
			Width:   "100%",
			Height:  "70vh",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Power Plant Operations",
			Subtitle: f.Header,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
			Min:  f.View.Min.UnixMilli(),
			Max:  f.View.Max.UnixMilli(),
			AxisPointer: &opts.AxisPointer{
				Show: opts.Bool(true),
				Snap: opts.Bool(false),
			},
			AxisLabel: &opts.AxisLabel{
				Formatter: opts.FuncOpts(axisLabelFormatter(f.View.Width())),
			},
		}),
		charts.WithYAxisOpts(f.yAxis(AxisSteam, "Steam (t/h)", "left", true)),
		charts.WithGridOpts(opts.Grid{
			Left:   "8%",
			Right:  "8%",
			Bottom: "15%",
		}),
		charts.WithTooltipOpts(f.tooltip()),
		charts.WithLegendOpts(opts.Legend{
			Show:     opts.Bool(true),
			Selected: selected,
			Bottom:   "0",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			XAxisIndex: []int{0},
		}),
	)
	line.ExtendYAxis(f.extraYAxes()...)

	for _, s := range f.Series {
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol:   opts.Bool(false),
				ConnectNulls: opts.Bool(false),
				YAxisIndex:   axisIndex(s.Axis),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(s.lineStyle()),
		}
		if s.Key == "power" {
			seriesOpts = append(seriesOpts, f.overlayOpts()...)
		}
		line.AddSeries(s.Label, s.lineData(), seriesOpts...)
	}

	line.Overlap(f.markers())

	return line, nil
}

// extraYAxes are the axes after steam, in axisOrder. Only steam and power
// draw labels; fan speed, temperature and events keep their own scale on
// hidden axes so nothing stacks on the right-hand edge.
func (f Frame) extraYAxes() []opts.YAxis {
	return []opts.YAxis{
		f.yAxis(AxisPower, "Power (MW)", "right", true),
		f.yAxis(AxisPercent, "Fan Speed (%)", "right", false),
		f.yAxis(AxisTemp, "Post Combustion Temp (°C)", "right", false),
		f.yAxis(AxisEvent, "", "right", false),
	}
}

func (f Frame) yAxis(a Axis, name, position string, show bool) opts.YAxis {
	return opts.YAxis{
		Name:     name,
		Type:     "value",
		Show:     opts.Bool(show),
		Position: position,
		Min:      0,
		Max:      f.Axes.Max(a),
		SplitLine: &opts.SplitLine{
			Show: opts.Bool(a == AxisSteam),
		},
	}
}

// tooltip leaves marker series out of the hover box when configured, and
// shows a rolled-over midnight as 24:00 of the previous day
func (f Frame) tooltip() opts.Tooltip {
	t := opts.Tooltip{
		Show:    opts.Bool(true),
		Trigger: "axis",
	}
	if f.HideMarkerTooltips {
		t.Formatter = opts.FuncOpts(fmt.Sprintf(tooltipFormatterJS, sootLabel, problemLabel))
	}
	return t
}

func (s SeriesFrame) lineStyle() opts.LineStyle {
	style := opts.LineStyle{Width: 2, Color: s.Color}
	if s.Dashed {
		style.Type = "dashed"
	}
	return style
}

func (s SeriesFrame) lineData() []opts.LineData {
	data := make([]opts.LineData, len(s.Points))
	for i, p := range s.Points {
		data[i] = opts.LineData{
			Value: []any{p.Time.Format(time.RFC3339), p.Value},
		}
	}
	return data
}

// overlayOpts attaches the shift bands, threshold and measurement to a series
func (f Frame) overlayOpts() []charts.SeriesOpts {
	var result []charts.SeriesOpts
	for _, b := range f.Shifts {
		result = append(result, charts.WithMarkAreaData(b.MarkArea()))
	}

	var marks []opts.MarkLineNameXAxisItem
	if f.Measure != nil {
		marks = append(marks, opts.MarkLineNameXAxisItem{
			Name:  "Start",
			XAxis: f.Measure.First.Format(time.RFC3339),
		})
		if f.Measure.Second != nil {
			marks = append(marks, opts.MarkLineNameXAxisItem{
				Name:  f.Measure.Label,
				XAxis: f.Measure.Second.Format(time.RFC3339),
			})
			result = append(result, charts.WithMarkAreaData(f.Measure.markArea()))
		}
	}
	if len(marks) > 0 {
		result = append(result, charts.WithMarkLineNameXAxisItemOpts(marks...))
	}

	if f.Threshold != nil {
		result = append(result, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  f.Threshold.Label,
			YAxis: f.Threshold.Value,
		}))
	}

	if len(marks) > 0 || f.Threshold != nil {
		result = append(result, charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol: []string{"none", "none"},
			Label: &opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			},
		}))
	}
	return result
}

func (m MeasureOverlay) markArea() []opts.MarkAreaData {
	start, end := m.First, *m.Second
	if end.Before(start) {
		start, end = end, start
	}
	return []opts.MarkAreaData{
		{
			Name:  m.Label,
			XAxis: start.Format(time.RFC3339),
			MarkAreaStyle: opts.MarkAreaStyle{
				ItemStyle: &opts.ItemStyle{
					Color: "rgba(59, 130, 246, 0.2)",
				},
				Label: &opts.Label{
					Show:     opts.Bool(true),
					Position: "insideTop",
					Color:    "#0ea5e9",
				},
			},
		},
		{
			XAxis: end.Format(time.RFC3339),
		},
	}
}

// markers builds the soot and problem scatter series on the event axis. Each
// problem code is its own series so it keeps its symbol and colour; they
// share a name so the legend toggles them together.
func (f Frame) markers() *charts.Scatter {
	scatter := charts.NewScatter()
	eventAxis := charts.WithScatterChartOpts(opts.ScatterChart{YAxisIndex: axisIndex(AxisEvent)})

	soot := make([]opts.ScatterData, len(f.Soot))
	for i, p := range f.Soot {
		soot[i] = opts.ScatterData{
			Value:      []any{p.Time.Format(time.RFC3339), p.Value},
			Symbol:     "triangle",
			SymbolSize: 6,
		}
	}
	scatter.AddSeries(sootLabel, soot, eventAxis, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#dc2626"}))

	byStyle := map[MarkerStyle][]opts.ScatterData{}
	var order []MarkerStyle
	for _, p := range f.Problems {
		style := CodeStyle(p.Code)
		if _, ok := byStyle[style]; !ok {
			order = append(order, style)
		}
		byStyle[style] = append(byStyle[style], opts.ScatterData{
			Name:       p.Label,
			Value:      []any{p.Time.Format(time.RFC3339), p.Value},
			Symbol:     style.Symbol,
			SymbolSize: 9,
		})
	}
	for _, style := range order {
		scatter.AddSeries(problemLabel, byStyle[style], eventAxis,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Color, BorderColor: "#64748b"}),
		)
	}

	return scatter
}

// axisLabelFormatter shows times for windows up to about a day, with
// midnight as 24:00, dates for longer windows and months beyond a quarter
func axisLabelFormatter(width time.Duration) string {
	switch {
	case width <= 26*time.Hour:
		return `function (value) {
	var d = new Date(value);
	var pad = function (n) { return String(n).padStart(2, '0'); };
	if (d.getHours() === 0 && d.getMinutes() === 0) { return '24:00'; }
	return pad(d.getHours()) + ':' + pad(d.getMinutes());
}`
	case width > 90*oneDay:
		return `function (value) {
	var d = new Date(value);
	return d.toLocaleString('en-GB', { month: 'short', year: 'numeric' });
}`
	}
	return `function (value) {
	var d = new Date(value);
	var pad = function (n) { return String(n).padStart(2, '0'); };
	return pad(d.getDate()) + '/' + pad(d.getMonth() + 1) + '/' + d.getFullYear();
}`
}

const tooltipFormatterJS = `function (params) {
	var list = Array.isArray(params) ? params : [params];
	if (list.length === 0) { return ''; }
	var pad = function (n) { return String(n).padStart(2, '0'); };
	var d = new Date(list[0].value[0]);
	var title;
	if (d.getHours() === 0 && d.getMinutes() === 0) {
		var prev = new Date(d.getTime() - 86400000);
		title = pad(prev.getDate()) + '/' + pad(prev.getMonth() + 1) + '/' + prev.getFullYear() + ' 24:00';
	} else {
		title = pad(d.getDate()) + '/' + pad(d.getMonth() + 1) + '/' + d.getFullYear() + ' ' + pad(d.getHours()) + ':' + pad(d.getMinutes());
	}
	var lines = [title];
	list.forEach(function (p) {
		if (p.seriesName === '%s' || p.seriesName === '%s') { return; }
		lines.push(p.marker + p.seriesName + ': ' + p.value[1]);
	});
	return lines.join('<br/>');
}`
