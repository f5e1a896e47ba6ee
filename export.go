package plantchart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	exportWidth  = 1600
	exportHeight = 800
)

// ReportFilename is the name of a PNG export taken at t
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("PowerPlant_Report_%s.png", t.Format(time.DateOnly))
}

// ExportPNG draws the visible steam and power series, plus the threshold when
// set, as a PNG
func (s *Session) ExportPNG(w io.Writer) error {
	s.mu.Lock()
	if s.view == nil {
		s.mu.Unlock()
		return ErrNoData
	}
	records := s.data.Slice(s.view.Range())
	header := s.header
	var threshold *float64
	if s.threshold != nil {
		v := *s.threshold
		threshold = &v
	}
	s.mu.Unlock()

	graph, err := exportChart(records, header, threshold)
	if err != nil {
		return err
	}
	err = graph.Render(chart.PNG, w)
	if err != nil {
		return fmt.Errorf("error rendering PNG: %w", err)
	}
	return nil
}

func exportChart(records []Record, header string, threshold *float64) (*chart.Chart, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need at least two visible points to export", ErrNoData)
	}

	times := lo.Map(records, func(r Record, _ int) time.Time { return r.Time })
	steam := lo.Map(records, metricValue(MetricSteam))
	power := lo.Map(records, metricValue(MetricPower))

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Steam to Turbine (t/h)",
			XValues: times,
			YValues: steam,
			Style:   exportStyle("0ea5e9", false),
		},
		chart.TimeSeries{
			Name:    "Export Power (MW)",
			YAxis:   chart.YAxisSecondary,
			XValues: times,
			YValues: power,
			Style:   exportStyle("f59e0b", false),
		},
	}
	if threshold != nil {
		first, last := times[0], times[len(times)-1]
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("Lim: %g MW", *threshold),
			YAxis:   chart.YAxisSecondary,
			XValues: []time.Time{first, last},
			YValues: []float64{*threshold, *threshold},
			Style:   exportStyle("ef4444", true),
		})
	}

	layout := "02/01 15:04"
	if times[len(times)-1].Sub(times[0]) > 3*oneDay {
		layout = "02/01/2006"
	}

	graph := &chart.Chart{
		Title:  strings.TrimSpace(header),
		Width:  exportWidth,
		Height: exportHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat(layout),
		},
		YAxis: chart.YAxis{
			Name: "Steam (t/h)",
		},
		YAxisSecondary: chart.YAxis{
			Name: "Power (MW)",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(graph),
	}
	return graph, nil
}

func exportStyle(hex string, dashed bool) chart.Style {
	style := chart.Style{
		StrokeColor: drawing.ColorFromHex(hex),
		StrokeWidth: 2,
	}
	if dashed {
		style.StrokeDashArray = []float64{6, 4}
	}
	return style
}
