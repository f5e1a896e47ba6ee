package plantchart

import (
	"time"

	"github.com/go-echarts/go-echarts/v2/opts"
)

// shiftBandLimit is the widest window that still shows shift bands
const shiftBandLimit = 3 * oneDay

type shiftDef struct {
	name       string
	start, end int
	color      string
}

var shifts = []shiftDef{
	{"Night Shift", 0, 8, "rgba(99, 102, 241, 0.08)"},
	{"Morning Shift", 8, 16, "rgba(250, 204, 21, 0.08)"},
	{"Afternoon Shift", 16, 24, "rgba(249, 115, 22, 0.08)"},
}

// ShiftBand is one shift drawn behind the chart
type ShiftBand struct {
	Name  string
	Start time.Time
	End   time.Time
	Color string
}

// ShiftBands lists the shifts overlapping rng, clipped to it. Windows of
// three days or more get none.
func ShiftBands(rng TimeRange) []ShiftBand {
	if rng.Duration() <= 0 || rng.Duration() >= shiftBandLimit {
		return nil
	}

	var bands []ShiftBand
	last := startOfDay(rng.End).AddDate(0, 0, 1)
	for d := startOfDay(rng.Start).AddDate(0, 0, -1); !d.After(last); d = d.AddDate(0, 0, 1) {
		for _, s := range shifts {
			start := d.Add(time.Duration(s.start) * time.Hour)
			end := d.Add(time.Duration(s.end) * time.Hour)
			if !end.After(rng.Start) || !start.Before(rng.End) {
				continue
			}
			bands = append(bands, ShiftBand{
				Name:  s.name,
				Start: maxTime(start, rng.Start),
				End:   minTime(end, rng.End),
				Color: s.color,
			})
		}
	}
	return bands
}

// MarkArea is the band as an ECharts mark area pair
func (b ShiftBand) MarkArea() []opts.MarkAreaData {
	return []opts.MarkAreaData{
		{
			Name:  b.Name,
			XAxis: b.Start.Format(time.RFC3339),
			MarkAreaStyle: opts.MarkAreaStyle{
				ItemStyle: &opts.ItemStyle{
					Color: b.Color,
				},
				Label: &opts.Label{
					Show:     opts.Bool(true),
					Position: "insideTop",
					Color:    "#64748b",
				},
			},
		},
		{
			XAxis: b.End.Format(time.RFC3339),
		},
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
