package plantchart

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// AxisPolicy selects which records drive the value axis maxima
type AxisPolicy string

const (
	// AxisPolicyDataset scales every axis to the whole dataset so the axes
	// stay put while navigating
	AxisPolicyDataset AxisPolicy = "dataset"
	// AxisPolicyVisible scales to the records inside the visible window
	AxisPolicyVisible AxisPolicy = "visible"
)

func ParseAxisPolicy(s string) (AxisPolicy, error) {
	switch p := AxisPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case AxisPolicyDataset, AxisPolicyVisible:
		return p, nil
	case "":
		return AxisPolicyDataset, nil
	}
	return "", fmt.Errorf("invalid axis policy %q: expected %q or %q", s, AxisPolicyDataset, AxisPolicyVisible)
}

// Axis names a vertical axis of the chart
type Axis string

const (
	AxisSteam   Axis = "steam"
	AxisPower   Axis = "power"
	AxisPercent Axis = "percent"
	AxisTemp    Axis = "temp"
	AxisEvent   Axis = "event"
)

const (
	headroom        = 1.1
	percentHeadroom = 1.2
	percentFloor    = 100.0
	tempPadFraction = 0.1
	defaultTempMax  = 1000.0
	defaultTempMin  = 800.0

	// the event axis is fixed so markers stacked above 1.0 never clip
	eventAxisMax = 1.3
)

// AxisScales holds the maximum of each value axis. Every axis starts at 0.
type AxisScales struct {
	Steam   float64
	Power   float64
	Percent float64
	Temp    float64
	Event   float64
}

// Max returns the maximum for a named axis
func (a AxisScales) Max(axis Axis) float64 {
	switch axis {
	case AxisSteam:
		return a.Steam
	case AxisPower:
		return a.Power
	case AxisPercent:
		return a.Percent
	case AxisTemp:
		return a.Temp
	}
	return a.Event
}

// ComputeAxisScales derives axis maxima from records
func ComputeAxisScales(records []Record) AxisScales {
	maxOf := func(m Metric) float64 {
		return lo.Reduce(records, func(acc float64, r Record, _ int) float64 {
			return math.Max(acc, m.Value(r))
		}, 0)
	}

	fans := math.Max(maxOf(MetricIDF), math.Max(maxOf(MetricRGF), maxOf(MetricPAF)))

	return AxisScales{
		Steam:   paddedMax(maxOf(MetricSteam)),
		Power:   paddedMax(maxOf(MetricPower)),
		Percent: math.Ceil(math.Max(fans, percentFloor) * percentHeadroom),
		Temp:    tempAxisMax(records),
		Event:   eventAxisMax,
	}
}

func paddedMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v * headroom)
}

// tempAxisMax pads the positive combustion temperatures by a tenth of their
// spread
func tempAxisMax(records []Record) float64 {
	temps := lo.FilterMap(records, func(r Record, _ int) (float64, bool) {
		return r.TempCombustion, r.TempCombustion > 0
	})

	hi, low := defaultTempMax, defaultTempMin
	if len(temps) > 0 {
		hi, low = lo.Max(temps), lo.Min(temps)
	}
	return math.Ceil(hi + (hi-low)*tempPadFraction)
}

// ScaleAxes applies the policy. The visible policy falls back to the whole
// dataset when the window holds no records.
func ScaleAxes(policy AxisPolicy, data *Dataset, view *ViewState) AxisScales {
	records := data.Records()
	if policy == AxisPolicyVisible && view != nil {
		if visible := data.Slice(view.Range()); len(visible) > 0 {
			records = visible
		}
	}
	return ComputeAxisScales(records)
}
