package plantchart

import (
	"fmt"
	"strings"
)

// Metric identifies a numeric measurement of a Record
type Metric string

const (
	MetricSteam          Metric = "steam"
	MetricPower          Metric = "power"
	MetricTempCombustion Metric = "temp"
	MetricTempFlue       Metric = "flue"
	MetricIDF            Metric = "idf"
	MetricRGF            Metric = "rgf"
	MetricPAF            Metric = "paf"
	MetricSoot           Metric = "soot"
)

type metricInfo struct {
	unit      string
	precision int
	value     func(Record) float64
}

var metrics = map[Metric]metricInfo{
	MetricSteam:          {"t/h", 2, func(r Record) float64 { return r.Steam }},
	MetricPower:          {"MW", 2, func(r Record) float64 { return r.Power }},
	MetricTempCombustion: {"°C", 1, func(r Record) float64 { return r.TempCombustion }},
	MetricTempFlue:       {"°C", 1, func(r Record) float64 { return r.TempFlue }},
	MetricIDF:            {"%", 1, func(r Record) float64 { return r.IDF }},
	MetricRGF:            {"%", 1, func(r Record) float64 { return r.RGF }},
	MetricPAF:            {"%", 1, func(r Record) float64 { return r.PAF }},
	MetricSoot:           {"", 0, func(r Record) float64 { return r.Soot }},
}

// SelectableMetrics can be chosen for the third KPI
var SelectableMetrics = []Metric{MetricTempCombustion, MetricIDF, MetricRGF, MetricPAF}

// ParseMetric validates a metric name
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := metrics[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// Value reads this metric from a Record
func (m Metric) Value(r Record) float64 {
	info, ok := metrics[m]
	if !ok {
		return 0
	}
	return info.value(r)
}

func (m Metric) Unit() string {
	return metrics[m].unit
}

// Format renders a value with the metric's precision and unit
func (m Metric) Format(v float64) string {
	info := metrics[m]
	if info.unit == "" {
		return fmt.Sprintf("%.*f", info.precision, v)
	}
	return fmt.Sprintf("%.*f %s", info.precision, v, info.unit)
}
