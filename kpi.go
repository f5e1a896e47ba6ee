package plantchart

import (
	"math"

	"github.com/samber/lo"
)

// KPIs are the averages shown above the chart
type KPIs struct {
	AvgPower      float64
	AvgSteam      float64
	AvgSelectable float64
	Selectable    Metric
	Count         int
}

// Empty is true when no record fell into the range
func (k KPIs) Empty() bool {
	return k.Count == 0
}

func (k KPIs) PowerText() string {
	return k.text(MetricPower, k.AvgPower)
}

func (k KPIs) SteamText() string {
	return k.text(MetricSteam, k.AvgSteam)
}

func (k KPIs) SelectableText() string {
	return k.text(k.Selectable, k.AvgSelectable)
}

func (k KPIs) text(m Metric, v float64) string {
	if k.Empty() {
		return "-"
	}
	return m.Format(v)
}

// ComputeKPIs averages power, steam and the selectable metric over the
// records in rng, or over all records when rng is nil
func ComputeKPIs(records []Record, rng *TimeRange, selectable Metric) KPIs {
	if selectable == "" {
		selectable = MetricTempCombustion
	}

	data := records
	if rng != nil {
		data = lo.Filter(records, func(r Record, _ int) bool {
			return rng.Contains(r.Time)
		})
	}

	return KPIs{
		AvgPower:      PositiveAverage(lo.Map(data, metricValue(MetricPower))),
		AvgSteam:      PositiveAverage(lo.Map(data, metricValue(MetricSteam))),
		AvgSelectable: PositiveAverage(lo.Map(data, metricValue(selectable))),
		Selectable:    selectable,
		Count:         len(data),
	}
}

func metricValue(m Metric) func(Record, int) float64 {
	return func(r Record, _ int) float64 {
		return m.Value(r)
	}
}

// PositiveAverage is the mean of the finite values greater than zero. Zero
// and negative readings are treated as instrument faults. It returns 0 when
// nothing qualifies.
func PositiveAverage(values []float64) float64 {
	valid := lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
	})
	if len(valid) == 0 {
		return 0
	}
	return lo.Sum(valid) / float64(len(valid))
}
