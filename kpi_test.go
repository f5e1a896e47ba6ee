package plantchart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPositiveAverage(t *testing.T) {
	assert.Equal(t, 15.0, PositiveAverage([]float64{0, -5, 10, 20}))
	assert.Equal(t, 10.0, PositiveAverage([]float64{10, math.NaN(), math.Inf(1)}))
	assert.Equal(t, 0.0, PositiveAverage([]float64{0, -1}))
	assert.Equal(t, 0.0, PositiveAverage(nil))
}

func TestComputeKPIs(t *testing.T) {
	dayStart := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{Time: dayStart, Power: 100, Steam: 100},
		{Time: dayStart.Add(23*time.Hour + 59*time.Minute), Power: 10, Steam: 40, TempCombustion: 900},
		{Time: dayStart.Add(oneDay), Power: 20, Steam: 0, TempCombustion: 0},
		{Time: dayStart.Add(oneDay + time.Minute), Power: 1000, Steam: 1000},
	}

	t.Run("HalfOpenRange", func(t *testing.T) {
		rng := TimeRange{Start: dayStart, End: dayStart.Add(oneDay)}
		kpis := ComputeKPIs(records, &rng, MetricTempCombustion)

		assert.Equal(t, 2, kpis.Count)
		assert.Equal(t, 15.0, kpis.AvgPower)
		assert.Equal(t, 40.0, kpis.AvgSteam)
		assert.Equal(t, 900.0, kpis.AvgSelectable)
		assert.Equal(t, "15.00 MW", kpis.PowerText())
		assert.Equal(t, "900.0 °C", kpis.SelectableText())
	})

	t.Run("NoRange", func(t *testing.T) {
		kpis := ComputeKPIs(records, nil, MetricIDF)

		assert.Equal(t, 4, kpis.Count)
		assert.Equal(t, 282.5, kpis.AvgPower)
		assert.Equal(t, MetricIDF, kpis.Selectable)
		assert.Equal(t, "0.0 %", kpis.SelectableText())
	})

	t.Run("EmptyRange", func(t *testing.T) {
		rng := TimeRange{Start: dayStart.AddDate(1, 0, 0), End: dayStart.AddDate(1, 0, 1)}
		kpis := ComputeKPIs(records, &rng, "")

		assert.True(t, kpis.Empty())
		assert.Equal(t, MetricTempCombustion, kpis.Selectable)
		assert.Equal(t, "-", kpis.PowerText())
		assert.Equal(t, "-", kpis.SteamText())
	})
}
