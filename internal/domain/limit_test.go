package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimitTable_Valid(t *testing.T) {
	override := TierThresholds{Approaching: 70, Exceeded: 95}
	table, err := NewLimitTable(
		LimitDefinition{Name: "duty_28d", Metric: MetricDuty, WindowDays: 28, MaxHours: 190},
		LimitDefinition{Name: "flight_28d", Metric: MetricFlight, WindowDays: 28, MaxHours: 100, Thresholds: &override},
		LimitDefinition{Name: "flight_365d", Metric: MetricFlight, WindowDays: 365, MaxHours: 900},
	)
	require.NoError(t, err)

	defs := table.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "duty_28d", defs[0].Name)
	assert.Equal(t, "flight_365d", defs[2].Name)
	assert.Equal(t, 365, table.MaxWindowDays())
	assert.Equal(t, DefaultThresholds, table.ThresholdsFor(defs[0]))
	assert.Equal(t, override, table.ThresholdsFor(defs[1]))

	// the table keeps its own copy
	override.Approaching = 10
	assert.Equal(t, 70.0, table.ThresholdsFor(table.Definitions()[1]).Approaching)
	defs[0].MaxHours = 1
	assert.Equal(t, 190.0, table.Definitions()[0].MaxHours)
}

func TestNewLimitTable_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		defs []LimitDefinition
	}{
		{name: "empty table", defs: nil},
		{name: "zero max", defs: []LimitDefinition{{Name: "a", Metric: MetricDuty, WindowDays: 28, MaxHours: 0}}},
		{name: "negative max", defs: []LimitDefinition{{Name: "a", Metric: MetricDuty, WindowDays: 28, MaxHours: -5}}},
		{name: "nan max", defs: []LimitDefinition{{Name: "a", Metric: MetricDuty, WindowDays: 28, MaxHours: math.NaN()}}},
		{name: "zero window", defs: []LimitDefinition{{Name: "a", Metric: MetricDuty, WindowDays: 0, MaxHours: 10}}},
		{name: "unknown metric", defs: []LimitDefinition{{Name: "a", Metric: "sleep", WindowDays: 1, MaxHours: 10}}},
		{name: "missing name", defs: []LimitDefinition{{Metric: MetricDuty, WindowDays: 1, MaxHours: 10}}},
		{name: "duplicate name", defs: []LimitDefinition{
			{Name: "a", Metric: MetricDuty, WindowDays: 1, MaxHours: 10},
			{Name: "a", Metric: MetricFlight, WindowDays: 7, MaxHours: 30},
		}},
		{name: "inverted thresholds", defs: []LimitDefinition{
			{Name: "a", Metric: MetricDuty, WindowDays: 1, MaxHours: 10, Thresholds: &TierThresholds{Approaching: 100, Exceeded: 80}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewLimitTable(tt.defs...)
			assert.Nil(t, table)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
		})
	}
}

func TestNewLimitTableWithThresholds_InvalidPolicy(t *testing.T) {
	_, err := NewLimitTableWithThresholds(TierThresholds{Approaching: 0, Exceeded: 100},
		LimitDefinition{Name: "a", Metric: MetricDuty, WindowDays: 1, MaxHours: 10})
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestDefaultLimitTable(t *testing.T) {
	table := DefaultLimitTable()
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, 365, table.MaxWindowDays())

	names := map[string]bool{}
	for _, d := range table.Definitions() {
		names[d.Name] = true
	}
	assert.True(t, names["duty_28d"])
	assert.True(t, names["flight_28d"])
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, 28, d.AddDays(28).DaysSince(d))
	assert.Equal(t, "2024-02-01", d.MonthStart().String())
	assert.Equal(t, "2024-02-29", d.MonthEnd().String())

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-28"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(d))
	assert.Equal(t, d, back)

	_, err = ParseDate("28/02/2024")
	assert.Error(t, err)
}
