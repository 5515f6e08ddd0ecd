package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	c, err := ParseClockTime(s)
	require.NoError(t, err)
	return c
}

func duty(t *testing.T, id string, date Date, start, end string) DutyEntry {
	return DutyEntry{ID: id, Date: date, Start: mustClock(t, start), End: mustClock(t, end), Kind: DutyKindFlight}
}

func flight(t *testing.T, date Date, aircraft, text string) FlightHourEntry {
	t.Helper()
	h, err := DecodeDuration(text)
	require.NoError(t, err)
	return FlightHourEntry{Date: date, AircraftTypeID: aircraft, Hours: h}
}

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("22:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(22*60), c)
	assert.Equal(t, "22:00", c.String())

	c, err = ParseClockTime("6:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(365), c)

	for _, bad := range []string{"24:00", "12:60", "1200", "ab:cd", "12:5", ""} {
		_, err := ParseClockTime(bad)
		var pf *ParseFailure
		require.True(t, errors.As(err, &pf), bad)
		assert.Equal(t, FieldClockTime, pf.Field, bad)
	}

	_, err = DecodeDuration("1:75")
	var pf *ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Empty(t, pf.Field)
}

func TestAggregateDay_FlightHoursAcrossEntries(t *testing.T) {
	day := NewDate(2024, 3, 10)
	totals := AggregateDay(nil, []FlightHourEntry{
		flight(t, day, "A320", "01:30"),
		flight(t, day, "A320", "02:15"),
	})

	assert.InDelta(t, 3.75, totals.FlightHours, 1e-9)
	assert.Equal(t, "03:45", EncodeDuration(Hours(totals.FlightHours)))
	assert.Zero(t, totals.DutyHours)
}

func TestAggregateDay_UnknownAircraftStillCounts(t *testing.T) {
	day := NewDate(2024, 3, 10)
	totals := AggregateDay(nil, []FlightHourEntry{
		flight(t, day, "A320", "1"),
		flight(t, day, "retired-type-9", "0.5"),
	})
	assert.InDelta(t, 1.5, totals.FlightHours, 1e-9)
}

func TestAggregateDay_OvernightDuty(t *testing.T) {
	day := NewDate(2024, 3, 10)
	entry := duty(t, "d1", day, "22:00", "06:00")

	assert.True(t, entry.Overnight())
	totals := AggregateDay([]DutyEntry{entry}, nil)
	assert.InDelta(t, 8.0, totals.DutyHours, 1e-9)

	daily := BuildDailyTotals([]DutyEntry{entry}, nil, nil)
	require.Len(t, daily, 1)
	assert.True(t, daily[0].Date.Equal(day))
	assert.InDelta(t, 8.0, daily[0].Totals.DutyHours, 1e-9)
}

func TestAggregateDay_Empty(t *testing.T) {
	assert.Equal(t, DailyTotals{}, AggregateDay(nil, nil))
	assert.Empty(t, BuildDailyTotals(nil, nil, nil))
}

func TestAggregateDay_Additive(t *testing.T) {
	day := NewDate(2024, 5, 1)
	duties := []DutyEntry{
		duty(t, "a", day, "05:00", "09:30"),
		duty(t, "b", day, "11:00", "14:15"),
		duty(t, "c", day, "20:00", "01:00"),
	}
	flights := []FlightHourEntry{
		flight(t, day, "A320", "01:10"),
		flight(t, day, "B738", "2.5"),
		flight(t, day, "ATR72", "00:45"),
	}

	whole := AggregateDay(duties, flights)
	partA := AggregateDay(duties[:1], flights[2:])
	partB := AggregateDay(duties[1:], flights[:2])
	sum := partA.Add(partB)

	assert.InDelta(t, whole.DutyHours, sum.DutyHours, 1e-9)
	assert.InDelta(t, whole.FlightHours, sum.FlightHours, 1e-9)

	reversed := AggregateDay([]DutyEntry{duties[2], duties[1], duties[0]}, []FlightHourEntry{flights[2], flights[0], flights[1]})
	assert.InDelta(t, whole.DutyHours, reversed.DutyHours, 1e-9)
	assert.InDelta(t, whole.FlightHours, reversed.FlightHours, 1e-9)
}

func TestSplitAtMidnight(t *testing.T) {
	day := NewDate(2024, 1, 31)
	entry := duty(t, "n", day, "22:00", "06:00")

	parts := SplitAtMidnight(entry)
	require.Len(t, parts, 2)
	assert.Equal(t, 120, parts[0].Minutes)
	assert.True(t, parts[0].Date.Equal(day))
	assert.Equal(t, 360, parts[1].Minutes)
	assert.True(t, parts[1].Date.Equal(NewDate(2024, 2, 1)))

	daily := BuildDailyTotals([]DutyEntry{entry}, nil, SplitAtMidnight)
	require.Len(t, daily, 2)
	assert.InDelta(t, 2.0, daily[0].Totals.DutyHours, 1e-9)
	assert.InDelta(t, 6.0, daily[1].Totals.DutyHours, 1e-9)
}

func TestAttributionByName(t *testing.T) {
	p, err := AttributionByName("")
	require.NoError(t, err)
	assert.Len(t, p(duty(t, "x", NewDate(2024, 1, 1), "23:00", "01:00")), 1)

	p, err = AttributionByName(AttributionSplitMidnight)
	require.NoError(t, err)
	assert.Len(t, p(duty(t, "x", NewDate(2024, 1, 1), "23:00", "01:00")), 2)

	_, err = AttributionByName("bogus")
	assert.Error(t, err)
}

func TestBuildDailyTotals_GroupsAndOrders(t *testing.T) {
	d1 := NewDate(2024, 2, 28)
	d2 := NewDate(2024, 2, 29)

	daily := BuildDailyTotals(
		[]DutyEntry{duty(t, "b", d2, "08:00", "10:00"), duty(t, "a", d1, "08:00", "09:00")},
		[]FlightHourEntry{flight(t, d2, "A320", "00:30"), flight(t, d1, "A320", "00:15")},
		nil,
	)

	require.Len(t, daily, 2)
	assert.True(t, daily[0].Date.Equal(d1))
	assert.InDelta(t, 1.0, daily[0].Totals.DutyHours, 1e-9)
	assert.InDelta(t, 0.25, daily[0].Totals.FlightHours, 1e-9)
	assert.True(t, daily[1].Date.Equal(d2))
	assert.InDelta(t, 2.0, daily[1].Totals.DutyHours, 1e-9)
	assert.InDelta(t, 0.5, daily[1].Totals.FlightHours, 1e-9)
}

func TestCheckOverlaps(t *testing.T) {
	day := NewDate(2024, 6, 1)

	t.Run("disjoint", func(t *testing.T) {
		err := CheckOverlaps([]DutyEntry{
			duty(t, "a", day, "06:00", "10:00"),
			duty(t, "b", day, "10:00", "12:00"),
		})
		assert.NoError(t, err)
	})

	t.Run("same day overlap", func(t *testing.T) {
		err := CheckOverlaps([]DutyEntry{
			duty(t, "a", day, "06:00", "10:00"),
			duty(t, "b", day, "09:00", "12:00"),
		})
		var ov *OverlapViolation
		require.True(t, errors.As(err, &ov))
		assert.Equal(t, "a", ov.First)
		assert.Equal(t, "b", ov.Second)
	})

	t.Run("contained after long entry", func(t *testing.T) {
		err := CheckOverlaps([]DutyEntry{
			duty(t, "long", day, "06:00", "18:00"),
			duty(t, "short", day, "07:00", "08:00"),
			duty(t, "late", day, "12:00", "13:00"),
		})
		var ov *OverlapViolation
		require.True(t, errors.As(err, &ov))
		assert.Equal(t, "long", ov.First)
	})

	t.Run("overnight into next day", func(t *testing.T) {
		err := CheckOverlaps([]DutyEntry{
			duty(t, "night", day, "22:00", "06:00"),
			duty(t, "morning", day.AddDays(1), "05:00", "09:00"),
		})
		var ov *OverlapViolation
		assert.True(t, errors.As(err, &ov))
	})

	t.Run("empty", func(t *testing.T) {
		assert.NoError(t, CheckOverlaps(nil))
	})
}

func TestDutyEntry_Validate(t *testing.T) {
	day := NewDate(2024, 6, 1)
	entry := duty(t, "a", day, "06:00", "06:00")
	assert.ErrorIs(t, entry.Validate(), ErrEmptyDutyPeriod)

	entry = duty(t, "a", day, "06:00", "07:00")
	entry.Kind = "PARTY"
	assert.ErrorIs(t, entry.Validate(), ErrInvalidDutyKind)

	entry.Kind = DutyKindReserve
	assert.NoError(t, entry.Validate())
}
