package domain

import (
	"fmt"
	"sort"
)

// DatedMinutes is an amount of duty attributed to one calendar day
type DatedMinutes struct {
	Date    Date
	Minutes int
}

// DutyAttribution decides which calendar days a duty entry's time counts toward.
// It is the only place overnight duty is resolved; window arithmetic never
// looks at individual entries.
type DutyAttribution func(e DutyEntry) []DatedMinutes

// Attribution policy names accepted by AttributionByName
const (
	AttributionStartDate     = "start_date"
	AttributionSplitMidnight = "split_midnight"
)

// AttributeToStartDate books the whole entry, overnight or not, on its start date
func AttributeToStartDate(e DutyEntry) []DatedMinutes {
	start, end := e.Span()
	return []DatedMinutes{{Date: e.Date, Minutes: end - start}}
}

// SplitAtMidnight books the part after midnight on the following day
func SplitAtMidnight(e DutyEntry) []DatedMinutes {
	start, end := e.Span()
	if end <= minutesPerDay {
		return []DatedMinutes{{Date: e.Date, Minutes: end - start}}
	}
	return []DatedMinutes{
		{Date: e.Date, Minutes: minutesPerDay - start},
		{Date: e.Date.AddDays(1), Minutes: end - minutesPerDay},
	}
}

// AttributionByName resolves a configured policy name
func AttributionByName(name string) (DutyAttribution, error) {
	switch name {
	case "", AttributionStartDate:
		return AttributeToStartDate, nil
	case AttributionSplitMidnight:
		return SplitAtMidnight, nil
	default:
		return nil, fmt.Errorf("unknown duty attribution policy %q", name)
	}
}

// AggregateDay reduces one day's duty and flight entries to its totals.
// Duty entries are attributed wholly to their start date. Flight entries are
// summed across every aircraft type, known or not.
func AggregateDay(duties []DutyEntry, flights []FlightHourEntry) DailyTotals {
	dutyMinutes := 0
	for _, d := range duties {
		for _, part := range AttributeToStartDate(d) {
			dutyMinutes += part.Minutes
		}
	}

	var flightHours float64
	for _, f := range flights {
		flightHours += float64(f.Hours)
	}

	return DailyTotals{
		DutyHours:   float64(HoursFromMinutes(dutyMinutes)),
		FlightHours: flightHours,
	}
}

// DayTotals pairs a calendar day with its totals
type DayTotals struct {
	Date   Date        `json:"date"`
	Totals DailyTotals `json:"totals"`
}

// BuildDailyTotals groups entries by calendar day and reduces each day.
// The result is ordered by date. A nil policy means AttributeToStartDate.
func BuildDailyTotals(duties []DutyEntry, flights []FlightHourEntry, policy DutyAttribution) []DayTotals {
	if policy == nil {
		policy = AttributeToStartDate
	}

	dutyMinutes := make(map[Date]int)
	for _, d := range duties {
		for _, part := range policy(d) {
			dutyMinutes[part.Date] += part.Minutes
		}
	}

	flightsByDay := make(map[Date][]FlightHourEntry)
	for _, f := range flights {
		flightsByDay[f.Date] = append(flightsByDay[f.Date], f)
	}

	days := make(map[Date]struct{}, len(dutyMinutes)+len(flightsByDay))
	for d := range dutyMinutes {
		days[d] = struct{}{}
	}
	for d := range flightsByDay {
		days[d] = struct{}{}
	}

	out := make([]DayTotals, 0, len(days))
	for d := range days {
		totals := AggregateDay(nil, flightsByDay[d])
		totals.DutyHours = float64(HoursFromMinutes(dutyMinutes[d]))
		out = append(out, DayTotals{Date: d, Totals: totals})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CheckOverlaps returns an *OverlapViolation for the first pair of entries
// whose wall-clock spans overlap. Overnight entries are compared on an
// absolute timeline, so they also collide with the next day's entries.
func CheckOverlaps(duties []DutyEntry) error {
	type span struct {
		entry      DutyEntry
		start, end int64
	}

	spans := make([]span, 0, len(duties))
	for _, d := range duties {
		base := d.Date.Unix() / 60
		start, end := d.Span()
		spans = append(spans, span{entry: d, start: base + int64(start), end: base + int64(end)})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	if len(spans) == 0 {
		return nil
	}

	furthest := spans[0]
	for _, s := range spans[1:] {
		if s.start < furthest.end {
			return &OverlapViolation{
				Date:   s.entry.Date,
				First:  furthest.entry.ID,
				Second: s.entry.ID,
			}
		}
		if s.end > furthest.end {
			furthest = s
		}
	}
	return nil
}
