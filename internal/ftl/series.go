// Package ftl turns daily duty and flight totals into rolling-window figures
// and compares them against flight/duty time limits.
//
// Everything in this package is a pure function of its inputs. A Series is
// immutable once built and may be shared between goroutines.
package ftl

import (
	"math"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Series is a contiguous run of daily totals with prefix sums, so any
// window or month total is answered in constant time.
type Series struct {
	start  domain.Date
	days   int
	duty   []float64 // duty[i] = sum of duty hours for the first i days
	flight []float64
}

// NewSeries builds a Series from per-day totals. Points may be unordered;
// repeated dates are added together. Days between points count as zero.
func NewSeries(points []domain.DayTotals) *Series {
	if len(points) == 0 {
		return &Series{duty: []float64{0}, flight: []float64{0}}
	}

	first, last := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(last) {
			last = p.Date
		}
	}

	n := last.DaysSince(first) + 1
	dailyDuty := make([]float64, n)
	dailyFlight := make([]float64, n)
	for _, p := range points {
		i := p.Date.DaysSince(first)
		dailyDuty[i] += p.Totals.DutyHours
		dailyFlight[i] += p.Totals.FlightHours
	}

	s := &Series{
		start:  first,
		days:   n,
		duty:   make([]float64, n+1),
		flight: make([]float64, n+1),
	}
	for i := 0; i < n; i++ {
		s.duty[i+1] = s.duty[i] + dailyDuty[i]
		s.flight[i+1] = s.flight[i] + dailyFlight[i]
	}
	return s
}

// Empty reports whether the series holds no days at all
func (s *Series) Empty() bool {
	return s.days == 0
}

// Bounds returns the first and last day covered by the series
func (s *Series) Bounds() (first, last domain.Date, ok bool) {
	if s.Empty() {
		return domain.Date{}, domain.Date{}, false
	}
	return s.start, s.start.AddDays(s.days - 1), true
}

// WindowTotal sums metric over the windowDays calendar days ending on
// anchor, inclusive: [anchor-(windowDays-1), anchor].
func (s *Series) WindowTotal(anchor domain.Date, windowDays int, metric domain.MetricKind) float64 {
	if windowDays <= 0 {
		return 0
	}
	return s.RangeTotal(anchor.AddDays(-(windowDays - 1)), anchor, metric)
}

// MonthTotal sums metric over every day of anchor's calendar month
func (s *Series) MonthTotal(anchor domain.Date, metric domain.MetricKind) float64 {
	return s.RangeTotal(anchor.MonthStart(), anchor.MonthEnd(), metric)
}

// MonthToDate sums metric from the first of anchor's month through anchor
func (s *Series) MonthToDate(anchor domain.Date, metric domain.MetricKind) float64 {
	return s.RangeTotal(anchor.MonthStart(), anchor, metric)
}

// Day returns the totals recorded for a single date, zero when absent
func (s *Series) Day(date domain.Date) domain.DailyTotals {
	return domain.DailyTotals{
		DutyHours:   s.RangeTotal(date, date, domain.MetricDuty),
		FlightHours: s.RangeTotal(date, date, domain.MetricFlight),
	}
}

// RangeTotal sums metric over [from, to] inclusive. Days outside the
// recorded span contribute zero.
func (s *Series) RangeTotal(from, to domain.Date, metric domain.MetricKind) float64 {
	if s.Empty() || to.Before(from) {
		return 0
	}

	prefix := s.prefixFor(metric)
	if prefix == nil {
		return 0
	}
	return roundNano(prefix[s.countThrough(to)] - prefix[s.countThrough(from.AddDays(-1))])
}

// roundNano drops the float noise prefix subtraction leaves behind
func roundNano(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}

// countThrough returns how many series days fall on or before d
func (s *Series) countThrough(d domain.Date) int {
	n := d.DaysSince(s.start) + 1
	switch {
	case d.Before(s.start):
		return 0
	case n > s.days:
		return s.days
	default:
		return n
	}
}

func (s *Series) prefixFor(metric domain.MetricKind) []float64 {
	switch metric {
	case domain.MetricDuty:
		return s.duty
	case domain.MetricFlight:
		return s.flight
	default:
		return nil
	}
}
