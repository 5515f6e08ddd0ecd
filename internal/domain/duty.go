package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DutyKind represents the type of a duty period
type DutyKind string

const (
	DutyKindFlight   DutyKind = "FLIGHT_DUTY"
	DutyKindGround   DutyKind = "GROUND_DUTY"
	DutyKindReserve  DutyKind = "RESERVE"
	DutyKindStandby  DutyKind = "STANDBY"
	DutyKindTraining DutyKind = "TRAINING"
	DutyKindRest     DutyKind = "REST"
)

var validDutyKinds = map[DutyKind]bool{
	DutyKindFlight:   true,
	DutyKindGround:   true,
	DutyKindReserve:  true,
	DutyKindStandby:  true,
	DutyKindTraining: true,
	DutyKindRest:     true,
}

// Valid reports whether k is a known duty kind
func (k DutyKind) Valid() bool {
	return validDutyKinds[k]
}

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day in minutes since midnight
type ClockTime int

// ParseClockTime reads "HH:MM" (hours 00-23, minutes 00-59)
func ParseClockTime(text string) (ClockTime, error) {
	s := strings.TrimSpace(text)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || !isDigits(hh) || !isDigits(mm) || len(hh) > 2 || len(mm) != 2 {
		return 0, clockFailure(text, "expected clock time HH:MM")
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 {
		return 0, clockFailure(text, "hour must be between 00 and 23")
	}
	if m > 59 {
		return 0, clockFailure(text, "minutes must be between 00 and 59")
	}
	return ClockTime(h*60 + m), nil
}

// Valid reports whether c is within a single day
func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// DutyEntry is one duty period for one staff member, keyed by its start date.
// End may be earlier than Start, meaning the period runs past midnight.
type DutyEntry struct {
	ID      string    `json:"id"`
	StaffID string    `json:"staff_id"`
	Date    Date      `json:"date"`
	Start   ClockTime `json:"start"`
	End     ClockTime `json:"end"`
	Kind    DutyKind  `json:"kind"`
}

// Validate checks the entry's own invariants
func (e DutyEntry) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidDutyKind
	}
	if !e.Start.Valid() || !e.End.Valid() {
		return clockFailure(fmt.Sprintf("%d-%d", e.Start, e.End), "clock time out of range")
	}
	if e.Start == e.End {
		return ErrEmptyDutyPeriod
	}
	return nil
}

// Overnight reports whether the period crosses midnight
func (e DutyEntry) Overnight() bool {
	return e.End < e.Start
}

// Span returns start and end in minutes relative to midnight of e.Date.
// For overnight entries end exceeds 24h.
func (e DutyEntry) Span() (start, end int) {
	start, end = int(e.Start), int(e.End)
	if end < start {
		end += minutesPerDay
	}
	return start, end
}

// Duration returns the length of the period
func (e DutyEntry) Duration() Hours {
	start, end := e.Span()
	return HoursFromMinutes(end - start)
}

// AircraftType is referenced by flight-hour entries but never owned by them
type AircraftType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Retired bool   `json:"retired"`
}

// FlightHourEntry is logged flight time for one staff member, day and aircraft type
type FlightHourEntry struct {
	ID             string `json:"id"`
	StaffID        string `json:"staff_id"`
	Date           Date   `json:"date"`
	AircraftTypeID string `json:"aircraft_type_id"`
	Hours          Hours  `json:"hours"`
}

// DailyTotals is one day's duty and flight hours. It is derived, never stored.
type DailyTotals struct {
	DutyHours   float64 `json:"duty_hours"`
	FlightHours float64 `json:"flight_hours"`
}

// Add returns the element-wise sum of t and o
func (t DailyTotals) Add(o DailyTotals) DailyTotals {
	return DailyTotals{
		DutyHours:   t.DutyHours + o.DutyHours,
		FlightHours: t.FlightHours + o.FlightHours,
	}
}

// Value returns the total for the given metric
func (t DailyTotals) Value(metric MetricKind) float64 {
	switch metric {
	case MetricDuty:
		return t.DutyHours
	case MetricFlight:
		return t.FlightHours
	default:
		return 0
	}
}
