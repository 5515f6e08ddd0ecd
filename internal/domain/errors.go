package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Custom errors
var (
	ErrInvalidStaffID    = NewDomainError("invalid staff id")
	ErrInvalidDutyKind   = NewDomainError("invalid duty kind")
	ErrEmptyDutyPeriod   = NewDomainError("duty end must differ from duty start")
	ErrEmptyFlightTime   = NewDomainError("flight time must be greater than zero")
	ErrInvalidDate       = NewDomainError("invalid date")
	ErrInvalidDateRange  = NewDomainError("invalid date range")
	ErrDateRangeTooLarge = NewDomainError("date range too large")
	ErrMissingAircraft   = NewDomainError("aircraft type is required")
)

// ParseFailure is returned when duration or clock text cannot be read.
// Callers must reject the entry; the text is never coerced to zero.
type ParseFailure struct {
	Input  string
	Reason string
	// Field names what was being read; empty means a duration
	Field string
}

// FieldClockTime marks a ParseFailure for a duty start or end time
const FieldClockTime = "clock_time"

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func parseFailure(input, reason string) *ParseFailure {
	return &ParseFailure{Input: input, Reason: reason}
}

func clockFailure(input, reason string) *ParseFailure {
	return &ParseFailure{Input: input, Reason: reason, Field: FieldClockTime}
}

// OverlapViolation reports two duty entries whose wall-clock spans overlap
type OverlapViolation struct {
	Date   Date
	First  string
	Second string
}

func (e *OverlapViolation) Error() string {
	return fmt.Sprintf("duty entries %s and %s overlap on %s", e.First, e.Second, e.Date)
}

// ConfigurationError reports an unusable limit definition.
// It is fatal at load time.
type ConfigurationError struct {
	Limit  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Limit == "" {
		return fmt.Sprintf("invalid limit configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid limit %q: %s", e.Limit, e.Reason)
}
