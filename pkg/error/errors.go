package error

import (
	"errors"
	"net/http"

	"github.com/crewdesk/crewdesk/internal/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "bad_request", Message: "Bad request", Status: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "not_found", Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "internal_error", Message: "Internal server error", Status: http.StatusInternalServerError}
)

func NewBadRequest(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "not_found", Message: message, Status: http.StatusNotFound}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "internal_error", Message: message, Status: http.StatusInternalServerError}
}

func NewConflict(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: http.StatusConflict}
}

// MapError translates domain and use case errors into HTTP-facing errors
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var parseErr *domain.ParseFailure
	if errors.As(err, &parseErr) {
		if parseErr.Field == domain.FieldClockTime {
			return NewBadRequest("invalid_clock_time", parseErr.Error())
		}
		return NewBadRequest("invalid_duration", parseErr.Error())
	}

	var overlap *domain.OverlapViolation
	if errors.As(err, &overlap) {
		return NewConflict("duty_overlap", overlap.Error())
	}

	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return NewInternalServer("Limit configuration is invalid")
	}

	switch {
	case errors.Is(err, domain.ErrInvalidStaffID):
		return NewBadRequest("invalid_staff_id", err.Error())
	case errors.Is(err, domain.ErrInvalidDutyKind):
		return NewBadRequest("invalid_duty_kind", err.Error())
	case errors.Is(err, domain.ErrEmptyDutyPeriod):
		return NewBadRequest("empty_duty_period", err.Error())
	case errors.Is(err, domain.ErrEmptyFlightTime):
		return NewBadRequest("empty_flight_time", err.Error())
	case errors.Is(err, domain.ErrMissingAircraft):
		return NewBadRequest("missing_aircraft_type", err.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		return NewBadRequest("invalid_date", err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange), errors.Is(err, domain.ErrDateRangeTooLarge):
		return NewBadRequest("invalid_date_range", err.Error())
	default:
		return NewInternalServer("An unexpected error occurred")
	}
}
