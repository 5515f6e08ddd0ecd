package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/usecase"
)

// EntryUseCase defines the behavior the entry handler depends on
type EntryUseCase interface {
	LogFlightHours(ctx context.Context, req usecase.LogFlightHoursRequest) (*usecase.FlightHourView, error)
	RecordDuty(ctx context.Context, req usecase.RecordDutyRequest) (*usecase.DutyView, error)
	ListFlightHours(ctx context.Context, staffID string, from, to domain.Date) ([]usecase.FlightHourView, error)
	ListDuties(ctx context.Context, staffID string, from, to domain.Date) ([]usecase.DutyView, error)
	ListAircraftTypes(ctx context.Context) ([]domain.AircraftType, error)
}

// EntryHandler handles duty and flight hour entries
type EntryHandler struct {
	entryUseCase EntryUseCase
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryUseCase EntryUseCase) *EntryHandler {
	return &EntryHandler{entryUseCase: entryUseCase}
}

// RegisterRoutes registers entry routes
func (h *EntryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/staff/{id}/flight-hours", h.LogFlightHours).Methods("POST")
	router.HandleFunc("/api/v1/staff/{id}/flight-hours", h.ListFlightHours).Methods("GET")
	router.HandleFunc("/api/v1/staff/{id}/duties", h.RecordDuty).Methods("POST")
	router.HandleFunc("/api/v1/staff/{id}/duties", h.ListDuties).Methods("GET")
	router.HandleFunc("/api/v1/aircraft-types", h.ListAircraftTypes).Methods("GET")
}

// LogFlightHours handles flight time logging
func (h *EntryHandler) LogFlightHours(w http.ResponseWriter, r *http.Request) {
	var req usecase.LogFlightHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.StaffID = mux.Vars(r)["id"]

	view, err := h.entryUseCase.LogFlightHours(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, "Flight hours logged successfully", view)
}

// RecordDuty handles duty period recording
func (h *EntryHandler) RecordDuty(w http.ResponseWriter, r *http.Request) {
	var req usecase.RecordDutyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.StaffID = mux.Vars(r)["id"]

	view, err := h.entryUseCase.RecordDuty(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusCreated, "Duty recorded successfully", view)
}

// ListFlightHours handles listing flight hours in a date range
func (h *EntryHandler) ListFlightHours(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r)
	if !ok {
		return
	}

	views, err := h.entryUseCase.ListFlightHours(r.Context(), mux.Vars(r)["id"], from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Flight hours retrieved successfully", views)
}

// ListDuties handles listing duties in a date range
func (h *EntryHandler) ListDuties(w http.ResponseWriter, r *http.Request) {
	from, to, ok := rangeParams(w, r)
	if !ok {
		return
	}

	views, err := h.entryUseCase.ListDuties(r.Context(), mux.Vars(r)["id"], from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Duties retrieved successfully", views)
}

// ListAircraftTypes handles listing aircraft types
func (h *EntryHandler) ListAircraftTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.entryUseCase.ListAircraftTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Aircraft types retrieved successfully", types)
}

func rangeParams(w http.ResponseWriter, r *http.Request) (domain.Date, domain.Date, bool) {
	q := r.URL.Query()
	from, err := domain.ParseDate(q.Get("from"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_date", "from must be formatted YYYY-MM-DD")
		return domain.Date{}, domain.Date{}, false
	}
	to, err := domain.ParseDate(q.Get("to"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_date", "to must be formatted YYYY-MM-DD")
		return domain.Date{}, domain.Date{}, false
	}
	return from, to, true
}
