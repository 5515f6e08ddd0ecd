package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ftl"
	"github.com/crewdesk/crewdesk/internal/usecase"
)

// FTLUseCase defines the behavior the FTL handler depends on
type FTLUseCase interface {
	GetMetrics(ctx context.Context, staffID string, anchor domain.Date) (*ftl.FTLMetrics, error)
	GetMetricsRange(ctx context.Context, staffID string, from, to domain.Date) ([]ftl.FTLMetrics, error)
	GetDailyTotals(ctx context.Context, staffID string, date domain.Date) (*usecase.DailySummary, error)
	Limits() []domain.LimitDefinition
}

// FTLHandler handles compliance queries
type FTLHandler struct {
	ftlUseCase FTLUseCase
	now        func() time.Time
}

// NewFTLHandler creates a new FTL handler
func NewFTLHandler(ftlUseCase FTLUseCase) *FTLHandler {
	return &FTLHandler{ftlUseCase: ftlUseCase, now: time.Now}
}

// RegisterRoutes registers FTL routes
func (h *FTLHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/staff/{id}/ftl", h.GetMetrics).Methods("GET")
	router.HandleFunc("/api/v1/staff/{id}/ftl/range", h.GetMetricsRange).Methods("GET")
	router.HandleFunc("/api/v1/staff/{id}/daily", h.GetDailyTotals).Methods("GET")
	router.HandleFunc("/api/v1/limits", h.ListLimits).Methods("GET")
	router.HandleFunc("/api/v1/durations/normalize", h.NormalizeDurations).Methods("POST")
}

// metricsResponse lists limits in table order rather than as a map
type metricsResponse struct {
	StaffID    string             `json:"staff_id"`
	AnchorDate domain.Date        `json:"anchor_date"`
	Limits     []ftl.LimitMetric  `json:"limits"`
	Month      ftl.MonthTotals    `json:"month"`
	Today      domain.DailyTotals `json:"today"`
	WorstTier  ftl.Tier           `json:"worst_tier"`
}

func toMetricsResponse(m ftl.FTLMetrics) metricsResponse {
	return metricsResponse{
		StaffID:    m.StaffID,
		AnchorDate: m.AnchorDate,
		Limits:     m.Ordered(),
		Month:      m.Month,
		Today:      m.Today,
		WorstTier:  m.WorstTier,
	}
}

// GetMetrics handles a single-anchor projection; date defaults to today (UTC)
func (h *FTLHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["id"]

	anchor, ok := h.dateParam(w, r, "date")
	if !ok {
		return
	}

	metrics, err := h.ftlUseCase.GetMetrics(r.Context(), staffID, anchor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "FTL metrics retrieved successfully", toMetricsResponse(*metrics))
}

// GetMetricsRange handles projections for every anchor in [from, to]
func (h *FTLHandler) GetMetricsRange(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["id"]

	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_date_range", "Both from and to are required")
		return
	}
	from, ok := h.dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.dateParam(w, r, "to")
	if !ok {
		return
	}

	out, err := h.ftlUseCase.GetMetricsRange(r.Context(), staffID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]metricsResponse, 0, len(out))
	for _, m := range out {
		resp = append(resp, toMetricsResponse(m))
	}
	writeSuccessResponse(w, http.StatusOK, "FTL metrics retrieved successfully", resp)
}

// GetDailyTotals handles the per-day hours summary
func (h *FTLHandler) GetDailyTotals(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["id"]

	date, ok := h.dateParam(w, r, "date")
	if !ok {
		return
	}

	summary, err := h.ftlUseCase.GetDailyTotals(r.Context(), staffID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccessResponse(w, http.StatusOK, "Daily totals retrieved successfully", summary)
}

// ListLimits returns the active limit table
func (h *FTLHandler) ListLimits(w http.ResponseWriter, r *http.Request) {
	writeSuccessResponse(w, http.StatusOK, "Limits retrieved successfully", h.ftlUseCase.Limits())
}

type normalizeRequest struct {
	Values []string `json:"values"`
}

type normalizedValue struct {
	Input      string              `json:"input"`
	Form       domain.DurationForm `json:"form"`
	Hours      float64             `json:"hours"`
	Normalized string              `json:"normalized,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// NormalizeDurations reads each value and reports its HH:MM form.
// Unreadable values are reported individually, never coerced to zero.
func (h *FTLHandler) NormalizeDurations(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if len(req.Values) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "At least one value is required")
		return
	}

	out := make([]normalizedValue, 0, len(req.Values))
	for _, v := range req.Values {
		in := domain.ParseDuration(v)
		item := normalizedValue{Input: v, Form: in.Form}
		if in.Valid() {
			item.Hours = float64(in.Hours)
			item.Normalized = domain.EncodeDuration(in.Hours)
		} else {
			item.Error = in.Err.Error()
		}
		out = append(out, item)
	}

	writeSuccessResponse(w, http.StatusOK, "Durations normalized", out)
}

// dateParam reads a YYYY-MM-DD query parameter, defaulting to today
func (h *FTLHandler) dateParam(w http.ResponseWriter, r *http.Request, name string) (domain.Date, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.DateOf(h.now()), true
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_date", "Dates must be formatted YYYY-MM-DD")
		return domain.Date{}, false
	}
	return d, true
}
