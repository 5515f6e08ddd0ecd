package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/infra/logger"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// LogFlightHoursRequest represents the request to log flight time
type LogFlightHoursRequest struct {
	StaffID        string `json:"-"`
	Date           string `json:"date"`
	AircraftTypeID string `json:"aircraft_type_id"`
	// Duration accepts "HH:MM", decimal hours or whole hours
	Duration string `json:"duration"`
}

// RecordDutyRequest represents the request to record a duty period
type RecordDutyRequest struct {
	StaffID string `json:"-"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Kind    string `json:"kind"`
}

// FlightHourView is a flight hour entry prepared for display
type FlightHourView struct {
	ID               string      `json:"id"`
	Date             domain.Date `json:"date"`
	AircraftTypeID   string      `json:"aircraft_type_id"`
	AircraftTypeName string      `json:"aircraft_type_name"`
	// Known is false when the aircraft type id resolves to nothing
	Known    bool    `json:"known"`
	Retired  bool    `json:"retired"`
	Hours    float64 `json:"hours"`
	Duration string  `json:"duration"`
}

// DutyView is a duty entry prepared for display
type DutyView struct {
	ID        string          `json:"id"`
	Date      domain.Date     `json:"date"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Kind      domain.DutyKind `json:"kind"`
	Overnight bool            `json:"overnight"`
	Duration  string          `json:"duration"`
}

// EntryUseCase records and lists duty and flight hour entries
type EntryUseCase struct {
	dutyRepo      ports.DutyRepository
	flightRepo    ports.FlightHourRepository
	aircraftRepo  ports.AircraftTypeRepository
	cache         ports.MetricsCache
	strictOverlap bool
	maxRangeDays  int
	logger        logger.Logger
}

// EntryOptions tunes the entry use case
type EntryOptions struct {
	// StrictOverlap rejects duty periods that overlap an existing one
	StrictOverlap bool
	MaxRangeDays  int
}

// NewEntryUseCase creates a new entry use case. cache may be nil.
func NewEntryUseCase(
	dutyRepo ports.DutyRepository,
	flightRepo ports.FlightHourRepository,
	aircraftRepo ports.AircraftTypeRepository,
	cache ports.MetricsCache,
	opts EntryOptions,
	log logger.Logger,
) *EntryUseCase {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 366
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &EntryUseCase{
		dutyRepo:      dutyRepo,
		flightRepo:    flightRepo,
		aircraftRepo:  aircraftRepo,
		cache:         cache,
		strictOverlap: opts.StrictOverlap,
		maxRangeDays:  opts.MaxRangeDays,
		logger:        log.WithFields(map[string]interface{}{"component": "entry_usecase"}),
	}
}

// LogFlightHours validates and saves flight time. Unreadable duration text
// is rejected with a *domain.ParseFailure and nothing is saved.
func (uc *EntryUseCase) LogFlightHours(ctx context.Context, req LogFlightHoursRequest) (*FlightHourView, error) {
	if err := validateStaffID(req.StaffID); err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
	}
	hours, err := domain.DecodeDuration(req.Duration)
	if err != nil {
		return nil, err
	}
	if hours <= 0 {
		return nil, domain.ErrEmptyFlightTime
	}
	aircraftID := strings.TrimSpace(req.AircraftTypeID)
	if aircraftID == "" {
		return nil, domain.ErrMissingAircraft
	}

	entry := &domain.FlightHourEntry{
		ID:             uuid.NewString(),
		StaffID:        req.StaffID,
		Date:           date,
		AircraftTypeID: aircraftID,
		Hours:          hours,
	}

	// weak reference: an unknown type is logged, not rejected
	types, err := uc.aircraftRepo.FindByIDs(ctx, []string{aircraftID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve aircraft type: %w", err)
	}
	if _, ok := types[aircraftID]; !ok {
		uc.logger.Warn(ctx, "flight hours logged against unknown aircraft type", map[string]interface{}{
			"staff_id":         req.StaffID,
			"aircraft_type_id": aircraftID,
		})
	}

	if err := uc.flightRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save flight hours: %w", err)
	}
	uc.invalidate(ctx, req.StaffID)

	uc.logger.Info(ctx, "flight hours logged", map[string]interface{}{
		"staff_id": req.StaffID,
		"entry_id": entry.ID,
		"date":     date.String(),
		"hours":    float64(hours),
	})

	view := flightView(*entry, types)
	return &view, nil
}

// RecordDuty validates and saves a duty period
func (uc *EntryUseCase) RecordDuty(ctx context.Context, req RecordDutyRequest) (*DutyView, error) {
	if err := validateStaffID(req.StaffID); err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
	}
	start, err := domain.ParseClockTime(req.Start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseClockTime(req.End)
	if err != nil {
		return nil, err
	}

	entry := &domain.DutyEntry{
		ID:      uuid.NewString(),
		StaffID: req.StaffID,
		Date:    date,
		Start:   start,
		End:     end,
		Kind:    domain.DutyKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if uc.strictOverlap {
		if err := uc.checkOverlap(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := uc.dutyRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save duty: %w", err)
	}
	uc.invalidate(ctx, req.StaffID)

	uc.logger.Info(ctx, "duty recorded", map[string]interface{}{
		"staff_id":  req.StaffID,
		"entry_id":  entry.ID,
		"date":      date.String(),
		"kind":      string(entry.Kind),
		"overnight": entry.Overnight(),
	})

	view := dutyView(*entry)
	return &view, nil
}

// ListFlightHours returns flight hour entries in [from, to] for display.
// Entries whose aircraft type no longer resolves keep their raw id.
func (uc *EntryUseCase) ListFlightHours(ctx context.Context, staffID string, from, to domain.Date) ([]FlightHourView, error) {
	if err := validateStaffID(staffID); err != nil {
		return nil, err
	}
	if err := uc.validateRange(from, to); err != nil {
		return nil, err
	}

	entries, err := uc.flightRepo.ListByStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight hours: %w", err)
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !seen[e.AircraftTypeID] {
			seen[e.AircraftTypeID] = true
			ids = append(ids, e.AircraftTypeID)
		}
	}

	types := map[string]domain.AircraftType{}
	if len(ids) > 0 {
		types, err = uc.aircraftRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve aircraft types: %w", err)
		}
	}

	views := make([]FlightHourView, 0, len(entries))
	for _, e := range entries {
		views = append(views, flightView(e, types))
	}
	return views, nil
}

// ListDuties returns duty entries starting in [from, to] for display
func (uc *EntryUseCase) ListDuties(ctx context.Context, staffID string, from, to domain.Date) ([]DutyView, error) {
	if err := validateStaffID(staffID); err != nil {
		return nil, err
	}
	if err := uc.validateRange(from, to); err != nil {
		return nil, err
	}

	entries, err := uc.dutyRepo.ListByStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list duties: %w", err)
	}

	views := make([]DutyView, 0, len(entries))
	for _, e := range entries {
		views = append(views, dutyView(e))
	}
	return views, nil
}

// ListAircraftTypes returns every aircraft type
func (uc *EntryUseCase) ListAircraftTypes(ctx context.Context) ([]domain.AircraftType, error) {
	types, err := uc.aircraftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list aircraft types: %w", err)
	}
	return types, nil
}

// checkOverlap compares entry with each stored duty that could touch it.
// Pre-existing overlaps between stored entries are not reported here.
func (uc *EntryUseCase) checkOverlap(ctx context.Context, entry *domain.DutyEntry) error {
	existing, err := uc.dutyRepo.ListByStaff(ctx, entry.StaffID, entry.Date.AddDays(-1), entry.Date.AddDays(1))
	if err != nil {
		return fmt.Errorf("failed to list duties: %w", err)
	}
	for _, e := range existing {
		if err := domain.CheckOverlaps([]domain.DutyEntry{e, *entry}); err != nil {
			return err
		}
	}
	return nil
}

func (uc *EntryUseCase) invalidate(ctx context.Context, staffID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, staffID); err != nil {
		uc.logger.Error(ctx, "failed to invalidate metrics cache", err, map[string]interface{}{"staff_id": staffID})
	}
}

func (uc *EntryUseCase) validateRange(from, to domain.Date) error {
	if to.Before(from) {
		return domain.ErrInvalidDateRange
	}
	if to.DaysSince(from)+1 > uc.maxRangeDays {
		return fmt.Errorf("%w: at most %d days", domain.ErrDateRangeTooLarge, uc.maxRangeDays)
	}
	return nil
}

func flightView(e domain.FlightHourEntry, types map[string]domain.AircraftType) FlightHourView {
	view := FlightHourView{
		ID:               e.ID,
		Date:             e.Date,
		AircraftTypeID:   e.AircraftTypeID,
		AircraftTypeName: e.AircraftTypeID,
		Hours:            float64(e.Hours),
		Duration:         domain.EncodeDuration(e.Hours),
	}
	if t, ok := types[e.AircraftTypeID]; ok {
		view.AircraftTypeName = t.Name
		view.Known = true
		view.Retired = t.Retired
	}
	return view
}

func dutyView(e domain.DutyEntry) DutyView {
	return DutyView{
		ID:        e.ID,
		Date:      e.Date,
		Start:     e.Start.String(),
		End:       e.End.String(),
		Kind:      e.Kind,
		Overnight: e.Overnight(),
		Duration:  domain.EncodeDuration(e.Duration()),
	}
}
