package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ftl"
	"github.com/crewdesk/crewdesk/internal/infra/logger"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// DailySummary is one day's totals with display strings
type DailySummary struct {
	StaffID     string      `json:"staff_id"`
	Date        domain.Date `json:"date"`
	DutyHours   float64     `json:"duty_hours"`
	FlightHours float64     `json:"flight_hours"`
	Duty        string      `json:"duty"`
	Flight      string      `json:"flight"`
}

// FTLOptions tunes the FTL use case
type FTLOptions struct {
	Attribution  domain.DutyAttribution
	MaxRangeDays int
}

// FTLUseCase answers compliance queries for a staff member
type FTLUseCase struct {
	dutyRepo     ports.DutyRepository
	flightRepo   ports.FlightHourRepository
	cache        ports.MetricsCache
	limits       *domain.LimitTable
	tableFP      uint64
	attribution  domain.DutyAttribution
	maxRangeDays int
	logger       logger.Logger
}

// NewFTLUseCase creates a new FTL use case. cache may be nil.
func NewFTLUseCase(
	dutyRepo ports.DutyRepository,
	flightRepo ports.FlightHourRepository,
	cache ports.MetricsCache,
	limits *domain.LimitTable,
	opts FTLOptions,
	log logger.Logger,
) (*FTLUseCase, error) {
	tableFP, err := ftl.FingerprintTable(limits)
	if err != nil {
		return nil, err
	}
	if opts.Attribution == nil {
		opts.Attribution = domain.AttributeToStartDate
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 366
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &FTLUseCase{
		dutyRepo:     dutyRepo,
		flightRepo:   flightRepo,
		cache:        cache,
		limits:       limits,
		tableFP:      tableFP,
		attribution:  opts.Attribution,
		maxRangeDays: opts.MaxRangeDays,
		logger:       log.WithFields(map[string]interface{}{"component": "ftl_usecase"}),
	}, nil
}

// Limits returns the active limit table in order
func (uc *FTLUseCase) Limits() []domain.LimitDefinition {
	return uc.limits.Definitions()
}

// GetMetrics projects every limit for staffID at anchor
func (uc *FTLUseCase) GetMetrics(ctx context.Context, staffID string, anchor domain.Date) (*ftl.FTLMetrics, error) {
	if err := validateStaffID(staffID); err != nil {
		return nil, err
	}
	start := time.Now()

	from, to := uc.fetchBounds(anchor, anchor)
	points, err := uc.loadDailyTotals(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}

	fp, err := ftl.Fingerprint(points)
	if err != nil {
		return nil, err
	}
	key := ports.MetricsCacheKey(staffID, anchor, uc.tableFP, fp)

	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn(ctx, "metrics cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		} else if ok {
			return cached, nil
		}
	}

	metrics := ftl.Project(staffID, anchor, ftl.NewSeries(points), uc.limits)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, &metrics); err != nil {
			uc.logger.Warn(ctx, "metrics cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	logger.LogPerformance(ctx, uc.logger, "get_metrics", time.Since(start), map[string]interface{}{
		"staff_id":   staffID,
		"anchor":     anchor.String(),
		"days":       len(points),
		"worst_tier": string(metrics.WorstTier),
	})
	return &metrics, nil
}

// GetMetricsRange projects every anchor in [from, to] from a single fetch
func (uc *FTLUseCase) GetMetricsRange(ctx context.Context, staffID string, from, to domain.Date) ([]ftl.FTLMetrics, error) {
	if err := validateStaffID(staffID); err != nil {
		return nil, err
	}
	if err := uc.validateRange(from, to); err != nil {
		return nil, err
	}

	fetchFrom, fetchTo := uc.fetchBounds(from, to)
	points, err := uc.loadDailyTotals(ctx, staffID, fetchFrom, fetchTo)
	if err != nil {
		return nil, err
	}

	return ftl.ProjectRange(staffID, from, to, ftl.NewSeries(points), uc.limits), nil
}

// GetDailyTotals returns the duty and flight hours attributed to one day
func (uc *FTLUseCase) GetDailyTotals(ctx context.Context, staffID string, date domain.Date) (*DailySummary, error) {
	if err := validateStaffID(staffID); err != nil {
		return nil, err
	}

	points, err := uc.loadDailyTotals(ctx, staffID, date, date)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{StaffID: staffID, Date: date}
	for _, p := range points {
		if p.Date.Equal(date) {
			summary.DutyHours = p.Totals.DutyHours
			summary.FlightHours = p.Totals.FlightHours
		}
	}
	summary.Duty = domain.EncodeDuration(domain.Hours(summary.DutyHours))
	summary.Flight = domain.EncodeDuration(domain.Hours(summary.FlightHours))
	return summary, nil
}

// fetchBounds widens [from, to] so every window and month figure for
// anchors in that range can be answered
func (uc *FTLUseCase) fetchBounds(from, to domain.Date) (domain.Date, domain.Date) {
	lower := from.AddDays(-(uc.limits.MaxWindowDays() - 1))
	if ms := from.MonthStart(); ms.Before(lower) {
		lower = ms
	}
	return lower, to.MonthEnd()
}

// loadDailyTotals aggregates the entries attributed to [from, to]. Duties
// starting the day before are read too, since a split policy can move
// part of them into the range.
func (uc *FTLUseCase) loadDailyTotals(ctx context.Context, staffID string, from, to domain.Date) ([]domain.DayTotals, error) {
	duties, err := uc.dutyRepo.ListByStaff(ctx, staffID, from.AddDays(-1), to)
	if err != nil {
		return nil, fmt.Errorf("failed to list duties: %w", err)
	}
	flights, err := uc.flightRepo.ListByStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight hours: %w", err)
	}

	all := domain.BuildDailyTotals(duties, flights, uc.attribution)
	points := all[:0]
	for _, p := range all {
		if !p.Date.Before(from) && !p.Date.After(to) {
			points = append(points, p)
		}
	}
	return points, nil
}

func (uc *FTLUseCase) validateRange(from, to domain.Date) error {
	if to.Before(from) {
		return domain.ErrInvalidDateRange
	}
	if to.DaysSince(from)+1 > uc.maxRangeDays {
		return fmt.Errorf("%w: at most %d days", domain.ErrDateRangeTooLarge, uc.maxRangeDays)
	}
	return nil
}

func validateStaffID(staffID string) error {
	if _, err := uuid.Parse(staffID); err != nil {
		return domain.ErrInvalidStaffID
	}
	return nil
}
