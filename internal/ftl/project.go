package ftl

import (
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// LimitMetric is one configured limit evaluated at the anchor date
type LimitMetric struct {
	Name       string            `json:"name"`
	Metric     domain.MetricKind `json:"metric"`
	WindowDays int               `json:"window_days"`
	Total      float64           `json:"total"`
	MaxHours   float64           `json:"max_hours"`
	Percentage float64           `json:"percentage"`
	Progress   float64           `json:"progress"`
	Tier       Tier              `json:"tier"`
	// EndOfMonthTotal is the same window anchored on the last day of the month
	EndOfMonthTotal float64 `json:"end_of_month_total"`
}

// MonthTotals are calendar-month sums; they are informational and not limit-bound
type MonthTotals struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	DutyHours   float64    `json:"duty_hours"`
	FlightHours float64    `json:"flight_hours"`
	// month-to-date through the anchor
	DutyHoursToDate   float64 `json:"duty_hours_to_date"`
	FlightHoursToDate float64 `json:"flight_hours_to_date"`
}

// FTLMetrics is the snapshot for one staff member at one anchor date.
// It is built fresh per query and never mutated afterwards.
type FTLMetrics struct {
	StaffID    string                 `json:"staff_id"`
	AnchorDate domain.Date            `json:"anchor_date"`
	Limits     map[string]LimitMetric `json:"limits"`
	Order      []string               `json:"order"`
	Month      MonthTotals            `json:"month"`
	Today      domain.DailyTotals     `json:"today"`
	WorstTier  Tier                   `json:"worst_tier"`
}

// Ordered returns the limit metrics in limit-table order
func (m FTLMetrics) Ordered() []LimitMetric {
	out := make([]LimitMetric, 0, len(m.Order))
	for _, name := range m.Order {
		if lm, ok := m.Limits[name]; ok {
			out = append(out, lm)
		}
	}
	return out
}

// Limit looks up a single limit metric by name
func (m FTLMetrics) Limit(name string) (LimitMetric, bool) {
	lm, ok := m.Limits[name]
	return lm, ok
}

// Project evaluates every limit in table against series at anchor and adds
// the calendar-month totals. Identical inputs always give identical output.
func Project(staffID string, anchor domain.Date, series *Series, table *domain.LimitTable) FTLMetrics {
	defs := table.Definitions()
	monthEnd := anchor.MonthEnd()

	metrics := FTLMetrics{
		StaffID:    staffID,
		AnchorDate: anchor,
		Limits:     make(map[string]LimitMetric, len(defs)),
		Order:      make([]string, 0, len(defs)),
		Today:      series.Day(anchor),
		WorstTier:  TierNominal,
		Month: MonthTotals{
			Year:              anchor.Year(),
			Month:             anchor.Month(),
			DutyHours:         series.MonthTotal(anchor, domain.MetricDuty),
			FlightHours:       series.MonthTotal(anchor, domain.MetricFlight),
			DutyHoursToDate:   series.MonthToDate(anchor, domain.MetricDuty),
			FlightHoursToDate: series.MonthToDate(anchor, domain.MetricFlight),
		},
	}

	for _, def := range defs {
		total := series.WindowTotal(anchor, def.WindowDays, def.Metric)
		eval := EvaluateWith(total, def, table.ThresholdsFor(def))

		metrics.Limits[def.Name] = LimitMetric{
			Name:            def.Name,
			Metric:          def.Metric,
			WindowDays:      def.WindowDays,
			Total:           eval.Total,
			MaxHours:        eval.MaxHours,
			Percentage:      eval.Percentage,
			Progress:        eval.Progress(),
			Tier:            eval.Tier,
			EndOfMonthTotal: series.WindowTotal(monthEnd, def.WindowDays, def.Metric),
		}
		metrics.Order = append(metrics.Order, def.Name)
		metrics.WorstTier = metrics.WorstTier.Worse(eval.Tier)
	}

	return metrics
}

// ProjectRange projects every anchor in [from, to] from the same series
func ProjectRange(staffID string, from, to domain.Date, series *Series, table *domain.LimitTable) []FTLMetrics {
	if to.Before(from) {
		return nil
	}
	out := make([]FTLMetrics, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, Project(staffID, d, series, table))
	}
	return out
}
