package ftl

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/crewdesk/crewdesk/internal/domain"
)

type fingerprintPoint struct {
	Day    string
	Duty   float64
	Flight float64
}

// Fingerprint hashes a daily series so a host can key cached projections on
// it. Order of points does not matter; changing any day's totals changes
// the hash.
func Fingerprint(points []domain.DayTotals) (uint64, error) {
	fp := make([]fingerprintPoint, 0, len(points))
	for _, p := range points {
		fp = append(fp, fingerprintPoint{
			Day:    p.Date.String(),
			Duty:   p.Totals.DutyHours,
			Flight: p.Totals.FlightHours,
		})
	}
	sort.Slice(fp, func(i, j int) bool {
		if fp[i].Day != fp[j].Day {
			return fp[i].Day < fp[j].Day
		}
		if fp[i].Duty != fp[j].Duty {
			return fp[i].Duty < fp[j].Duty
		}
		return fp[i].Flight < fp[j].Flight
	})

	hash, err := hashstructure.Hash(fp, hashstructure.FormatV2, &hashstructure.HashOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint daily series: %w", err)
	}
	return hash, nil
}

type fingerprintLimit struct {
	Name        string
	Metric      string
	WindowDays  int
	MaxHours    float64
	Approaching float64
	Exceeded    float64
}

// FingerprintTable hashes the effective definitions of a limit table,
// thresholds included. Definition order is significant.
func FingerprintTable(table *domain.LimitTable) (uint64, error) {
	defs := table.Definitions()
	fl := make([]fingerprintLimit, 0, len(defs))
	for _, d := range defs {
		th := table.ThresholdsFor(d)
		fl = append(fl, fingerprintLimit{
			Name:        d.Name,
			Metric:      string(d.Metric),
			WindowDays:  d.WindowDays,
			MaxHours:    d.MaxHours,
			Approaching: th.Approaching,
			Exceeded:    th.Exceeded,
		})
	}

	hash, err := hashstructure.Hash(fl, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint limit table: %w", err)
	}
	return hash, nil
}
