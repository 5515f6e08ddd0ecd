package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// recordsFile is the on-disk shape of an offline records file.
// Dates and times stay as text so the domain parsers own their formats.
type recordsFile struct {
	StaffID string         `yaml:"staff_id"`
	Duties  []dutyRecord   `yaml:"duties"`
	Flights []flightRecord `yaml:"flights"`
}

type dutyRecord struct {
	Date  string `yaml:"date"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Kind  string `yaml:"kind"`
}

type flightRecord struct {
	Date         string `yaml:"date"`
	AircraftType string `yaml:"aircraft_type"`
	Duration     string `yaml:"duration"`
}

type records struct {
	StaffID string
	Duties  []domain.DutyEntry
	Flights []domain.FlightHourEntry
}

func loadRecords(path string) (*records, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	return parseRecords(data)
}

// parseRecords validates every entry the same way the service does; the
// first bad entry fails the whole file with its position.
func parseRecords(data []byte) (*records, error) {
	var file recordsFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("malformed records file: %w", err)
	}

	out := &records{StaffID: file.StaffID}
	if out.StaffID == "" {
		out.StaffID = "offline"
	}

	for i, r := range file.Duties {
		entry, err := r.toEntry(out.StaffID, i)
		if err != nil {
			return nil, fmt.Errorf("duties[%d]: %w", i, err)
		}
		out.Duties = append(out.Duties, entry)
	}
	if err := domain.CheckOverlaps(out.Duties); err != nil {
		// overlaps are reported but still counted, as in lenient mode
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	for i, r := range file.Flights {
		entry, err := r.toEntry(out.StaffID, i)
		if err != nil {
			return nil, fmt.Errorf("flights[%d]: %w", i, err)
		}
		out.Flights = append(out.Flights, entry)
	}

	return out, nil
}

func (r dutyRecord) toEntry(staffID string, i int) (domain.DutyEntry, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.DutyEntry{}, err
	}
	start, err := domain.ParseClockTime(r.Start)
	if err != nil {
		return domain.DutyEntry{}, err
	}
	end, err := domain.ParseClockTime(r.End)
	if err != nil {
		return domain.DutyEntry{}, err
	}
	kind := domain.DutyKind(strings.ToUpper(strings.TrimSpace(r.Kind)))
	if kind == "" {
		kind = domain.DutyKindFlight
	}

	entry := domain.DutyEntry{
		ID:      fmt.Sprintf("duty-%d", i+1),
		StaffID: staffID,
		Date:    date,
		Start:   start,
		End:     end,
		Kind:    kind,
	}
	if err := entry.Validate(); err != nil {
		return domain.DutyEntry{}, err
	}
	return entry, nil
}

func (r flightRecord) toEntry(staffID string, i int) (domain.FlightHourEntry, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.FlightHourEntry{}, err
	}
	hours, err := domain.DecodeDuration(r.Duration)
	if err != nil {
		return domain.FlightHourEntry{}, err
	}
	if hours <= 0 {
		return domain.FlightHourEntry{}, domain.ErrEmptyFlightTime
	}

	return domain.FlightHourEntry{
		ID:             fmt.Sprintf("flight-%d", i+1),
		StaffID:        staffID,
		Date:           date,
		AircraftTypeID: strings.TrimSpace(r.AircraftType),
		Hours:          hours,
	}, nil
}
