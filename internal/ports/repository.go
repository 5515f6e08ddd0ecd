package ports

import (
	"context"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// DutyRepository defines the interface for duty entry persistence
type DutyRepository interface {
	// Create saves a new duty entry
	Create(ctx context.Context, entry *domain.DutyEntry) error

	// ListByStaff retrieves duty entries whose start date lies in [from, to]
	ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.DutyEntry, error)
}

// FlightHourRepository defines the interface for flight hour persistence
type FlightHourRepository interface {
	// Create saves a new flight hour entry
	Create(ctx context.Context, entry *domain.FlightHourEntry) error

	// ListByStaff retrieves flight hour entries dated in [from, to]
	ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.FlightHourEntry, error)
}

// AircraftTypeRepository is read-only; aircraft types are managed elsewhere
type AircraftTypeRepository interface {
	// List returns every aircraft type, retired ones included
	List(ctx context.Context) ([]domain.AircraftType, error)

	// FindByIDs returns the types that exist among ids.
	// Missing ids are not an error.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.AircraftType, error)
}
