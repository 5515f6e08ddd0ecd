package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// PostgresFlightHourRepository implements FlightHourRepository using PostgreSQL.
// aircraft_type_id carries no foreign key: types may be deleted while the
// hours logged against them remain.
type PostgresFlightHourRepository struct {
	db *sql.DB
}

// NewPostgresFlightHourRepository creates a new PostgreSQL flight hour repository
func NewPostgresFlightHourRepository(db *sql.DB) ports.FlightHourRepository {
	return &PostgresFlightHourRepository{db: db}
}

// Create saves a new flight hour entry
func (r *PostgresFlightHourRepository) Create(ctx context.Context, entry *domain.FlightHourEntry) error {
	query := `
		INSERT INTO flight_hour_entries (id, staff_id, flight_date, aircraft_type_id, hours, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.StaffID,
		entry.Date.String(),
		entry.AircraftTypeID,
		float64(entry.Hours),
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to create flight hour entry: %w", err)
	}

	return nil
}

// ListByStaff retrieves flight hour entries dated in [from, to]
func (r *PostgresFlightHourRepository) ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.FlightHourEntry, error) {
	query := `
		SELECT id, staff_id, flight_date, aircraft_type_id, hours
		FROM flight_hour_entries
		WHERE staff_id = $1 AND flight_date BETWEEN $2::date AND $3::date
		ORDER BY flight_date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, staffID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query flight hour entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.FlightHourEntry

	for rows.Next() {
		var (
			entry      domain.FlightHourEntry
			flightDate time.Time
			hours      float64
		)

		if err := rows.Scan(&entry.ID, &entry.StaffID, &flightDate, &entry.AircraftTypeID, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan flight hour entry: %w", err)
		}

		entry.Date = domain.DateOf(flightDate)
		entry.Hours = domain.Hours(hours)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flight hour entries: %w", err)
	}

	return entries, nil
}
