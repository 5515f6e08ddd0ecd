package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// PostgresDutyRepository implements DutyRepository using PostgreSQL
type PostgresDutyRepository struct {
	db *sql.DB
}

// NewPostgresDutyRepository creates a new PostgreSQL duty repository
func NewPostgresDutyRepository(db *sql.DB) ports.DutyRepository {
	return &PostgresDutyRepository{db: db}
}

// Create saves a new duty entry
func (r *PostgresDutyRepository) Create(ctx context.Context, entry *domain.DutyEntry) error {
	query := `
		INSERT INTO duty_entries (id, staff_id, duty_date, start_minute, end_minute, kind, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.StaffID,
		entry.Date.String(),
		int(entry.Start),
		int(entry.End),
		string(entry.Kind),
		time.Now().UTC(),
	)

	if err != nil {
		return fmt.Errorf("failed to create duty entry: %w", err)
	}

	return nil
}

// ListByStaff retrieves duty entries whose start date lies in [from, to]
func (r *PostgresDutyRepository) ListByStaff(ctx context.Context, staffID string, from, to domain.Date) ([]domain.DutyEntry, error) {
	query := `
		SELECT id, staff_id, duty_date, start_minute, end_minute, kind
		FROM duty_entries
		WHERE staff_id = $1 AND duty_date BETWEEN $2::date AND $3::date
		ORDER BY duty_date ASC, start_minute ASC
	`

	rows, err := r.db.QueryContext(ctx, query, staffID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query duty entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DutyEntry

	for rows.Next() {
		var (
			entry      domain.DutyEntry
			dutyDate   time.Time
			start, end int
			kind       string
		)

		if err := rows.Scan(&entry.ID, &entry.StaffID, &dutyDate, &start, &end, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan duty entry: %w", err)
		}

		entry.Date = domain.DateOf(dutyDate)
		entry.Start = domain.ClockTime(start)
		entry.End = domain.ClockTime(end)
		entry.Kind = domain.DutyKind(kind)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duty entries: %w", err)
	}

	return entries, nil
}
