package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// PostgresAircraftTypeRepository implements AircraftTypeRepository using PostgreSQL
type PostgresAircraftTypeRepository struct {
	db *sql.DB
}

// NewPostgresAircraftTypeRepository creates a new PostgreSQL aircraft type repository
func NewPostgresAircraftTypeRepository(db *sql.DB) ports.AircraftTypeRepository {
	return &PostgresAircraftTypeRepository{db: db}
}

// List returns every aircraft type, retired ones included
func (r *PostgresAircraftTypeRepository) List(ctx context.Context) ([]domain.AircraftType, error) {
	query := `
		SELECT id, name, retired
		FROM aircraft_types
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft types: %w", err)
	}
	defer rows.Close()

	var types []domain.AircraftType
	for rows.Next() {
		var t domain.AircraftType
		if err := rows.Scan(&t.ID, &t.Name, &t.Retired); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft type: %w", err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aircraft types: %w", err)
	}

	return types, nil
}

// FindByIDs returns the types that exist among ids
func (r *PostgresAircraftTypeRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.AircraftType, error) {
	found := make(map[string]domain.AircraftType, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `
		SELECT id, name, retired
		FROM aircraft_types
		WHERE id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.AircraftType
		if err := rows.Scan(&t.ID, &t.Name, &t.Retired); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft type: %w", err)
		}
		found[t.ID] = t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aircraft types: %w", err)
	}

	return found, nil
}
