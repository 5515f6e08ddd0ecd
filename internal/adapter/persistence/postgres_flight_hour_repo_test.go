package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/domain"
)

const flightHourMigration = "003_create_flight_hour_entries.up.sql"

func readMigration(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", name))
	require.NoError(t, err)
	return string(data)
}

func TestFlightHourSchema_HoursColumnIsUnscaled(t *testing.T) {
	sqlText := readMigration(t, flightHourMigration)

	column := regexp.MustCompile(`(?m)^\s*hours\s+([A-Z ]+?(?:\(\d+,\s*\d+\))?)\s+NOT NULL`).FindStringSubmatch(sqlText)
	require.Len(t, column, 2, "hours column not found")
	assert.Equal(t, "DOUBLE PRECISION", strings.TrimSpace(column[1]))
}

// openTestDB connects to CREWDESK_TEST_DATABASE_URL inside a throwaway schema
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("CREWDESK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CREWDESK_TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))

	schema := "crewdesk_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s; SET search_path TO %s", schema, schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		db.Close()
	})

	_, err = db.ExecContext(ctx, readMigration(t, flightHourMigration))
	require.NoError(t, err)
	return db
}

func TestPostgresFlightHourRepository_DurationRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresFlightHourRepository(db)
	ctx := context.Background()
	staffID := uuid.NewString()
	day := domain.NewDate(2024, time.February, 10)

	inputs := []string{"00:02", "01:20", "03:20", "1.7", "0:01"}
	for _, text := range inputs {
		hours, err := domain.DecodeDuration(text)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, &domain.FlightHourEntry{
			ID:             uuid.NewString(),
			StaffID:        staffID,
			Date:           day,
			AircraftTypeID: "a320",
			Hours:          hours,
		}))
	}

	entries, err := repo.ListByStaff(ctx, staffID, day, day)
	require.NoError(t, err)
	require.Len(t, entries, len(inputs))

	for i, text := range inputs {
		want, _ := domain.NormalizeDuration(text)
		assert.Equal(t, want, domain.EncodeDuration(entries[i].Hours), "entry %d (%s)", i, text)
	}
}
