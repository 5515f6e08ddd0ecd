package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/crewdesk/crewdesk/internal/config"
	"github.com/crewdesk/crewdesk/internal/infra/logger"
)

type migrationFile struct {
	version int
	name    string
	path    string
	kind    string // up or down
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	steps := flag.Int("steps", 0, "number of migrations to revert in down mode (0 = all)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, ServiceName: "crewdesk-migrate"})
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.GetDatabaseURL()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Error(ctx, "failed to open database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Error(ctx, "failed to ping database", err, nil)
		os.Exit(1)
	}

	if err := ensureSchemaMigrations(ctx, db); err != nil {
		log.Error(ctx, "failed to ensure schema_migrations", err, nil)
		os.Exit(1)
	}

	files, err := loadMigrationFiles(cfg.Database.MigrationsPath)
	if err != nil {
		log.Error(ctx, "failed to load migrations", err, map[string]interface{}{"path": cfg.Database.MigrationsPath})
		os.Exit(1)
	}

	switch strings.ToLower(*mode) {
	case "up":
		n, err := applyUp(ctx, db, files, log)
		if err != nil {
			log.Error(ctx, "migration up failed", err, nil)
			os.Exit(1)
		}
		log.Info(ctx, "migration up completed", map[string]interface{}{"applied": n})
	case "down":
		n, err := applyDown(ctx, db, files, *steps, log)
		if err != nil {
			log.Error(ctx, "migration down failed", err, nil)
			os.Exit(1)
		}
		log.Info(ctx, "migration down completed", map[string]interface{}{"reverted": n})
	default:
		log.Error(ctx, "unknown migration mode", nil, map[string]interface{}{"mode": *mode})
		os.Exit(2)
	}
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func loadMigrationFiles(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".sql") {
			continue
		}

		kind := "up"
		if strings.HasSuffix(lower, ".down.sql") {
			kind = "down"
		}

		ver, migName, err := parseVersionAndName(name)
		if err != nil {
			continue
		}

		files = append(files, migrationFile{
			version: ver,
			name:    migName,
			path:    filepath.Join(dir, name),
			kind:    kind,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].version != files[j].version {
			return files[i].version < files[j].version
		}
		return files[i].kind > files[j].kind // up before down
	})
	return files, nil
}

// parseVersionAndName splits "001_create_duty_entries.up.sql" into 1 and
// "create_duty_entries"
func parseVersionAndName(filename string) (int, string, error) {
	verStr, rest, ok := strings.Cut(filename, "_")
	if !ok || verStr == "" {
		return 0, "", errors.New("invalid filename")
	}
	ver, err := strconv.Atoi(verStr)
	if err != nil || ver < 0 {
		return 0, "", errors.New("invalid version")
	}

	name := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(rest, ".sql"), ".up"), ".down")
	return ver, name, nil
}

func alreadyApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func applyUp(ctx context.Context, db *sql.DB, files []migrationFile, log logger.Logger) (int, error) {
	applied := 0
	for _, f := range files {
		if f.kind != "up" {
			continue
		}
		done, err := alreadyApplied(ctx, db, f.version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		log.Info(ctx, "applying migration", map[string]interface{}{"version": f.version, "name": f.name})
		err = runInTx(ctx, db, f.path, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations(version, name, applied_at) VALUES($1,$2,$3)", f.version, f.name, time.Now())
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("failed applying %s: %w", f.path, err)
		}
		applied++
	}
	return applied, nil
}

func applyDown(ctx context.Context, db *sql.DB, files []migrationFile, steps int, log logger.Logger) (int, error) {
	var downs []migrationFile
	for _, f := range files {
		if f.kind == "down" {
			downs = append(downs, f)
		}
	}
	sort.Slice(downs, func(i, j int) bool { return downs[i].version > downs[j].version })

	reverted := 0
	for _, f := range downs {
		if steps > 0 && reverted >= steps {
			break
		}
		done, err := alreadyApplied(ctx, db, f.version)
		if err != nil {
			return reverted, err
		}
		if !done {
			continue
		}

		log.Info(ctx, "reverting migration", map[string]interface{}{"version": f.version, "name": f.name})
		err = runInTx(ctx, db, f.path, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version=$1", f.version)
			return err
		})
		if err != nil {
			return reverted, fmt.Errorf("failed reverting %s: %w", f.path, err)
		}
		reverted++
	}
	return reverted, nil
}

// runInTx executes the SQL file and the bookkeeping statement atomically
func runInTx(ctx context.Context, db *sql.DB, path string, record func(tx *sql.Tx) error) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return err
	}
	if err := record(tx); err != nil {
		return err
	}
	return tx.Commit()
}
