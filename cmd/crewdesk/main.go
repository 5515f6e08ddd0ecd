package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/crewdesk/crewdesk/internal/adapter/cache"
	httpadapter "github.com/crewdesk/crewdesk/internal/adapter/http"
	"github.com/crewdesk/crewdesk/internal/adapter/persistence"
	"github.com/crewdesk/crewdesk/internal/config"
	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/infra/logger"
	"github.com/crewdesk/crewdesk/internal/ports"
	"github.com/crewdesk/crewdesk/internal/usecase"
)

// Version and build information
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("Crewdesk FTL compliance service\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "crewdesk",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info(ctx, "starting crewdesk", map[string]interface{}{
		"version":     Version,
		"environment": cfg.Server.Environment,
	})

	// A bad limit table is fatal; the service never runs on a partial table.
	limits, err := config.LoadLimitTable(cfg.FTL.LimitsFile)
	if err != nil {
		appLogger.Error(ctx, "failed to load limit table", err, map[string]interface{}{"file": cfg.FTL.LimitsFile})
		os.Exit(1)
	}
	attribution, err := domain.AttributionByName(cfg.FTL.OvernightPolicy)
	if err != nil {
		appLogger.Error(ctx, "invalid overnight policy", err, nil)
		os.Exit(1)
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		appLogger.Error(ctx, "failed to initialize database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	metricsCache, err := cache.NewMetricsCache(ctx, cache.Config{
		Enabled:  cfg.FTL.CacheEnabled,
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
		TTL:      cfg.FTL.CacheTTL,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, "failed to initialize metrics cache", err, nil)
		os.Exit(1)
	}
	if closer, ok := metricsCache.(io.Closer); ok {
		defer closer.Close()
	}

	repos := initRepositories(db)

	ftlUseCase, err := usecase.NewFTLUseCase(repos.Duty, repos.FlightHour, metricsCache, limits, usecase.FTLOptions{
		Attribution:  attribution,
		MaxRangeDays: cfg.FTL.MaxRangeDays,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, "failed to initialize FTL use case", err, nil)
		os.Exit(1)
	}
	entryUseCase := usecase.NewEntryUseCase(repos.Duty, repos.FlightHour, repos.AircraftType, metricsCache, usecase.EntryOptions{
		StrictOverlap: cfg.FTL.StrictOverlap,
		MaxRangeDays:  cfg.FTL.MaxRangeDays,
	}, appLogger)

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
	}, ftlUseCase, entryUseCase, appLogger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "server failed", err, nil)
			os.Exit(1)
		}
	}()

	appLogger.Info(ctx, "server started", map[string]interface{}{
		"limits":           limits.Len(),
		"strict_overlap":   cfg.FTL.StrictOverlap,
		"overnight_policy": cfg.FTL.OvernightPolicy,
		"cache_enabled":    cfg.FTL.CacheEnabled,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "error during server shutdown", err, nil)
	}

	appLogger.Info(shutdownCtx, "server stopped", nil)
}

// initDatabase opens and pings the PostgreSQL connection pool
func initDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxConnections / 2)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Repositories holds all repository implementations
type Repositories struct {
	Duty         ports.DutyRepository
	FlightHour   ports.FlightHourRepository
	AircraftType ports.AircraftTypeRepository
}

func initRepositories(db *sql.DB) Repositories {
	return Repositories{
		Duty:         persistence.NewPostgresDutyRepository(db),
		FlightHour:   persistence.NewPostgresFlightHourRepository(db),
		AircraftType: persistence.NewPostgresAircraftTypeRepository(db),
	}
}
