package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Logging  LoggingConfig  `json:"logging"`
	FTL      FTLConfig      `json:"ftl"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
	CORSOrigins  []string      `json:"cors_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"dbname"`
	SSLMode        string        `json:"sslmode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleTime    time.Duration `json:"max_idle_time"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	MigrationsPath string        `json:"migrations_path"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	PoolSize int           `json:"pool_size"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json, text
}

// FTLConfig controls the compliance engine host
type FTLConfig struct {
	// LimitsFile is a YAML limit table; empty means the built-in defaults
	LimitsFile      string        `json:"limits_file"`
	StrictOverlap   bool          `json:"strict_overlap"`
	CacheEnabled    bool          `json:"cache_enabled"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	OvernightPolicy string        `json:"overnight_policy"`
	MaxRangeDays    int           `json:"max_range_days"`
}

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	env := &envReader{}
	config := &Config{
		Server: ServerConfig{
			Port:         env.String("SERVER_PORT", "8080"),
			Host:         env.String("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  env.Duration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: env.Duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  env.Duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			Environment:  env.String("ENVIRONMENT", "development"),
			CORSOrigins:  env.Slice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:           env.String("DB_HOST", "localhost"),
			Port:           env.Int("DB_PORT", 5432),
			User:           env.String("DB_USER", "postgres"),
			Password:       env.String("DB_PASSWORD", ""),
			DBName:         env.String("DB_NAME", "crewdesk"),
			SSLMode:        env.String("DB_SSLMODE", "disable"),
			MaxConnections: env.Int("DB_MAX_CONNECTIONS", 20),
			MaxIdleTime:    env.Duration("DB_MAX_IDLE_TIME", 30*time.Minute),
			ConnectTimeout: env.Duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			MigrationsPath: env.String("DB_MIGRATIONS_PATH", "./migrations"),
		},
		Redis: RedisConfig{
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.Int("REDIS_PORT", 6379),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
			PoolSize: env.Int("REDIS_POOL_SIZE", 10),
			Timeout:  env.Duration("REDIS_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:  env.String("LOG_LEVEL", "info"),
			Format: env.String("LOG_FORMAT", "json"),
		},
		FTL: FTLConfig{
			LimitsFile:      env.String("FTL_LIMITS_FILE", ""),
			StrictOverlap:   env.Bool("FTL_STRICT_OVERLAP", false),
			CacheEnabled:    env.Bool("FTL_CACHE_ENABLED", false),
			CacheTTL:        env.Duration("FTL_CACHE_TTL", 10*time.Minute),
			OvernightPolicy: env.String("FTL_OVERNIGHT_POLICY", domain.AttributionStartDate),
			MaxRangeDays:    env.Int("FTL_MAX_RANGE_DAYS", 366),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if _, err := domain.AttributionByName(c.FTL.OvernightPolicy); err != nil {
		return err
	}

	if c.FTL.CacheEnabled && c.FTL.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when the cache is enabled")
	}

	if c.FTL.MaxRangeDays <= 0 {
		return fmt.Errorf("max range days must be positive")
	}

	return nil
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
		int(c.Database.ConnectTimeout.Seconds()),
	)
}

// GetRedisAddr returns the Redis host:port address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// envReader reads typed environment values and collects parse failures.
// A malformed value is reported by Load instead of silently falling back.
type envReader struct {
	errs []error
}

func (r *envReader) String(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) Int(key string, defaultValue int) int {
	return parseEnv(r, key, defaultValue, strconv.Atoi)
}

func (r *envReader) Bool(key string, defaultValue bool) bool {
	return parseEnv(r, key, defaultValue, strconv.ParseBool)
}

func (r *envReader) Duration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(r, key, defaultValue, time.ParseDuration)
}

// Slice splits a comma-separated value, dropping empty items
func (r *envReader) Slice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv[T any](r *envReader, key string, defaultValue T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := parse(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid value %q", key, value))
		return defaultValue
	}
	return parsed
}
