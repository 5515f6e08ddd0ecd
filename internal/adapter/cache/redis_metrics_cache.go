package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crewdesk/crewdesk/internal/ftl"
	"github.com/crewdesk/crewdesk/internal/infra/logger"
	"github.com/crewdesk/crewdesk/internal/ports"
)

// Config configures the metrics cache
type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
	TTL      time.Duration
}

// redisMetricsCache stores projections as JSON with a TTL
type redisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewMetricsCache returns a Redis-backed cache, or a no-op cache when disabled
func NewMetricsCache(ctx context.Context, config Config, log logger.Logger) (ports.MetricsCache, error) {
	if !config.Enabled {
		log.Info(ctx, "metrics cache disabled", nil)
		return noopMetricsCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.Timeout,
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(ctx, "metrics cache initialized", map[string]interface{}{
		"addr": config.Addr,
		"ttl":  config.TTL.String(),
	})

	return &redisMetricsCache{client: client, ttl: config.TTL, logger: log}, nil
}

// Get returns a cached projection. A miss is (nil, false, nil).
func (c *redisMetricsCache) Get(ctx context.Context, key string) (*ftl.FTLMetrics, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached metrics: %w", err)
	}

	metrics, err := decodeMetrics(data)
	if err != nil {
		// a corrupt entry is a miss; it is overwritten on the next Set
		c.logger.Warn(ctx, "discarding undecodable cache entry", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false, nil
	}
	return metrics, true, nil
}

// Set stores a projection under key
func (c *redisMetricsCache) Set(ctx context.Context, key string, metrics *ftl.FTLMetrics) error {
	data, err := encodeMetrics(metrics)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metrics: %w", err)
	}
	return nil
}

// Invalidate deletes every projection cached for staffID
func (c *redisMetricsCache) Invalidate(ctx context.Context, staffID string) error {
	pattern := ports.StaffCachePattern(staffID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached metrics: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached metrics: %w", err)
	}

	c.logger.Debug(ctx, "metrics cache invalidated", map[string]interface{}{
		"staff_id": staffID,
		"keys":     len(keys),
	})
	return nil
}

// Close releases the Redis connection pool
func (c *redisMetricsCache) Close() error {
	return c.client.Close()
}

func encodeMetrics(metrics *ftl.FTLMetrics) ([]byte, error) {
	data, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return data, nil
}

func decodeMetrics(data []byte) (*ftl.FTLMetrics, error) {
	var metrics ftl.FTLMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return &metrics, nil
}

// noopMetricsCache never stores anything
type noopMetricsCache struct{}

func (noopMetricsCache) Get(ctx context.Context, key string) (*ftl.FTLMetrics, bool, error) {
	return nil, false, nil
}

func (noopMetricsCache) Set(ctx context.Context, key string, metrics *ftl.FTLMetrics) error {
	return nil
}

func (noopMetricsCache) Invalidate(ctx context.Context, staffID string) error {
	return nil
}
