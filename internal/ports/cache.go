package ports

import (
	"context"
	"fmt"

	"github.com/crewdesk/crewdesk/internal/domain"
	"github.com/crewdesk/crewdesk/internal/ftl"
)

const metricsKeyPrefix = "ftl:metrics"

// MetricsCacheKey builds the key a projection is cached under. Both the
// limit table and the daily series take part, so editing either misses.
func MetricsCacheKey(staffID string, anchor domain.Date, tableFingerprint, seriesFingerprint uint64) string {
	return fmt.Sprintf("%s:%s:%s:%016x:%016x", metricsKeyPrefix, staffID, anchor, tableFingerprint, seriesFingerprint)
}

// StaffCachePattern matches every cache key belonging to staffID
func StaffCachePattern(staffID string) string {
	return fmt.Sprintf("%s:%s:*", metricsKeyPrefix, staffID)
}

// MetricsCache stores projected metrics keyed by staff, anchor and the
// fingerprint of the daily series they were computed from
type MetricsCache interface {
	Get(ctx context.Context, key string) (*ftl.FTLMetrics, bool, error)
	Set(ctx context.Context, key string, metrics *ftl.FTLMetrics) error
	// Invalidate drops every cached projection for a staff member
	Invalidate(ctx context.Context, staffID string) error
}
