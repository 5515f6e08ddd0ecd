package domain

import "math"

// MetricKind selects which daily total a limit constrains
type MetricKind string

const (
	MetricDuty   MetricKind = "duty"
	MetricFlight MetricKind = "flight"
)

// Valid reports whether m is a known metric
func (m MetricKind) Valid() bool {
	return m == MetricDuty || m == MetricFlight
}

// TierThresholds are the percentage-of-limit boundaries for severity tiers.
// A metric is approaching at >= Approaching and exceeded at >= Exceeded.
type TierThresholds struct {
	Approaching float64 `json:"approaching" yaml:"approaching"`
	Exceeded    float64 `json:"exceeded" yaml:"exceeded"`
}

// DefaultThresholds is the standard 80% / 100% policy
var DefaultThresholds = TierThresholds{Approaching: 80, Exceeded: 100}

func (t TierThresholds) validate(limit string) error {
	if !isFinite(t.Approaching) || !isFinite(t.Exceeded) || t.Approaching <= 0 || t.Exceeded <= t.Approaching {
		return &ConfigurationError{Limit: limit, Reason: "thresholds must satisfy 0 < approaching < exceeded"}
	}
	return nil
}

// LimitDefinition is a named regulatory ceiling on accumulated hours
type LimitDefinition struct {
	Name       string          `json:"name" yaml:"name"`
	Metric     MetricKind      `json:"metric" yaml:"metric"`
	WindowDays int             `json:"window_days" yaml:"window_days"`
	MaxHours   float64         `json:"max_hours" yaml:"max_hours"`
	Thresholds *TierThresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// Validate checks a single definition
func (d LimitDefinition) Validate() error {
	if d.Name == "" {
		return &ConfigurationError{Reason: "limit name is required"}
	}
	if !d.Metric.Valid() {
		return &ConfigurationError{Limit: d.Name, Reason: "metric must be duty or flight"}
	}
	if d.WindowDays <= 0 {
		return &ConfigurationError{Limit: d.Name, Reason: "window_days must be positive"}
	}
	if !isFinite(d.MaxHours) || d.MaxHours <= 0 {
		return &ConfigurationError{Limit: d.Name, Reason: "max_hours must be positive"}
	}
	if d.Thresholds != nil {
		return d.Thresholds.validate(d.Name)
	}
	return nil
}

// LimitTable is an immutable, validated set of limit definitions.
// Definitions keep the order they were given in.
type LimitTable struct {
	defs       []LimitDefinition
	thresholds TierThresholds
}

// NewLimitTable validates defs against DefaultThresholds
func NewLimitTable(defs ...LimitDefinition) (*LimitTable, error) {
	return NewLimitTableWithThresholds(DefaultThresholds, defs...)
}

// NewLimitTableWithThresholds validates defs and sets the table-wide tier policy
func NewLimitTableWithThresholds(thresholds TierThresholds, defs ...LimitDefinition) (*LimitTable, error) {
	if err := thresholds.validate(""); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, &ConfigurationError{Reason: "at least one limit is required"}
	}

	seen := make(map[string]bool, len(defs))
	copied := make([]LimitDefinition, 0, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.Name] {
			return nil, &ConfigurationError{Limit: d.Name, Reason: "duplicate limit name"}
		}
		seen[d.Name] = true

		if d.Thresholds != nil {
			t := *d.Thresholds
			d.Thresholds = &t
		}
		copied = append(copied, d)
	}

	return &LimitTable{defs: copied, thresholds: thresholds}, nil
}

// DefaultLimitTable returns the built-in table used when no file is configured
func DefaultLimitTable() *LimitTable {
	table, err := NewLimitTable(
		LimitDefinition{Name: "duty_7d", Metric: MetricDuty, WindowDays: 7, MaxHours: 60},
		LimitDefinition{Name: "duty_14d", Metric: MetricDuty, WindowDays: 14, MaxHours: 110},
		LimitDefinition{Name: "duty_28d", Metric: MetricDuty, WindowDays: 28, MaxHours: 190},
		LimitDefinition{Name: "flight_28d", Metric: MetricFlight, WindowDays: 28, MaxHours: 100},
		LimitDefinition{Name: "flight_365d", Metric: MetricFlight, WindowDays: 365, MaxHours: 900},
	)
	if err != nil {
		panic(err)
	}
	return table
}

// Definitions returns a copy of the definitions in table order
func (t *LimitTable) Definitions() []LimitDefinition {
	out := make([]LimitDefinition, len(t.defs))
	copy(out, t.defs)
	for i := range out {
		if out[i].Thresholds != nil {
			th := *out[i].Thresholds
			out[i].Thresholds = &th
		}
	}
	return out
}

// Len returns the number of definitions
func (t *LimitTable) Len() int {
	return len(t.defs)
}

// ThresholdsFor returns the tier policy that applies to d
func (t *LimitTable) ThresholdsFor(d LimitDefinition) TierThresholds {
	if d.Thresholds != nil {
		return *d.Thresholds
	}
	return t.thresholds
}

// MaxWindowDays returns the longest window in the table
func (t *LimitTable) MaxWindowDays() int {
	longest := 0
	for _, d := range t.defs {
		if d.WindowDays > longest {
			longest = d.WindowDays
		}
	}
	return longest
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
