package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/crewdesk/crewdesk/internal/domain"
)

// LimitsFile is the on-disk shape of a limit table
type LimitsFile struct {
	Thresholds *domain.TierThresholds   `yaml:"thresholds"`
	Limits     []domain.LimitDefinition `yaml:"limits"`
}

// LoadLimitTable reads a limit table from path, or returns the built-in
// defaults when path is empty. Any invalid definition is a
// *domain.ConfigurationError and must stop startup.
func LoadLimitTable(path string) (*domain.LimitTable, error) {
	if path == "" {
		return domain.DefaultLimitTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits file: %w", err)
	}
	return ParseLimitTable(data)
}

// ParseLimitTable builds a limit table from YAML
func ParseLimitTable(data []byte) (*domain.LimitTable, error) {
	var file LimitsFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("malformed limits file: %v", err)}
	}

	thresholds := domain.DefaultThresholds
	if file.Thresholds != nil {
		thresholds = *file.Thresholds
	}
	return domain.NewLimitTableWithThresholds(thresholds, file.Limits...)
}
