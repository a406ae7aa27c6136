package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadThresholds reads a threshold YAML file over the built-in defaults.
// An empty path returns the defaults unchanged. Platforms, fleets and
// ticket limits present in the file replace their default entries; the
// rest keep their defaults.
func LoadThresholds(path string) (*Thresholds, error) {
	thresholds := DefaultThresholds()
	if path == "" {
		return thresholds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read thresholds file: %w", err)
	}

	if err := yaml.Unmarshal(data, thresholds); err != nil {
		return nil, fmt.Errorf("failed to parse thresholds file: %w", err)
	}

	return thresholds, nil
}
