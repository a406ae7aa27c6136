package config

import (
	"fmt"
	"time"
)

// Config holds server configuration
type Config struct {
	// Server settings
	Port int
	Host string

	// Threshold configuration
	ThresholdsFile string // optional; built-in defaults apply when empty
	SchemaFile     string

	// Data source settings
	DataSource   string // "sqlite" or "static"
	DatabasePath string

	// Optional Redis mirror for latest health snapshots
	RedisAddr string

	// Evaluation settings
	EvaluationInterval time.Duration
	WindowHours        int

	// Operational settings
	GracefulShutdownTimeout time.Duration
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.DataSource != "sqlite" && c.DataSource != "static" {
		return fmt.Errorf("data source must be 'sqlite' or 'static'")
	}

	if c.DataSource == "sqlite" && c.DatabasePath == "" {
		return fmt.Errorf("database path required when data source is 'sqlite'")
	}

	if c.EvaluationInterval <= 0 {
		return fmt.Errorf("evaluation interval must be positive")
	}

	if c.WindowHours <= 0 {
		return fmt.Errorf("window hours must be positive")
	}

	return nil
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Port:                    8080,
		Host:                    "0.0.0.0",
		SchemaFile:              "schemas/thresholds_v1.json",
		DataSource:              "static",
		EvaluationInterval:      5 * time.Minute,
		WindowHours:             24,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}
