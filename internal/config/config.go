package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the main termvault configuration
type Config struct {
	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Database
	Database DatabaseConfig `json:"database" mapstructure:"database"`

	// Retention
	Retention RetentionConfig `json:"retention" mapstructure:"retention"`

	// Terminal defaults for new sessions
	Terminal TerminalConfig `json:"terminal" mapstructure:"terminal"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Metrics endpoint
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// DatabaseConfig holds the session database configuration
type DatabaseConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// RetentionConfig controls how long stale session records are kept
type RetentionConfig struct {
	MaxAge   time.Duration `json:"max_age" mapstructure:"max_age"`
	Schedule string        `json:"schedule" mapstructure:"schedule"` // cron expression or @every syntax
}

// TerminalConfig holds defaults applied when spawning a session terminal
type TerminalConfig struct {
	Shell      string `json:"shell" mapstructure:"shell"`
	WorkingDir string `json:"working_dir" mapstructure:"working_dir"`
	Cols       int    `json:"cols" mapstructure:"cols"`
	Rows       int    `json:"rows" mapstructure:"rows"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file" mapstructure:"file"`
	Redaction  bool   `json:"redaction" mapstructure:"redaction"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// MetricsConfig holds the metrics listener configuration
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Retention: RetentionConfig{
			MaxAge:   24 * time.Hour,
			Schedule: "@every 1h",
		},
		Terminal: TerminalConfig{
			Cols: 80,
			Rows: 24,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Redaction:  true,
			MaxSizeMB:  100,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9190",
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("config marshal error: %v", err)
	}
	return string(data)
}
