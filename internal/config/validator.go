package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRetention validates retention settings
func (v *Validator) ValidateRetention(cfg RetentionConfig) error {
	if cfg.MaxAge < 0 {
		return fmt.Errorf("retention max_age cannot be negative")
	}

	if cfg.Schedule != "" {
		parser := cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)
		if _, err := parser.Parse(cfg.Schedule); err != nil {
			return fmt.Errorf("invalid retention schedule %q: %w", cfg.Schedule, err)
		}
	}

	return nil
}

// ValidateTerminal validates terminal defaults
func (v *Validator) ValidateTerminal(cfg TerminalConfig) error {
	if cfg.Cols <= 0 {
		return fmt.Errorf("terminal cols must be positive")
	}
	if cfg.Rows <= 0 {
		return fmt.Errorf("terminal rows must be positive")
	}
	if cfg.Shell != "" && !strings.HasPrefix(cfg.Shell, "/") {
		return fmt.Errorf("terminal shell must be an absolute path")
	}
	return nil
}

// ValidateLogLevel validates a log level string
func (v *Validator) ValidateLogLevel(level string) error {
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
}

// Validate checks the whole configuration
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := v.ValidateRetention(cfg.Retention); err != nil {
		return err
	}
	if err := v.ValidateTerminal(cfg.Terminal); err != nil {
		return err
	}
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}
