package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups telemetry configuration: logging, the
// optional New Relic agent, and periodic dependency health checks.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs and traces. It is
	// forced to "recipe-api" during Load.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment labels telemetry (production, staging, local, ...).
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format selects "json" or "console" output.
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold flags queries slower than this duration.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`

	// File enables an additional rotating log file sink when Path is
	// set.
	File FileLogConfig `koanf:"file"`
}

// FileLogConfig configures the rotating file sink (lumberjack).
type FileLogConfig struct {
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// NewRelicConfig holds New Relic APM settings. An empty LicenseKey
// disables the agent entirely.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls periodic checks for dependencies.
type HealthChecksConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval" validate:"omitempty,min=1s"`
	Timeout  time.Duration `koanf:"timeout" validate:"omitempty,min=1s"`
	Checks   []string      `koanf:"checks"`
}

// DefaultObservabilityConfig provides the defaults used when no
// observability block is configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "recipe-api",
		Environment: "development",

		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},

		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false,
		},

		HealthChecks: HealthChecksConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
			Checks:   []string{"database", "redis"},
		},
	}
}

// Validate applies rules beyond struct tags: enum membership and
// cross-field constraints.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level, defaulting by
// environment when unset.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}
	return c.Logging.Level
}

// IsProduction reports whether the app runs in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
