package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "10M", cfg.Server.MaxBodySize)
	assert.Equal(t, 30, cfg.Database.WaitAttempts)
	assert.Equal(t, time.Second, cfg.Database.WaitDelay)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.CacheTTL)
	assert.Equal(t, "media", cfg.Media.Root)
	assert.Equal(t, "/media", cfg.Media.BaseURL)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.CacheTTL = time.Minute
	cfg.Media.Root = "/var/lib/recipe/media"

	applyDefaults(cfg)

	assert.Equal(t, time.Minute, cfg.Auth.CacheTTL)
	assert.Equal(t, "/var/lib/recipe/media", cfg.Media.Root)
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.ServiceName = ""
	assert.Error(t, cfg.Validate())
}

func TestGetLogLevelDefaultsByEnvironment(t *testing.T) {
	cfg := &ObservabilityConfig{Environment: "production"}
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg = &ObservabilityConfig{Environment: "local"}
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg = &ObservabilityConfig{Environment: "production", Logging: LoggingConfig{Level: "warn"}}
	assert.Equal(t, "warn", cfg.GetLogLevel())
}
