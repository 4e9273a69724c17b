// Package config loads and validates the application configuration.
//
// Values come from environment variables with the RECIPE_ prefix (a
// local .env file is loaded first when present). Keys use "." nesting,
// so RECIPE_DATABASE.HOST maps to Config.Database.Host. Required values
// are enforced with validator tags so the process fails fast on missing
// or malformed configuration.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// envPrefix namespaces every environment variable read by the service.
const envPrefix = "RECIPE_"

// Config is the root configuration object.
//
// Observability is a pointer because it is optional; defaults are
// injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth"`
	Media         MediaConfig          `koanf:"media"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime. Timeouts
// are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// MaxBodySize caps request bodies, in Echo's size notation ("10M").
	// Image uploads are the largest accepted payload.
	MaxBodySize string `koanf:"max_body_size"`
}

// DatabaseConfig contains PostgreSQL connection parameters, pool tuning,
// and the startup wait policy used before migrating and serving.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`

	// WaitAttempts and WaitDelay bound the wait-for-db loop run before
	// migrations at startup. Zero values get defaults.
	WaitAttempts int           `koanf:"wait_attempts"`
	WaitDelay    time.Duration `koanf:"wait_delay"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig tunes token issuing and caching.
type AuthConfig struct {
	// TokenTTL is how long an issued token stays valid before the
	// periodic purge removes it. Zero disables expiry.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// CacheTTL bounds how long token lookups are served from Redis
	// before falling back to Postgres.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// MediaConfig controls where uploaded recipe images are stored and the
// URL prefix they are served under.
type MediaConfig struct {
	Root    string `koanf:"root"`
	BaseURL string `koanf:"base_url"`
}

// IntegrationConfig stores third-party API credentials.
type IntegrationConfig struct {
	// ResendAPIKey enables welcome emails when set.
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// Load reads, validates, and defaults the configuration.
func Load() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load environment variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	applyDefaults(mainConfig)

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are fixed here so telemetry naming
	// stays consistent regardless of what the environment supplies.
	mainConfig.Observability.ServiceName = "recipe-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.MaxBodySize == "" {
		cfg.Server.MaxBodySize = "10M"
	}
	if cfg.Database.WaitAttempts == 0 {
		cfg.Database.WaitAttempts = 30
	}
	if cfg.Database.WaitDelay == 0 {
		cfg.Database.WaitDelay = time.Second
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 30 * 24 * time.Hour
	}
	if cfg.Auth.CacheTTL == 0 {
		cfg.Auth.CacheTTL = 5 * time.Minute
	}
	if cfg.Media.Root == "" {
		cfg.Media.Root = "media"
	}
	if cfg.Media.BaseURL == "" {
		cfg.Media.BaseURL = "/media"
	}
	if cfg.Integration.EmailFrom == "" {
		cfg.Integration.EmailFrom = "Recipe API <onboarding@resend.dev>"
	}
}
