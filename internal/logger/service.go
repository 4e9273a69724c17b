package logger

import (
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
)

// LoggerService owns the optional New Relic application instance.
//
// When no license key is configured the service still exists but
// GetApplication returns nil, and every integration that depends on it
// degrades to a no-op.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService initializes New Relic from observability config.
// Without a license key it returns an empty (disabled) service.
func NewLoggerService(cfg *config.ObservabilityConfig, log *zerolog.Logger) (*LoggerService, error) {
	if cfg.NewRelic.LicenseKey == "" {
		log.Info().Msg("new relic disabled, no license key configured")
		return &LoggerService{}, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
	}
	if cfg.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(zerolog.NewConsoleWriter().Out))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing new relic application: %w", err)
	}

	log.Info().Str("app", cfg.ServiceName).Msg("new relic enabled")
	return &LoggerService{nrApp: app}, nil
}

// GetApplication returns the New Relic application, or nil when the
// agent is disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.nrApp
}

// WithTraceContext returns a child logger carrying the transaction's
// trace and span IDs so log lines correlate with distributed traces.
func WithTraceContext(l zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return l
	}
	md := txn.GetTraceMetadata()
	return l.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}
