// Package logger configures application logging and the optional New
// Relic agent.
//
// Logs are structured with zerolog. In console format output is
// human-readable; in json format it is machine-parseable and, when New
// Relic log forwarding is enabled, wrapped so log lines carry trace
// linking metadata. A rotating file sink can be layered on top.
package logger

import (
	"io"
	"os"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/raffihq/recipe-api/internal/config"
)

// New builds the application logger from observability config.
//
// When svc carries a New Relic application and log forwarding is on,
// stdout JSON output goes through the zerologWriter integration so logs
// are linked to traces.
func New(cfg *config.ObservabilityConfig, svc *LoggerService) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	} else if svc != nil && svc.GetApplication() != nil && cfg.NewRelic.AppLogForwardingEnabled {
		w := zerologWriter.New(os.Stdout, svc.GetApplication())
		out = &w
	}

	if cfg.Logging.File.Path != "" {
		fileSink := &lumberjack.Logger{
			Filename:   cfg.Logging.File.Path,
			MaxSize:    cfg.Logging.File.MaxSizeMB,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAge:     cfg.Logging.File.MaxAgeDays,
			Compress:   cfg.Logging.File.Compress,
		}
		out = zerolog.MultiLevelWriter(out, fileSink)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
}
