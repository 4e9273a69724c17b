package cli

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/logger"
)

// bootstrap loads configuration and builds the shared logger stack
// used by every command.
func bootstrap() (*config.Config, zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	// Minimal console logger for messages emitted before the real
	// logger exists.
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	loggerService, err := logger.NewLoggerService(cfg.Observability, &bootLogger)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log := logger.New(cfg.Observability, loggerService)

	return cfg, log, loggerService, nil
}
