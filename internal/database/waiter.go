package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
)

// pingFunc attempts one connection to the database. Overridable in
// tests.
type pingFunc func(ctx context.Context) error

// WaitForDB blocks until the database accepts connections, retrying up
// to cfg.Database.WaitAttempts times with cfg.Database.WaitDelay between
// attempts. In a compose setup the app container usually starts before
// Postgres finishes initializing, so serving and migrating wait on this.
func WaitForDB(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	dsn := DSN(&cfg.Database)
	ping := func(ctx context.Context) error {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		return conn.Close(ctx)
	}

	return waitForDB(ctx, logger, ping, cfg.Database.WaitAttempts, cfg.Database.WaitDelay)
}

func waitForDB(ctx context.Context, logger *zerolog.Logger, ping pingFunc, attempts int, delay time.Duration) error {
	logger.Info().Msg("waiting for database")

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = ping(pingCtx)
		cancel()

		if lastErr == nil {
			logger.Info().Int("attempt", attempt).Msg("database available")
			return nil
		}

		logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("database unavailable, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, lastErr)
}
