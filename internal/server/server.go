// Package server defines the application container that composes the
// service's shared dependencies: configuration, logging, the database
// pool, Redis, background jobs, the maintenance scheduler, and the HTTP
// server lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/database"
	"github.com/raffihq/recipe-api/internal/lib/job"
	loggerPkg "github.com/raffihq/recipe-api/internal/logger"
)

// Server holds shared resources for the application. It is not the
// HTTP server itself; that is configured via SetupHTTPServer and run
// with Start.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService

	httpServer *http.Server
	cron       *cron.Cron
}

// New constructs a Server and initializes core dependencies.
//
// Redis is treated as optional: a failed ping logs and continues, since
// token lookups fall back to Postgres and jobs degrade gracefully.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to redis, continuing without redis")
	}

	jobService := job.NewJobService(logger, cfg)
	if err := jobService.Start(); err != nil {
		return nil, err
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           jobService,
		cron:          cron.New(),
	}
	server.cron.Start()

	return server, nil
}

// ScheduleTokenPurge registers an hourly job that removes auth tokens
// older than the configured TTL. A zero TTL disables expiry.
func (s *Server) ScheduleTokenPurge(purge func(ctx context.Context, olderThan time.Duration) (int64, error)) error {
	ttl := s.Config.Auth.TokenTTL
	if ttl == 0 {
		return nil
	}

	_, err := s.cron.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		removed, err := purge(ctx, ttl)
		if err != nil {
			s.Logger.Error().Err(err).Msg("auth token purge failed")
			return
		}
		if removed > 0 {
			s.Logger.Info().Int64("removed", removed).Msg("purged expired auth tokens")
		}
	})
	return err
}

// SetupHTTPServer configures the internal net/http server with the
// given handler (the echo router).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and closes shared
// resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if err := s.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
