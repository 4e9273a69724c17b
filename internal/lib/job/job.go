// Package job provides Redis-backed background job processing with
// Asynq. The client enqueues tasks; the embedded server runs workers
// that consume them.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/lib/email"
)

// JobService holds the Asynq client (enqueue side) and server (worker
// side) plus the dependencies handlers need.
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	email  *email.Client
	logger *zerolog.Logger
}

// NewJobService builds client and server against the configured Redis.
// Queue weights give urgent tasks a larger share of the worker pool.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		email:  email.NewClient(cfg, logger),
		logger: logger,
	}
}

// Start registers task handlers and starts the worker server. Start
// returns once workers are running.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully shuts down workers and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
