package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raffihq/recipe-api/internal/database"
	"github.com/raffihq/recipe-api/internal/handler"
	"github.com/raffihq/recipe-api/internal/middleware"
	"github.com/raffihq/recipe-api/internal/repository"
	"github.com/raffihq/recipe-api/internal/router"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
)

func serveCmd() *cobra.Command {
	var skipMigrations bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if err := database.WaitForDB(ctx, &log, cfg); err != nil {
				return err
			}

			if !skipMigrations {
				if err := database.Migrate(ctx, &log, cfg); err != nil {
					return err
				}
			}

			s, err := server.New(cfg, &log, loggerService)
			if err != nil {
				return err
			}

			repos := repository.NewRepositories(s)
			services, err := service.NewServices(s, repos)
			if err != nil {
				return err
			}

			if err := s.ScheduleTokenPurge(repos.Tokens.PurgeOlderThan); err != nil {
				return err
			}

			middlewares := middleware.NewMiddlewares(s, services.Users)
			handlers := handler.NewHandlers(s, services)
			r := router.New(s, handlers, middlewares)

			s.SetupHTTPServer(r)

			errCh := make(chan error, 1)
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-quit:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			return s.Shutdown(shutdownCtx)
		},
	}

	c.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return c
}
