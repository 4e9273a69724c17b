package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raffihq/recipe-api/internal/database"
	"github.com/raffihq/recipe-api/internal/repository"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
)

func createSuperuserCmd() *cobra.Command {
	var email string
	var name string
	var password string

	c := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account with staff and superuser privileges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := database.New(cfg, &log, loggerService)
			if err != nil {
				return err
			}
			defer db.Close()

			// A bare container is enough here: superuser creation only
			// needs the database, not Redis or background jobs.
			s := &server.Server{
				Config: cfg,
				Logger: &log,
				DB:     db,
			}

			repos := repository.NewRepositories(s)
			users := service.NewUserService(s, repos.Users, repos.Tokens)

			user, err := users.CreateSuperuser(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}

			fmt.Printf("superuser %s created (id %d)\n", user.Email, user.ID)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "email address for the new superuser")
	c.Flags().StringVar(&name, "name", "", "display name for the new superuser")
	c.Flags().StringVar(&password, "password", "", "password for the new superuser")

	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("password")

	return c
}
