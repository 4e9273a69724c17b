package cli

import (
	"github.com/spf13/cobra"

	"github.com/raffihq/recipe-api/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, _, err := bootstrap()
			if err != nil {
				return err
			}

			return database.Migrate(cmd.Context(), &log, cfg)
		},
	}
}
