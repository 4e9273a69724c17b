package cli

import (
	"github.com/spf13/cobra"

	"github.com/raffihq/recipe-api/internal/database"
)

func waitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "waitdb",
		Short: "Block until the database accepts connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, _, err := bootstrap()
			if err != nil {
				return err
			}

			return database.WaitForDB(cmd.Context(), &log, cfg)
		},
	}
}
