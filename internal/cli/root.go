// Package cli defines the management commands: running the API
// server, applying migrations, waiting for the database, and creating
// superuser accounts.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "recipe-api",
		Short:        "Recipe API server and management commands",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		waitDBCmd(),
		createSuperuserCmd(),
	)

	return cmd
}
