package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lingo/internal/config"
	"github.com/mrlokans/lingo/internal/database"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			return runMigrate(cfg.Database, cmd)
		},
	}
}

func runMigrate(cfg config.Database, cmd *cobra.Command) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables (%s)\n", len(database.Models), db.Driver())
	return nil
}
