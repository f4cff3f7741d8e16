package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/visitorlog/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Create the database if needed and apply all pending schema migrations. Safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB(database)

			v, err := db.Version(cmd.Context(), database)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is at schema version %d\n", cfg.Database.Path, v)
			return nil
		},
	}
}
