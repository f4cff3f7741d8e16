// Package cli defines the cobra command tree for visitorlog.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/visitorlog/internal/config"
	"github.com/erazemk/visitorlog/internal/db"
)

var flagConfig string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "visitorlog",
		Short:         "Record visitor check-ins and check-outs",
		Long:          "A visitor log with a JSON API and a browser frontend. Each account keeps its own list of visitors with check-in and check-out times.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file (default: $VISITORLOG_CONFIG or ./visitorlog.yaml)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUseraddCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the configuration selected by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

// openDB opens the configured database and brings its schema up to date.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		closeDB(database)
		return nil, err
	}
	return database, nil
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
