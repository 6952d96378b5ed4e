// cmd/idea-validator/migrate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		if !cfg.Database.Postgres.Enabled() {
			return fmt.Errorf("database.postgres.host is not set")
		}

		log := newLogger(cfg, "stderr")
		pg, err := connectPostgres(cmd.Context(), cfg.Database.Postgres, log)
		if err != nil {
			return err
		}
		return pg.Close()
	},
}
