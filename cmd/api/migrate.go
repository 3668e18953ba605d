package main

import (
	"context"
	"fmt"

	"github.com/georgemunganga/supplier-pro/internal/config"
	"github.com/georgemunganga/supplier-pro/internal/database"
	"github.com/georgemunganga/supplier-pro/internal/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				fmt.Fprint(cmd.OutOrStdout(), database.Schema())
				return nil
			}

			cfg := config.Load()
			log, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.ShutdownTimeout)
			defer cancel()
			db, err := database.Open(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the schema instead of applying it")
	return cmd
}
