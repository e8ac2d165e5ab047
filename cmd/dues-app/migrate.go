package main

import (
	"dues-app-go/internal/db"
	"dues-app-go/pkg/logger"
	"github.com/spf13/cobra"
)

func migrateCmd(log logger.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}

			conn, err := db.NewPostgres(cmd.Context(), cfg.DB, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(conn); err != nil {
					log.Error("db: close failed", "err", err)
				}
			}()

			applied, err := db.Migrate(cmd.Context(), conn, dir, log)
			if err != nil {
				return err
			}
			log.Info("db.migrate: done", "applied", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (default: nearest ./migrations)")
	return cmd
}
