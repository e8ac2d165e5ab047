package main

import (
	"context"
	"errors"

	"dues-app-go/internal/db"
	"dues-app-go/internal/maintenance"
	"dues-app-go/pkg/logger"
	"github.com/spf13/cobra"
)

var errNotConfirmed = errors.New("refusing to delete data without --yes")

func cleanupCmd(log logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete ledger or reminder data",
	}

	cmd.AddCommand(cleanupTaskCmd(log, "financial",
		"Delete payments, donations, expenses and owing/credit months and reset member totals",
		(*maintenance.Cleaner).ResetFinancials,
	))
	cmd.AddCommand(cleanupTaskCmd(log, "reminders",
		"Delete every reminder",
		(*maintenance.Cleaner).PurgeReminders,
	))
	return cmd
}

func cleanupTaskCmd(log logger.Logger, name, short string, task func(*maintenance.Cleaner, context.Context) (maintenance.Result, error)) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errNotConfirmed
			}

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

			result, err := task(maintenance.NewCleaner(conn, log), cmd.Context())
			if err != nil {
				return err
			}
			for table, rows := range result {
				cmd.Printf("%s: %d rows\n", table, rows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}
