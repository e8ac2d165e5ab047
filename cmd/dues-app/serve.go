package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dues-app-go/internal/app"
	"dues-app-go/internal/db"
	"dues-app-go/pkg/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(log logger.Logger) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and realtime hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), log, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, log logger.Logger, migrate bool) error {
	log.Info("app: starting")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrate {
		applied, err := db.Migrate(ctx, application.DB(), "", log)
		if err != nil {
			_ = application.Close()
			return err
		}
		log.Info("db.migrate: done", "applied", applied)
	}

	application.StartRealtime(ctx)

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr, "env", cfg.Env)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info("app: stopped")
	}
	return runErr
}
