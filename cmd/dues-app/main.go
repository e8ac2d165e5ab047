package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dues-app-go/internal/config"
	"dues-app-go/pkg/logger"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "dues-app",
		Short:         "Membership dues, donations and expenses API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(log))
	rootCmd.AddCommand(migrateCmd(log))
	rootCmd.AddCommand(cleanupCmd(log))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Critical("app: command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig(log logger.Logger) (config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
