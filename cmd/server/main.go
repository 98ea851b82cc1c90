package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/karthikgoud24/NeoGarden-Enhanced/config"
	"github.com/karthikgoud24/NeoGarden-Enhanced/internal/server"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "neogarden: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, flush, err := logging.NewLogger(cfg.AppName, cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer flush()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to build server")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("Server exited with error")
		return err
	}
	return nil
}
