package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"tapbuddy/internal/util"
	"tapbuddy/services/notifier/internal/app"
	"tapbuddy/services/notifier/internal/config"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	notifier, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to init notifier: %v", err)
	}
	defer notifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := notifier.Run(ctx); err != nil {
		log.Fatalf("notifier error: %v", err)
	}
	slog.Info("notifier shut down")
}
