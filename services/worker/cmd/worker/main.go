package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"tapbuddy/internal/util"
	"tapbuddy/services/worker/internal/app"
	"tapbuddy/services/worker/internal/config"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	worker, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to init worker: %v", err)
	}
	defer worker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
	slog.Info("worker shut down")
}
