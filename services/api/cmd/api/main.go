package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"tapbuddy/internal/util"
	"tapbuddy/pkg/lifecycle"
	"tapbuddy/pkg/messaging"
	"tapbuddy/pkg/notify"
	"tapbuddy/pkg/queue"
	"tapbuddy/pkg/store"
	"tapbuddy/services/api/internal/config"
	"tapbuddy/services/api/internal/server"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	jobQueue, err := queue.NewRedisJobQueue(queue.RedisQueueConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Stream:   cfg.QueueStream,
		Group:    "workers",
	})
	if err != nil {
		log.Fatalf("failed to init queue: %v", err)
	}

	var notifier lifecycle.Notifier
	if cfg.AmqpURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AmqpURL, cfg.NotificationsQueue)
		if err != nil {
			log.Fatalf("failed to init notification publisher: %v", err)
		}
		defer publisher.Close()
		notifier = publisher
	} else {
		gateway := messaging.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		notifier = notify.NewDirectNotifier(gateway)
	}

	orch := lifecycle.New(lifecycle.Config{
		Store:     db,
		Scheduler: jobQueue,
		Notifier:  notifier,
	})

	httpServer := server.New(server.Config{
		Store:        db,
		Orchestrator: orch,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("api server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
