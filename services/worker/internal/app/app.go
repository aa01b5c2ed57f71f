// Package app assembles the generation worker: queue consumption, the AI
// provider stack, and the request orchestrator.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tapbuddy/pkg/ai"
	"tapbuddy/pkg/content"
	"tapbuddy/pkg/lifecycle"
	"tapbuddy/pkg/messaging"
	"tapbuddy/pkg/notify"
	"tapbuddy/pkg/queue"
	"tapbuddy/pkg/speech"
	"tapbuddy/pkg/storage"
	"tapbuddy/pkg/store"
	"tapbuddy/pkg/video"
	"tapbuddy/services/worker/internal/config"
)

// App runs the queue consumers that process video requests.
type App struct {
	queue       *queue.RedisJobQueue
	orch        *lifecycle.Orchestrator
	publisher   *notify.AMQPPublisher
	concurrency int
}

// New wires the worker from config. Missing provider credentials degrade
// individual stages instead of failing startup.
func New(cfg config.FileConfig) (*App, error) {
	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	jobQueue, err := queue.NewRedisJobQueue(queue.RedisQueueConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		Stream:   cfg.QueueStream,
		Group:    "workers",
	})
	if err != nil {
		return nil, fmt.Errorf("init queue: %w", err)
	}

	llm, err := newTextGenerator(cfg)
	if err != nil {
		return nil, err
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{queue: jobQueue, concurrency: cfg.Concurrency}

	var notifier lifecycle.Notifier
	if cfg.AmqpURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AmqpURL, cfg.NotificationsQueue)
		if err != nil {
			return nil, fmt.Errorf("init notification publisher: %w", err)
		}
		app.publisher = publisher
		notifier = publisher
	} else if cfg.TwilioAccountSID != "" {
		notifier = notify.NewDirectNotifier(messaging.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber))
	} else {
		slog.Warn("no notification transport configured, notifications disabled")
		notifier = notify.NopNotifier{}
	}

	var timeout time.Duration
	if cfg.ProcessTimeoutS > 0 {
		timeout = time.Duration(cfg.ProcessTimeoutS) * time.Second
	}
	app.orch = lifecycle.New(lifecycle.Config{
		Store:    db,
		Content:  content.NewGenerator(llm),
		Speech:   speech.New(cfg.TTSAPIKey, cfg.TempDir),
		Video:    video.New(cfg.VideoAPIKey, cfg.TempDir),
		Uploader: uploader,
		Notifier: notifier,
		Timeout:  timeout,
	})
	return app, nil
}

// Run starts the consumers and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) {
	a.queue.Start(ctx, a.concurrency, func(jctx context.Context, job queue.JobStatus) error {
		return a.orch.Process(jctx, job.RequestID)
	})
	slog.Info("worker consuming", "concurrency", a.concurrency)
	<-ctx.Done()
}

// Close releases held connections.
func (a *App) Close() {
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
}

func newTextGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch cfg.LLMProvider {
	case "openai-compat":
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("no llm credentials, content generation degrades to defaults")
			return nil, nil
		}
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		if cfg.GeminiAPIKey == "" {
			slog.Warn("no llm credentials, content generation degrades to defaults")
			return nil, nil
		}
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return ai.NewGeminiGenerator(client, cfg.GeminiModel), nil
	}
}

func newUploader(cfg config.FileConfig) (storage.Uploader, error) {
	if cfg.MinioEndpoint == "" {
		slog.Warn("object storage not configured, uploads use placeholder urls")
		return storage.NewPlaceholderStore(cfg.MinioBucket), nil
	}
	uploader, err := storage.NewMinioStore(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioPublicURL,
		cfg.MinioUseSSL,
	)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	return uploader, nil
}
