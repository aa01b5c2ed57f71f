// Package app consumes queued notifications from RabbitMQ and delivers
// them through the messaging gateway.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/messaging"
	"tapbuddy/pkg/notify"
	"tapbuddy/services/notifier/internal/config"
)

// App is the notification delivery worker.
type App struct {
	conn        *amqp.Connection
	ch          *amqp.Channel
	sender      messaging.Sender
	queue       string
	concurrency int
}

// New connects to RabbitMQ and declares the queue topology.
func New(cfg config.FileConfig) (*App, error) {
	conn, err := amqp.Dial(cfg.AmqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := notify.DeclareTopology(ch, cfg.NotificationsQueue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Qos(cfg.Concurrency, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &App{
		conn:        conn,
		ch:          ch,
		sender:      messaging.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		queue:       cfg.NotificationsQueue,
		concurrency: cfg.Concurrency,
	}, nil
}

// Close releases the AMQP connection.
func (a *App) Close() {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
}

// Run consumes notifications until the context is cancelled. Failed
// deliveries are rejected without requeue, which routes them to the DLQ.
func (a *App) Run(ctx context.Context) error {
	msgs, err := a.ch.Consume(a.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	slog.Info("notifier consuming", "queue", a.queue, "concurrency", a.concurrency)

	deliveries := make(chan amqp.Delivery, a.concurrency*2)

	var wg sync.WaitGroup
	wg.Add(a.concurrency)
	for i := 0; i < a.concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range deliveries {
				a.handle(ctx, workerID, d)
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("notifier shutting down")
			close(deliveries)
			wg.Wait()
			return nil
		case d, ok := <-msgs:
			if !ok {
				slog.Warn("delivery channel closed")
				time.Sleep(time.Second)
				continue
			}
			deliveries <- d
		}
	}
}

func (a *App) handle(ctx context.Context, workerID int, d amqp.Delivery) {
	var n domain.Notification
	if err := json.Unmarshal(d.Body, &n); err != nil || n.Phone == "" || n.Body == "" {
		slog.Warn("bad notification message", "worker", workerID, "err", err)
		_ = d.Nack(false, false)
		return
	}

	if !a.sender.Send(ctx, n.Phone, n.Body, n.Channel) {
		slog.Warn("notification delivery failed", "worker", workerID, "phone", n.Phone, "channel", n.Channel)
		_ = d.Nack(false, false)
		return
	}
	if err := d.Ack(false); err != nil {
		slog.Warn("ack failed", "worker", workerID, "err", err)
	}
}
