// Package notify delivers user-facing notifications, either directly
// through the messaging gateway or via a RabbitMQ queue consumed by the
// notifier service.
package notify

import (
	"context"
	"log/slog"

	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/messaging"
)

// Notifier sends a notification to a user. Implementations never fail the
// calling pipeline: delivery problems are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// DirectNotifier sends through the messaging gateway synchronously.
type DirectNotifier struct {
	sender messaging.Sender
}

func NewDirectNotifier(sender messaging.Sender) *DirectNotifier {
	return &DirectNotifier{sender: sender}
}

func (d *DirectNotifier) Notify(ctx context.Context, n domain.Notification) {
	if n.Phone == "" || n.Body == "" {
		return
	}
	if !d.sender.Send(ctx, n.Phone, n.Body, n.Channel) {
		slog.Warn("notification delivery failed", "phone", n.Phone, "channel", n.Channel)
	}
}

// NopNotifier drops notifications. Used when no delivery path is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.Notification) {}
