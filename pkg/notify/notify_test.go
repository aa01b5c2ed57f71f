package notify

import (
	"context"
	"testing"

	"tapbuddy/pkg/domain"
)

type recordingSender struct {
	calls []domain.Notification
	ok    bool
}

func (r *recordingSender) Send(_ context.Context, toPhone, body string, channel domain.Channel) bool {
	r.calls = append(r.calls, domain.Notification{Phone: toPhone, Body: body, Channel: channel})
	return r.ok
}

func TestDirectNotifierSends(t *testing.T) {
	sender := &recordingSender{ok: true}
	n := NewDirectNotifier(sender)

	n.Notify(context.Background(), domain.Notification{
		Phone:   "+12345678901",
		Body:    "Your video is ready!",
		Channel: domain.ChannelWhatsApp,
	})

	if len(sender.calls) != 1 {
		t.Fatalf("calls = %d", len(sender.calls))
	}
	if sender.calls[0].Channel != domain.ChannelWhatsApp {
		t.Fatalf("channel = %q", sender.calls[0].Channel)
	}
}

func TestDirectNotifierSkipsEmpty(t *testing.T) {
	sender := &recordingSender{ok: true}
	n := NewDirectNotifier(sender)

	n.Notify(context.Background(), domain.Notification{Phone: "", Body: "hello"})
	n.Notify(context.Background(), domain.Notification{Phone: "+12345678901", Body: ""})

	if len(sender.calls) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.calls))
	}
}

func TestDirectNotifierSwallowsDeliveryFailure(t *testing.T) {
	sender := &recordingSender{ok: false}
	n := NewDirectNotifier(sender)

	// must not panic or propagate
	n.Notify(context.Background(), domain.Notification{
		Phone:   "+12345678901",
		Body:    "hello",
		Channel: domain.ChannelSMS,
	})
	if len(sender.calls) != 1 {
		t.Fatalf("calls = %d", len(sender.calls))
	}
}
