// Package messaging sends SMS and WhatsApp messages through a Twilio-style
// carrier REST API and decodes inbound carrier webhooks.
package messaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tapbuddy/pkg/domain"
	"tapbuddy/pkg/phone"
)

const defaultCarrierBaseURL = "https://api.twilio.com/2010-04-01"

// whatsappPrefix marks WhatsApp addresses on the carrier wire.
const whatsappPrefix = "whatsapp:"

// Sender delivers a message to a phone over the given channel. A false
// return means the message was not delivered; send failures are logged,
// never escalated.
type Sender interface {
	Send(ctx context.Context, toPhone, body string, channel domain.Channel) bool
}

// Gateway is a carrier-backed Sender.
type Gateway struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
}

// New constructs a Gateway. Credentials may be empty; Send then reports
// false for every message instead of failing construction.
func New(accountSID, authToken, fromNumber string) *Gateway {
	return &Gateway{
		accountSID: strings.TrimSpace(accountSID),
		authToken:  strings.TrimSpace(authToken),
		fromNumber: strings.TrimSpace(fromNumber),
		baseURL:    defaultCarrierBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the carrier endpoint. Used by tests.
func (g *Gateway) WithBaseURL(baseURL string) *Gateway {
	g.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return g
}

// Send dispatches a message over the channel-appropriate transport.
// The phone number is re-validated and WhatsApp addresses get the carrier
// marker prefix. Missing credentials, an invalid phone and transport errors
// all log and return false.
func (g *Gateway) Send(ctx context.Context, toPhone, body string, channel domain.Channel) bool {
	channel = domain.NormalizeChannel(string(channel))
	if g.accountSID == "" || g.authToken == "" || g.fromNumber == "" {
		slog.Error("carrier credentials not configured, dropping message", "channel", channel)
		return false
	}
	validated, err := phone.Validate(toPhone)
	if err != nil {
		slog.Error("invalid phone number", "err", err)
		return false
	}

	to := validated
	from := g.fromNumber
	if channel == domain.ChannelWhatsApp {
		to = whatsappPrefix + to
		from = whatsappPrefix + from
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.baseURL, g.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Error("build carrier request", "err", err)
		return false
	}
	req.SetBasicAuth(g.accountSID, g.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Error("carrier send failed", "channel", channel, "err", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("carrier rejected message", "channel", channel, "status", resp.StatusCode, "detail", string(detail))
		return false
	}
	slog.Info("message sent", "channel", channel, "to", validated)
	return true
}

// DecodeWebhook extracts the sender phone, message body and channel from a
// carrier webhook payload. The sender-address field determines the channel:
// a WhatsApp marker routes to WhatsApp decoding with the marker stripped,
// anything else is treated as SMS. Returns empty values when the sender
// address is absent or malformed.
func DecodeWebhook(payload map[string]string) (string, string, domain.Channel) {
	from := payload["From"]
	if strings.TrimSpace(from) == "" {
		return "", "", ""
	}

	channel := domain.ChannelSMS
	if strings.HasPrefix(from, whatsappPrefix) {
		channel = domain.ChannelWhatsApp
		from = strings.TrimPrefix(from, whatsappPrefix)
	}

	validated, err := phone.Validate(from)
	if err != nil {
		slog.Warn("webhook sender address invalid", "err", err)
		return "", "", ""
	}
	return validated, payload["Body"], channel
}
