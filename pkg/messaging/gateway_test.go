package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tapbuddy/pkg/domain"
)

func TestDecodeWebhookWhatsApp(t *testing.T) {
	phone, body, channel := DecodeWebhook(map[string]string{
		"From": "whatsapp:+14155551234",
		"Body": "#Science #Photosynthesis #Beginner How do plants make food?",
	})
	if channel != domain.ChannelWhatsApp {
		t.Fatalf("channel = %q, want whatsapp", channel)
	}
	if phone != "+14155551234" {
		t.Fatalf("phone = %q, want marker stripped", phone)
	}
	if body == "" {
		t.Fatal("expected body")
	}
}

func TestDecodeWebhookSMS(t *testing.T) {
	phone, _, channel := DecodeWebhook(map[string]string{
		"From": "+14155551234",
		"Body": "draw a sunset",
	})
	if channel != domain.ChannelSMS {
		t.Fatalf("channel = %q, want sms", channel)
	}
	if phone != "+14155551234" {
		t.Fatalf("phone = %q", phone)
	}
}

func TestDecodeWebhookMissingSender(t *testing.T) {
	phone, body, channel := DecodeWebhook(map[string]string{"Body": "hello"})
	if phone != "" || body != "" || channel != "" {
		t.Fatalf("expected empty decode, got (%q, %q, %q)", phone, body, channel)
	}
}

func TestDecodeWebhookMalformedSender(t *testing.T) {
	phone, _, channel := DecodeWebhook(map[string]string{"From": "not-a-number", "Body": "hi"})
	if phone != "" || channel != "" {
		t.Fatalf("expected empty decode, got (%q, %q)", phone, channel)
	}
}

func TestSendWhatsAppPrefixesAddresses(t *testing.T) {
	var gotTo, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := New("AC123", "token", "+15005550006").WithBaseURL(srv.URL)
	if !g.Send(context.Background(), "+14155551234", "hello", domain.ChannelWhatsApp) {
		t.Fatal("expected send to succeed")
	}
	if gotTo != "whatsapp:+14155551234" {
		t.Fatalf("To = %q, want whatsapp marker", gotTo)
	}
	if gotFrom != "whatsapp:+15005550006" {
		t.Fatalf("From = %q, want whatsapp marker", gotFrom)
	}
}

func TestSendUnknownChannelDefaultsToSMS(t *testing.T) {
	var gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotTo = r.PostForm.Get("To")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	g := New("AC123", "token", "+15005550006").WithBaseURL(srv.URL)
	if !g.Send(context.Background(), "+14155551234", "hello", domain.Channel("carrier-pigeon")) {
		t.Fatal("expected send to succeed")
	}
	if gotTo != "+14155551234" {
		t.Fatalf("To = %q, want bare number for sms", gotTo)
	}
}

func TestSendFailuresReturnFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := New("AC123", "token", "+15005550006").WithBaseURL(srv.URL)
	if g.Send(context.Background(), "+14155551234", "hello", domain.ChannelSMS) {
		t.Fatal("expected carrier rejection to return false")
	}

	// Missing credentials never reach the transport.
	unconfigured := New("", "", "")
	if unconfigured.Send(context.Background(), "+14155551234", "hello", domain.ChannelSMS) {
		t.Fatal("expected missing credentials to return false")
	}

	// Invalid phone fails before the transport.
	if g.Send(context.Background(), "14155551234", "hello", domain.ChannelSMS) {
		t.Fatal("expected invalid phone to return false")
	}
}
