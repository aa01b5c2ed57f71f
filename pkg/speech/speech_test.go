package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestSynthesizePlaceholderWithoutKey(t *testing.T) {
	s := New("", t.TempDir())

	path, err := s.Synthesize(context.Background(), "Welcome to photosynthesis.")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Fatalf("path = %q, want .mp3 suffix", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "Welcome to photosynthesis." {
		t.Fatalf("placeholder content = %q", data)
	}
}

func TestSynthesizeWritesAPIAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "key-1" {
			t.Fatalf("api key header = %q", got)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s := New("key-1", t.TempDir()).WithBaseURL(srv.URL)
	path, err := s.Synthesize(context.Background(), "script")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("artifact content = %q", data)
	}
}

func TestSynthesizeFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New("key-1", t.TempDir()).WithBaseURL(srv.URL)
	path, err := s.Synthesize(context.Background(), "the script")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "the script" {
		t.Fatalf("expected placeholder fallback, got %q", data)
	}
}
