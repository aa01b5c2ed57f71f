package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPlaceholderStoreReturnsPublicURL(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(artifact, []byte("frames"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	store := NewPlaceholderStore("test-bucket")
	url, err := store.UploadFile(context.Background(), artifact, "videos/req-1/20260101000000.mp4")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := "https://storage.googleapis.com/test-bucket/videos/req-1/20260101000000.mp4"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
}

func TestPlaceholderStoreMissingArtifact(t *testing.T) {
	store := NewPlaceholderStore("")
	if _, err := store.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "k"); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestVideoKey(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := VideoKey("req-42", ts)
	if got != "videos/req-42/20260102030405.mp4" {
		t.Fatalf("key = %q", got)
	}
	if !strings.HasPrefix(got, "videos/req-42/") {
		t.Fatalf("key prefix = %q", got)
	}
}
