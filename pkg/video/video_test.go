package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tapbuddy/pkg/domain"
)

func sampleContent() domain.Content {
	return domain.Content{
		Title:              "Photosynthesis Explained",
		Description:        "How plants make food.",
		LearningObjectives: []string{"Understand light reactions"},
		KeyPoints:          []domain.KeyPoint{{Point: "Plants convert light", Explanation: "Core mechanism"}},
		Script:             "Welcome to photosynthesis.",
		Scenes: []domain.Scene{
			{Description: "A chloroplast experiment", Narration: "Observe the leaf", VisualElements: "diagram of a leaf", DurationSeconds: 12},
		},
		Questions:  []domain.Question{{Question: "What is chlorophyll?", Answer: "A pigment."}},
		Activities: []domain.Activity{{Title: "Leaf test", Description: "Observe a leaf.", MaterialsNeeded: "A leaf"}},
		Resources:  []domain.Resource{{Type: "website", Title: "Bio basics", Description: "Reference"}},
	}
}

func TestRenderWritesArtifactAndCompanion(t *testing.T) {
	dir := t.TempDir()
	r := New("", dir)

	path, err := r.Render(context.Background(), sampleContent(), "Visual Arts", "audio.mp3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Fatalf("path = %q, want .mp4 suffix", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(body), "Title: Photosynthesis Explained") {
		t.Fatalf("artifact missing title:\n%s", body)
	}
	if !strings.Contains(string(body), "ASSESSMENT QUESTIONS:") {
		t.Fatalf("artifact missing questions section:\n%s", body)
	}

	base := strings.TrimSuffix(filepath.Base(path), ".mp4")
	companion, err := os.ReadFile(filepath.Join(dir, base+"_companion.json"))
	if err != nil {
		t.Fatalf("read companion: %v", err)
	}
	if !strings.Contains(string(companion), "Bio basics") {
		t.Fatalf("companion missing resources:\n%s", companion)
	}
	if _, err := os.Stat(filepath.Join(dir, base+"_metadata.json")); err != nil {
		t.Fatalf("metadata file: %v", err)
	}
}

func TestRenderScienceTemplate(t *testing.T) {
	r := New("", t.TempDir())

	path, err := r.Render(context.Background(), sampleContent(), "Science", "audio.mp3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body, _ := os.ReadFile(path)
	if !strings.Contains(string(body), "SCIENCE EDUCATIONAL VIDEO") {
		t.Fatalf("expected science template:\n%s", body)
	}
	if !strings.Contains(string(body), "Demonstration 1") {
		t.Fatalf("expected demonstration scene to be surfaced:\n%s", body)
	}
	if !strings.Contains(string(body), "HANDS-ON EXPERIMENTS:") {
		t.Fatalf("expected experiments section:\n%s", body)
	}
}

func TestRenderCodingTemplate(t *testing.T) {
	r := New("", t.TempDir())
	bundle := sampleContent()
	bundle.Scenes = []domain.Scene{{Description: "A code example", Narration: "This function loops", DurationSeconds: 20}}

	path, err := r.Render(context.Background(), bundle, "Coding", "audio.mp3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body, _ := os.ReadFile(path)
	if !strings.Contains(string(body), "CODING EDUCATIONAL VIDEO") {
		t.Fatalf("expected coding template:\n%s", body)
	}
	if !strings.Contains(string(body), "Snippet 1 (20 seconds):") {
		t.Fatalf("expected code snippet extraction:\n%s", body)
	}
}

func TestRenderWithAPIKeyUsesScenePrompts(t *testing.T) {
	r := New("rw-key", t.TempDir())

	path, err := r.Render(context.Background(), sampleContent(), "Science", "audio.mp3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body, _ := os.ReadFile(path)
	if !strings.Contains(string(body), "SCENE PROMPTS:") {
		t.Fatalf("expected scene prompts section:\n%s", body)
	}
	if !strings.Contains(string(body), SubjectStyle("Science")) {
		t.Fatalf("expected subject style in prompts:\n%s", body)
	}
	if !strings.Contains(string(body), negativePrompt) {
		t.Fatalf("expected negative prompt:\n%s", body)
	}
}

func TestSubjectStyleFallback(t *testing.T) {
	if got := SubjectStyle("General"); got != "educational, clear, engaging, informative" {
		t.Fatalf("style = %q", got)
	}
	if got := SubjectStyle("Coding"); !strings.Contains(got, "tech-oriented") {
		t.Fatalf("coding style = %q", got)
	}
}

func TestRenderCancelledContext(t *testing.T) {
	r := New("", t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, sampleContent(), "Science", "audio.mp3"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
