// Package video renders a video artifact for a content bundle. The external
// text-to-video integration is a stand-in: artifacts are structured text
// files describing the video that would be produced, written alongside a
// metadata file and a companion file with the interactive elements.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tapbuddy/pkg/domain"
)

// Renderer produces video artifacts under a temp directory.
type Renderer struct {
	apiKey  string
	tempDir string
}

// New builds a Renderer. apiKey selects the scene-prompt (external API)
// template; without it a subject-specific template is used.
func New(apiKey, tempDir string) *Renderer {
	if strings.TrimSpace(tempDir) == "" {
		tempDir = "./temp"
	}
	return &Renderer{apiKey: strings.TrimSpace(apiKey), tempDir: tempDir}
}

// Render writes the video artifact and returns its path. The audio artifact
// is referenced in the metadata so a real compositor could pick it up.
func (r *Renderer) Render(ctx context.Context, bundle domain.Content, subject, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	videoID := uuid.NewString()
	outputPath := filepath.Join(r.tempDir, videoID+".mp4")

	if err := r.writeMetadata(videoID, bundle, subject, audioPath); err != nil {
		return "", err
	}

	var body string
	switch {
	case r.apiKey != "":
		body = scenePromptVideo(bundle, subject)
	case subject == "Coding":
		body = codingVideo(bundle)
	case subject == "Science":
		body = scienceVideo(bundle)
	default:
		body = basicVideo(bundle, subject)
	}
	if err := os.WriteFile(outputPath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write video artifact: %w", err)
	}

	if err := r.writeCompanion(videoID, bundle); err != nil {
		// Companion content is supplementary; the video artifact stands.
		slog.Warn("write companion content failed", "err", err)
	}

	slog.Info("video artifact rendered", "path", outputPath, "subject", subject)
	return outputPath, nil
}

func (r *Renderer) writeMetadata(videoID string, bundle domain.Content, subject, audioPath string) error {
	metadata := map[string]any{
		"title":                bundle.Title,
		"subject":              subject,
		"audio_path":           audioPath,
		"generation_timestamp": time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(r.tempDir, videoID+"_metadata.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write video metadata: %w", err)
	}
	return nil
}

func (r *Renderer) writeCompanion(videoID string, bundle domain.Content) error {
	companion := map[string]any{
		"title":               bundle.Title,
		"description":         bundle.Description,
		"learning_objectives": bundle.LearningObjectives,
		"key_points":          bundle.KeyPoints,
		"questions":           bundle.Questions,
		"activities":          bundle.Activities,
		"additional_resources": bundle.Resources,
	}
	data, err := json.MarshalIndent(companion, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.tempDir, videoID+"_companion.json"), data, 0o644)
}

// SubjectStyle returns the visual style hint used when prompting the
// external video API for a subject.
func SubjectStyle(subject string) string {
	styles := map[string]string{
		"Visual Arts":        "artistic, colorful, creative, aesthetic, design-focused",
		"Performing Arts":    "dynamic, expressive, theatrical, movement-based",
		"Coding":             "modern, tech-oriented, clean, structured, digital",
		"Financial Literacy": "professional, clear, graph-based, analytical",
		"Science":            "precise, laboratory, experimental, diagram-based, factual",
	}
	if style, ok := styles[subject]; ok {
		return style
	}
	return "educational, clear, engaging, informative"
}
