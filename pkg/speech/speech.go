// Package speech turns a narration script into an audio artifact using an
// external TTS API, with a placeholder file fallback.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTTSBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID    = "21m00Tcm4TlvDq8ikWAM"
	defaultModelID    = "eleven_monolingual_v1"
)

// Synthesizer produces audio files from scripts.
type Synthesizer struct {
	apiKey     string
	voiceID    string
	tempDir    string
	baseURL    string
	httpClient *http.Client
}

// New builds a Synthesizer writing artifacts under tempDir. An empty apiKey
// degrades Synthesize to writing the script text as a placeholder artifact.
func New(apiKey, tempDir string) *Synthesizer {
	if strings.TrimSpace(tempDir) == "" {
		tempDir = "./temp"
	}
	return &Synthesizer{
		apiKey:     strings.TrimSpace(apiKey),
		voiceID:    defaultVoiceID,
		tempDir:    tempDir,
		baseURL:    defaultTTSBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// WithBaseURL overrides the TTS endpoint. Used by tests.
func (s *Synthesizer) WithBaseURL(baseURL string) *Synthesizer {
	s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return s
}

// Synthesize renders the script to an audio file and returns its path.
// A TTS API failure falls back to the placeholder artifact so the pipeline
// can still produce a video.
func (s *Synthesizer) Synthesize(ctx context.Context, script string) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	outputPath := filepath.Join(s.tempDir, uuid.NewString()+".mp3")

	if s.apiKey == "" {
		return s.placeholder(script, outputPath)
	}

	audio, err := s.callTTS(ctx, script)
	if err != nil {
		slog.Warn("tts api failed, writing placeholder audio", "err", err)
		return s.placeholder(script, outputPath)
	}
	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	return outputPath, nil
}

func (s *Synthesizer) callTTS(ctx context.Context, script string) ([]byte, error) {
	body, err := json.Marshal(ttsRequest{
		Text:    script,
		ModelID: defaultModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts api error: %d %s", resp.StatusCode, string(detail))
	}
	return io.ReadAll(resp.Body)
}

// placeholder writes the script text in place of real audio.
func (s *Synthesizer) placeholder(script, outputPath string) (string, error) {
	if err := os.WriteFile(outputPath, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("write placeholder audio: %w", err)
	}
	return outputPath, nil
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}
