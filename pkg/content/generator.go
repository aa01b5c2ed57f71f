// Package content produces the educational content bundle for a video
// request by querying an LLM provider.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"tapbuddy/pkg/ai"
	"tapbuddy/pkg/domain"
)

// Generator assembles a content bundle from four LLM calls: overview,
// key points, interactive elements, and resources plus script. Responses
// must satisfy the JSON contract; malformed output is a generation error,
// not a best-effort scrape.
type Generator struct {
	llm ai.TextGenerator
}

// NewGenerator builds a Generator. A nil provider degrades Generate to the
// canned default bundle so the pipeline keeps working without an API key.
func NewGenerator(llm ai.TextGenerator) *Generator {
	return &Generator{llm: llm}
}

// Generate returns the content bundle for the request fields.
func (g *Generator) Generate(ctx context.Context, subject, topic, level, query string) (domain.Content, error) {
	if g.llm == nil {
		slog.Warn("no llm provider configured, using default content", "topic", topic)
		return defaultContent(subject, topic, level), nil
	}

	// The four sections are independent, so they run concurrently.
	var (
		overview    overviewResponse
		keyPoints   []domain.KeyPoint
		interactive interactiveResponse
		script      scriptResponse
	)
	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		overview, err = g.generateOverview(ectx, subject, topic, level, query)
		return err
	})
	eg.Go(func() error {
		var err error
		keyPoints, err = g.generateKeyPoints(ectx, subject, topic, level, query)
		return err
	})
	eg.Go(func() error {
		var err error
		interactive, err = g.generateInteractive(ectx, subject, topic, level)
		return err
	})
	eg.Go(func() error {
		var err error
		script, err = g.generateResourcesAndScript(ectx, subject, topic, level, query)
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.Content{}, &domain.GenerationError{Stage: "content", Err: err}
	}

	bundle := domain.Content{
		Title:              overview.Title,
		Description:        overview.Description,
		LearningObjectives: overview.LearningObjectives,
		KeyPoints:          keyPoints,
		Script:             script.Script,
		Scenes:             script.Scenes,
		Questions:          interactive.Questions,
		Activities:         interactive.Activities,
		Resources:          script.Resources,
	}
	fillDefaults(&bundle, subject, topic)
	return bundle, nil
}

type overviewResponse struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learning_objectives"`
}

func (g *Generator) generateOverview(ctx context.Context, subject, topic, level, query string) (overviewResponse, error) {
	var out overviewResponse
	raw, err := g.llm.GenerateText(ctx, systemPrompt, overviewPrompt(subject, topic, level, query))
	if err != nil {
		return out, fmt.Errorf("overview: %w", err)
	}
	if err := decodeStrict(raw, &out); err != nil {
		return out, fmt.Errorf("parse overview: %w", err)
	}
	if out.Title == "" || out.Description == "" {
		return out, fmt.Errorf("parse overview: missing title or description")
	}
	return out, nil
}

func (g *Generator) generateKeyPoints(ctx context.Context, subject, topic, level, query string) ([]domain.KeyPoint, error) {
	raw, err := g.llm.GenerateText(ctx, systemPrompt, keyPointsPrompt(subject, topic, level, query))
	if err != nil {
		return nil, fmt.Errorf("key points: %w", err)
	}
	var points []domain.KeyPoint
	if err := decodeStrict(raw, &points); err != nil {
		return nil, fmt.Errorf("parse key points: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("parse key points: empty list")
	}
	return points, nil
}

type interactiveResponse struct {
	Questions  []domain.Question `json:"questions"`
	Activities []domain.Activity `json:"activities"`
}

func (g *Generator) generateInteractive(ctx context.Context, subject, topic, level string) (interactiveResponse, error) {
	var out interactiveResponse
	raw, err := g.llm.GenerateText(ctx, systemPrompt, interactivePrompt(subject, topic, level))
	if err != nil {
		return out, fmt.Errorf("interactive elements: %w", err)
	}
	if err := decodeStrict(raw, &out); err != nil {
		return out, fmt.Errorf("parse interactive elements: %w", err)
	}
	return out, nil
}

type scriptResponse struct {
	Script    string            `json:"script"`
	Scenes    []domain.Scene    `json:"scenes"`
	Resources []domain.Resource `json:"resources"`
}

func (g *Generator) generateResourcesAndScript(ctx context.Context, subject, topic, level, query string) (scriptResponse, error) {
	var out scriptResponse
	raw, err := g.llm.GenerateText(ctx, systemPrompt, scriptPrompt(subject, topic, level, query))
	if err != nil {
		return out, fmt.Errorf("script: %w", err)
	}
	if err := decodeStrict(raw, &out); err != nil {
		return out, fmt.Errorf("parse script: %w", err)
	}
	if out.Script == "" {
		return out, fmt.Errorf("parse script: missing script")
	}
	if len(out.Scenes) == 0 {
		return out, fmt.Errorf("parse script: no scenes")
	}
	return out, nil
}

// decodeStrict unmarshals an LLM response into out. Markdown code fences
// around the JSON payload are tolerated; anything that does not unmarshal
// into the expected shape is an error.
func decodeStrict(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	return json.Unmarshal([]byte(cleaned), out)
}
