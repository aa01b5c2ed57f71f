package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tapbuddy/pkg/domain"
)

// scriptedLLM returns canned responses keyed by a prompt substring.
type scriptedLLM struct {
	responses map[string]string
	err       error
}

func (s *scriptedLLM) GenerateText(_ context.Context, _, userPrompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	// Prefer the longest matching key so a generic substring (e.g. "title"
	// inside another prompt's JSON example) cannot shadow a specific one.
	best := ""
	for key := range s.responses {
		if strings.Contains(userPrompt, key) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return s.responses[best], nil
	}
	return "", errors.New("no scripted response")
}

func validResponses() map[string]string {
	return map[string]string{
		"title": `{"title":"Photosynthesis Explained","description":"How plants make food.","learning_objectives":["Understand light reactions"]}`,
		"key educational points": `[{"point":"Plants convert light","explanation":"Core mechanism"}]`,
		"interactive elements":   `{"questions":[{"question":"What is chlorophyll?","answer":"A pigment."}],"activities":[{"title":"Leaf test","description":"Observe a leaf.","materials_needed":"A leaf"}]}`,
		"further-learning":       `{"script":"Welcome to photosynthesis.","scenes":[{"description":"A leaf","narration":"Plants eat light","visual_elements":"diagram","duration_seconds":10}],"resources":[{"type":"website","title":"Bio basics","description":"Reference"}]}`,
	}
}

func TestGenerateAssemblesBundle(t *testing.T) {
	gen := NewGenerator(&scriptedLLM{responses: validResponses()})

	bundle, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "How do plants make food?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if bundle.Title != "Photosynthesis Explained" {
		t.Fatalf("title = %q", bundle.Title)
	}
	if len(bundle.KeyPoints) != 1 || bundle.KeyPoints[0].Point != "Plants convert light" {
		t.Fatalf("key points = %+v", bundle.KeyPoints)
	}
	if bundle.Script != "Welcome to photosynthesis." {
		t.Fatalf("script = %q", bundle.Script)
	}
	if len(bundle.Scenes) != 1 || len(bundle.Questions) != 1 || len(bundle.Resources) != 1 {
		t.Fatalf("unexpected bundle sections: %+v", bundle)
	}
}

func TestGenerateToleratesCodeFences(t *testing.T) {
	responses := validResponses()
	responses["title"] = "```json\n" + responses["title"] + "\n```"
	gen := NewGenerator(&scriptedLLM{responses: responses})

	bundle, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "q")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if bundle.Title != "Photosynthesis Explained" {
		t.Fatalf("title = %q", bundle.Title)
	}
}

func TestGenerateMalformedResponseIsGenerationError(t *testing.T) {
	responses := validResponses()
	responses["title"] = "Sure! Here is a great title: Photosynthesis Explained"
	gen := NewGenerator(&scriptedLLM{responses: responses})

	_, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "q")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if genErr.Stage != "content" {
		t.Fatalf("stage = %q, want content", genErr.Stage)
	}
}

func TestGenerateMissingRequiredFieldFails(t *testing.T) {
	responses := validResponses()
	responses["further-learning"] = `{"script":"","scenes":[],"resources":[]}`
	gen := NewGenerator(&scriptedLLM{responses: responses})

	if _, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "q"); err == nil {
		t.Fatal("expected error for missing script")
	}
}

func TestGenerateProviderErrorPropagates(t *testing.T) {
	gen := NewGenerator(&scriptedLLM{err: errors.New("rate limited")})

	var genErr *domain.GenerationError
	if _, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "q"); !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGenerateWithoutProviderUsesDefaults(t *testing.T) {
	gen := NewGenerator(nil)

	bundle, err := gen.Generate(context.Background(), "Science", "Photosynthesis", "Beginner", "q")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if bundle.Title == "" || bundle.Script == "" || len(bundle.Scenes) == 0 {
		t.Fatalf("default bundle incomplete: %+v", bundle)
	}
	if len(bundle.Resources) == 0 || len(bundle.Questions) == 0 {
		t.Fatalf("default bundle missing optional sections: %+v", bundle)
	}
}
