package content

import (
	"fmt"

	"tapbuddy/pkg/domain"
)

// defaultContent is the canned bundle used when no LLM provider is
// configured.
func defaultContent(subject, topic, level string) domain.Content {
	bundle := domain.Content{
		Title:       fmt.Sprintf("Learning about %s in %s", topic, subject),
		Description: fmt.Sprintf("An educational video about %s for %s students", topic, level),
		KeyPoints: []domain.KeyPoint{
			{Point: fmt.Sprintf("Basic understanding of %s", topic)},
			{Point: fmt.Sprintf("Practical applications of %s", topic)},
			{Point: fmt.Sprintf("Key concepts in %s", topic)},
		},
		Script: fmt.Sprintf("In this video, we'll explore %s in %s. This is an important topic for %s students.", topic, subject, level),
	}
	fillDefaults(&bundle, subject, topic)
	return bundle
}

// fillDefaults supplies canned values for optional sections the provider
// left empty. Required sections (title, script, scenes, key points) are
// validated at parse time and never defaulted here for LLM output.
func fillDefaults(bundle *domain.Content, subject, topic string) {
	if len(bundle.LearningObjectives) == 0 {
		bundle.LearningObjectives = []string{
			fmt.Sprintf("Understand the basic concepts of %s", topic),
			fmt.Sprintf("Apply knowledge of %s in practical situations", topic),
			fmt.Sprintf("Analyze and evaluate information related to %s", topic),
		}
	}
	if len(bundle.Scenes) == 0 {
		bundle.Scenes = []domain.Scene{
			{
				Description:     fmt.Sprintf("Introduction to %s", topic),
				Narration:       fmt.Sprintf("Welcome to this educational video about %s in %s.", topic, subject),
				VisualElements:  "Title screen with topic name and relevant visuals",
				DurationSeconds: 10,
			},
			{
				Description:     fmt.Sprintf("Explaining the basics of %s", topic),
				Narration:       fmt.Sprintf("Let's start by understanding the basics of %s.", topic),
				VisualElements:  "Simple diagram showing key concepts",
				DurationSeconds: 20,
			},
		}
	}
	if len(bundle.Questions) == 0 {
		bundle.Questions = []domain.Question{
			{Question: fmt.Sprintf("What is %s?", topic), Answer: fmt.Sprintf("A basic explanation of %s.", topic)},
			{Question: fmt.Sprintf("How can you apply %s in real life?", topic), Answer: "There are several practical applications..."},
		}
	}
	if len(bundle.Activities) == 0 {
		bundle.Activities = []domain.Activity{
			{
				Title:           fmt.Sprintf("Practice with %s", topic),
				Description:     fmt.Sprintf("Try this simple activity to reinforce your understanding of %s.", topic),
				MaterialsNeeded: "Pencil and paper",
			},
		}
	}
	if len(bundle.Resources) == 0 {
		bundle.Resources = []domain.Resource{
			{Type: "website", Title: fmt.Sprintf("%s Resources", subject), Description: fmt.Sprintf("Educational resources about %s.", topic)},
			{Type: "video", Title: fmt.Sprintf("%s Tutorial", topic), Description: "Video tutorial with step-by-step instructions."},
			{Type: "practice", Title: "Practice Exercises", Description: "Exercises to reinforce learning."},
		}
	}
}
