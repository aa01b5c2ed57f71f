package video

import (
	"fmt"
	"strings"

	"tapbuddy/pkg/domain"
)

const negativePrompt = "poor quality, blurry, distorted"

// scenePromptVideo is the template used when an external video API key is
// configured. Each scene is turned into a styled generation prompt and the
// prompts are recorded in the artifact alongside the full content.
func scenePromptVideo(bundle domain.Content, subject string) string {
	var b strings.Builder
	b.WriteString("TAPBUDDY EDUCATIONAL VIDEO\n")
	b.WriteString("==========================\n\n")
	fmt.Fprintf(&b, "Title: %s\n", bundle.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", bundle.Description)

	writeObjectives(&b, bundle.LearningObjectives)

	b.WriteString("KEY POINTS:\n")
	for i, kp := range bundle.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, kp.Point)
	}
	b.WriteString("\n")

	b.WriteString("SCENE PROMPTS:\n")
	style := SubjectStyle(subject)
	for i, scene := range bundle.Scenes {
		prompt := scene.Description
		if scene.VisualElements != "" {
			prompt += " " + scene.VisualElements
		}
		fmt.Fprintf(&b, "Prompt %d: %s\n", i+1, prompt)
		fmt.Fprintf(&b, "Style: %s\n", style)
		fmt.Fprintf(&b, "Negative: %s\n", negativePrompt)
		fmt.Fprintf(&b, "Duration: %d seconds\n\n", sceneDuration(scene))
	}

	b.WriteString("SCRIPT:\n")
	b.WriteString(bundle.Script)
	b.WriteString("\n\n")

	writeScenes(&b, bundle.Scenes)
	return b.String()
}

// basicVideo is the default template covering every content section.
func basicVideo(bundle domain.Content, subject string) string {
	var b strings.Builder
	b.WriteString("TAPBUDDY EDUCATIONAL VIDEO\n")
	b.WriteString("==========================\n\n")
	fmt.Fprintf(&b, "Title: %s\n", bundle.Title)
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "Description: %s\n\n", bundle.Description)

	writeObjectives(&b, bundle.LearningObjectives)

	b.WriteString("KEY POINTS:\n")
	for i, kp := range bundle.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, kp.Point)
		if kp.Explanation != "" {
			fmt.Fprintf(&b, "   Explanation: %s\n", kp.Explanation)
		}
	}
	b.WriteString("\n")

	b.WriteString("SCRIPT:\n")
	b.WriteString(bundle.Script)
	b.WriteString("\n\n")

	writeScenes(&b, bundle.Scenes)

	if len(bundle.Questions) > 0 {
		b.WriteString("ASSESSMENT QUESTIONS:\n")
		for i, q := range bundle.Questions {
			fmt.Fprintf(&b, "Q%d: %s\n", i+1, q.Question)
			fmt.Fprintf(&b, "A%d: %s\n\n", i+1, q.Answer)
		}
	}
	if len(bundle.Activities) > 0 {
		b.WriteString("HANDS-ON ACTIVITIES:\n")
		for i, a := range bundle.Activities {
			fmt.Fprintf(&b, "Activity %d: %s\n", i+1, a.Title)
			fmt.Fprintf(&b, "Description: %s\n", a.Description)
			fmt.Fprintf(&b, "Materials: %s\n\n", orDefault(a.MaterialsNeeded, "None"))
		}
	}
	if len(bundle.Resources) > 0 {
		b.WriteString("ADDITIONAL RESOURCES:\n")
		for i, r := range bundle.Resources {
			fmt.Fprintf(&b, "Resource %d: %s\n", i+1, r.Title)
			fmt.Fprintf(&b, "Type: %s\n", r.Type)
			fmt.Fprintf(&b, "Description: %s\n\n", r.Description)
		}
	}
	return b.String()
}

// codingVideo highlights code-bearing scenes and frames activities as
// exercises.
func codingVideo(bundle domain.Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CODING EDUCATIONAL VIDEO: %s\n", bundle.Title)
	b.WriteString("===============================================\n\n")
	fmt.Fprintf(&b, "Description: %s\n\n", bundle.Description)

	writeObjectives(&b, bundle.LearningObjectives)

	b.WriteString("CODE SNIPPETS:\n")
	found := false
	for i, scene := range bundle.Scenes {
		desc := strings.ToLower(scene.Description)
		narr := strings.ToLower(scene.Narration)
		if strings.Contains(desc, "code") || strings.Contains(narr, "code") ||
			strings.Contains(desc, "example") || strings.Contains(narr, "function") {
			fmt.Fprintf(&b, "Snippet %d (%d seconds):\n", i+1, sceneDuration(scene))
			fmt.Fprintf(&b, "Description: %s\n", scene.Description)
			fmt.Fprintf(&b, "Explanation: %s\n\n", scene.Narration)
			found = true
		}
	}
	if !found {
		b.WriteString("Basic programming examples would be included here based on the topic.\n\n")
	}

	b.WriteString("DEBUGGING TIPS:\n")
	b.WriteString("1. Common errors and their solutions\n")
	b.WriteString("2. Testing strategies\n")
	b.WriteString("3. Code optimization techniques\n\n")

	if len(bundle.Activities) > 0 {
		b.WriteString("CODING EXERCISES:\n")
		for i, a := range bundle.Activities {
			fmt.Fprintf(&b, "Exercise %d: %s\n", i+1, a.Title)
			fmt.Fprintf(&b, "Instructions: %s\n", a.Description)
			fmt.Fprintf(&b, "Tools needed: %s\n\n", orDefault(a.MaterialsNeeded, "Code editor"))
		}
	}

	b.WriteString("MAIN TUTORIAL CONTENT:\n")
	b.WriteString(bundle.Script)
	b.WriteString("\n\n")

	b.WriteString("PRACTICE PROBLEMS:\n")
	for i, q := range bundle.Questions {
		fmt.Fprintf(&b, "Problem %d: %s\n", i+1, q.Question)
		fmt.Fprintf(&b, "Solution: %s\n\n", q.Answer)
	}
	return b.String()
}

// scienceVideo surfaces demonstrations, applications, and experiments.
func scienceVideo(bundle domain.Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SCIENCE EDUCATIONAL VIDEO: %s\n", bundle.Title)
	b.WriteString("===============================================\n\n")
	fmt.Fprintf(&b, "Description: %s\n\n", bundle.Description)

	writeObjectives(&b, bundle.LearningObjectives)

	b.WriteString("KEY SCIENTIFIC CONCEPTS:\n")
	for i, kp := range bundle.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, kp.Point)
	}
	b.WriteString("\n")

	b.WriteString("VISUAL DEMONSTRATIONS & EXPERIMENTS:\n")
	for i, scene := range bundle.Scenes {
		desc := strings.ToLower(scene.Description)
		narr := strings.ToLower(scene.Narration)
		visuals := strings.ToLower(scene.VisualElements)
		if strings.Contains(desc, "experiment") || strings.Contains(desc, "demonstration") ||
			strings.Contains(narr, "observe") || strings.Contains(visuals, "diagram") {
			fmt.Fprintf(&b, "Demonstration %d (%d seconds):\n", i+1, sceneDuration(scene))
			fmt.Fprintf(&b, "Description: %s\n", scene.Description)
			if scene.VisualElements != "" {
				fmt.Fprintf(&b, "Visual Elements: %s\n", scene.VisualElements)
			}
			fmt.Fprintf(&b, "Explanation: %s\n\n", scene.Narration)
		}
	}

	b.WriteString("SCIENTIFIC EXPLANATION:\n")
	b.WriteString(bundle.Script)
	b.WriteString("\n\n")

	b.WriteString("REAL-WORLD APPLICATIONS:\n")
	found := false
	for _, scene := range bundle.Scenes {
		if strings.Contains(strings.ToLower(scene.Description), "application") ||
			strings.Contains(strings.ToLower(scene.Narration), "real world") {
			fmt.Fprintf(&b, "- %s\n", scene.Description)
			found = true
		}
	}
	if !found {
		b.WriteString("Real-world applications of these scientific concepts would be detailed here.\n\n")
	}

	if len(bundle.Activities) > 0 {
		b.WriteString("HANDS-ON EXPERIMENTS:\n")
		for i, a := range bundle.Activities {
			fmt.Fprintf(&b, "Experiment %d: %s\n", i+1, a.Title)
			fmt.Fprintf(&b, "Procedure: %s\n", a.Description)
			fmt.Fprintf(&b, "Materials needed: %s\n\n", orDefault(a.MaterialsNeeded, "Standard laboratory equipment"))
		}
	}
	return b.String()
}

func writeObjectives(b *strings.Builder, objectives []string) {
	if len(objectives) == 0 {
		return
	}
	b.WriteString("LEARNING OBJECTIVES:\n")
	for i, obj := range objectives {
		fmt.Fprintf(b, "%d. %s\n", i+1, obj)
	}
	b.WriteString("\n")
}

func writeScenes(b *strings.Builder, scenes []domain.Scene) {
	b.WriteString("SCENES:\n")
	for i, scene := range scenes {
		fmt.Fprintf(b, "Scene %d: %s\n", i+1, scene.Description)
		fmt.Fprintf(b, "Narration: %s\n", scene.Narration)
		if scene.VisualElements != "" {
			fmt.Fprintf(b, "Visual Elements: %s\n", scene.VisualElements)
		}
		fmt.Fprintf(b, "Duration: %d seconds\n\n", sceneDuration(scene))
	}
}

func sceneDuration(scene domain.Scene) int {
	if scene.DurationSeconds > 0 {
		return scene.DurationSeconds
	}
	return 15
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
