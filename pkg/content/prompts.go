package content

import "fmt"

const systemPrompt = "You are an educational content writer producing material for short learner videos. " +
	"Always respond with JSON only, exactly matching the requested shape, with no surrounding prose."

func overviewPrompt(subject, topic, level, query string) string {
	return fmt.Sprintf(`Create a catchy, engaging educational title, brief description, and learning objectives for:
Subject: %s
Topic: %s
Level: %s
Student Query: %s

%s
Return exactly in this JSON format:
{
  "title": "Your catchy title here",
  "description": "Your brief description here (2-3 sentences)",
  "learning_objectives": ["Objective 1", "Objective 2", "Objective 3"]
}

Be educational and appropriate for %s level students. Return ONLY the JSON.`,
		subject, topic, level, query, subjectInstructions(subject), level)
}

func keyPointsPrompt(subject, topic, level, query string) string {
	return fmt.Sprintf(`List 4-6 key educational points about:
Subject: %s
Topic: %s
Level: %s
Student Query: %s

%s
For each key point, provide a brief explanation of why it's important.
Return exactly in this JSON format:
[
  {"point": "Key point 1", "explanation": "Why this point is important"}
]

Return ONLY the JSON array.`,
		subject, topic, level, query, subjectInstructions(subject))
}

func interactivePrompt(subject, topic, level string) string {
	return fmt.Sprintf(`Create educational interactive elements for:
Subject: %s
Topic: %s
Level: %s

%s
Return exactly in this JSON format:
{
  "questions": [
    {"question": "Question text here?", "answer": "Answer text here"}
  ],
  "activities": [
    {"title": "Activity title", "description": "Activity description and instructions", "materials_needed": "Any materials needed (or 'None')"}
  ]
}

Include 2-3 thought-provoking questions with answers.
Include 1-2 hands-on activities students can try themselves.
Make everything appropriate for %s level students. Return ONLY the JSON.`,
		subject, topic, level, subjectInstructions(subject), level)
}

func scriptPrompt(subject, topic, level, query string) string {
	return fmt.Sprintf(`Create an educational script, detailed scene descriptions, and further-learning resources for a video about:
Subject: %s
Topic: %s
Level: %s
Student Query: %s

%s
Return exactly in this JSON format:
{
  "script": "Your complete script here",
  "scenes": [
    {"description": "Detailed visual description for scene 1", "narration": "What is said in scene 1", "visual_elements": "Key visual elements to include (diagrams, text overlays, etc.)", "duration_seconds": 10}
  ],
  "resources": [
    {"type": "website", "title": "Resource title", "description": "Brief description"}
  ]
}

The script should be educational and detailed (2-3 minutes).
Include 5-8 scenes total with specific visual descriptions.
Include 3-4 different types of resources (websites, videos, books, practice exercises).
Make the content appropriate for %s level students. Return ONLY the JSON.`,
		subject, topic, level, query, subjectInstructions(subject), level)
}

// subjectInstructions tailors the prompts for the supported categories.
func subjectInstructions(subject string) string {
	switch subject {
	case "Coding":
		return `For coding lessons:
1. Include specific code examples with line-by-line explanations
2. Add debugging tips and common pitfalls
3. Include practical exercises with solutions
4. Ensure code is accurate and follows best practices
`
	case "Science":
		return `For science lessons:
1. Include descriptions of visual experiments or demonstrations
2. Explain scientific concepts using analogies
3. Include real-world applications of the concepts
4. Include questions that promote critical thinking
`
	case "Financial Literacy":
		return `For financial lessons:
1. Include practical examples with real numbers
2. Add step-by-step calculations
3. Explain financial concepts using everyday scenarios
4. Include tips for practical application
`
	case "Visual Arts":
		return `For visual arts lessons:
1. Include descriptions of artistic techniques and styles
2. Provide step-by-step instructions for creating art
3. Include examples of notable artworks related to the topic
4. Add tips for improving artistic skills
`
	case "Performing Arts":
		return `For performing arts lessons:
1. Include descriptions of performance techniques
2. Provide examples of notable performances
3. Add tips for stage presence and expression
4. Explain cultural and historical context where relevant
`
	default:
		return fmt.Sprintf(`For %s lessons:
1. Provide clear, concise explanations of key concepts
2. Include practical examples and applications
3. Use visual aids and diagrams to illustrate points
4. Include questions that test understanding
`, subject)
	}
}
