// Package parse extracts subject, topic, level and query from inbound chat
// messages.
package parse

import "strings"

// Result holds the fields extracted from a message.
type Result struct {
	Subject string
	Topic   string
	Level   string
	Query   string
}

// Subjects supported by the content pipeline. Anything else clamps to
// "General".
var validSubjects = []string{"Visual Arts", "Performing Arts", "Coding", "Financial Literacy", "Science"}

var validLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Keyword sets used to infer a subject when no hashtags are present.
// Checked in order; first match wins.
var subjectKeywords = []struct {
	subject  string
	keywords []string
}{
	{"Visual Arts", []string{"draw", "paint", "color", "design", "art"}},
	{"Performing Arts", []string{"dance", "music", "sing", "instrument", "perform"}},
	{"Coding", []string{"code", "program", "python", "java", "html"}},
	{"Financial Literacy", []string{"money", "finance", "budget", "invest", "save"}},
	{"Science", []string{"science", "biology", "chemistry", "physics", "experiment"}},
}

// Message parses an inbound message. With at least three hashtag tokens the
// first three are taken positionally as subject, topic and level, and the
// query is the remaining text. Otherwise the whole message is the query,
// the subject is inferred from keywords and the topic is the first five
// words. Total: always returns a usable Result, falling back to defaults.
func Message(message string) Result {
	parts := strings.Fields(message)
	res := Result{
		Subject: "General",
		Topic:   "General Topic",
		Level:   "Beginner",
	}

	var hashtags []string
	for _, part := range parts {
		if strings.HasPrefix(part, "#") {
			hashtags = append(hashtags, part)
		}
	}

	if len(hashtags) >= 3 {
		res.Subject = capitalize(strings.TrimPrefix(hashtags[0], "#"))
		res.Topic = capitalize(strings.TrimPrefix(hashtags[1], "#"))
		res.Level = capitalize(strings.TrimPrefix(hashtags[2], "#"))

		var rest []string
		for _, part := range parts {
			if !strings.HasPrefix(part, "#") {
				rest = append(rest, part)
			}
		}
		res.Query = strings.Join(rest, " ")
	} else {
		res.Query = message
		lower := strings.ToLower(message)
		for _, set := range subjectKeywords {
			if containsAny(lower, set.keywords) {
				res.Subject = set.subject
				break
			}
		}
		if len(parts) > 0 {
			n := len(parts)
			if n > 5 {
				n = 5
			}
			res.Topic = strings.Join(parts[:n], " ")
		}
	}

	if !contains(validSubjects, res.Subject) {
		res.Subject = "General"
	}
	if !contains(validLevels, res.Level) {
		res.Level = "Beginner"
	}
	return res
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
