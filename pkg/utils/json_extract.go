package utils

import (
	"strings"
)

var smartQuoteReplacer = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`,
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'",
	"\u00a0", " ", "\u202f", " ",
	"\u200b", "", "\u200c", "", "\u200d", "", "\u2060", "", "\ufeff", "",
)

var replyPrefixes = []string{
	"Here's the travel plan:",
	"Here is the itinerary:",
	"Here is the updated itinerary:",
	"The travel plan is:",
	"Travel plan:",
	"Itinerary:",
}

// ExtractJSON pulls the first balanced JSON object out of a model reply. Code fences,
// curly quotes and invisible whitespace are normalized first. When no balanced object
// exists the text from the first '{' onwards is returned, or "" if there is none.
func ExtractJSON(raw string) string {
	s := smartQuoteReplacer.Replace(raw)

	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	for _, prefix := range replyPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
			break
		}
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	if end := FindMatchingBrace(s, start); end != -1 {
		return s[start : end+1]
	}
	return s[start:]
}

// HasJSONObject reports whether the text contains a balanced {...} span.
func HasJSONObject(raw string) bool {
	s := ExtractJSON(raw)
	return s != "" && FindMatchingBrace(s, 0) == len(s)-1
}

// FindMatchingBrace returns the index of the brace closing s[start], skipping braces
// inside string literals, or -1.
func FindMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
