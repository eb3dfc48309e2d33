package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Well-known Vietnamese destinations and the spellings travelers use for them.
var knownDestinations = []struct {
	name    string
	aliases []string
}{
	{"Da Lat", []string{"da lat", "dalat", "đà lạt"}},
	{"Ho Chi Minh City", []string{"ho chi minh", "hồ chí minh", "saigon", "sài gòn", "hcmc"}},
	{"Ha Noi", []string{"ha noi", "hanoi", "hà nội"}},
	{"Hoi An", []string{"hoi an", "hội an"}},
	{"Da Nang", []string{"da nang", "danang", "đà nẵng"}},
	{"Nha Trang", []string{"nha trang"}},
	{"Phu Quoc", []string{"phu quoc", "phú quốc"}},
	{"Ha Long", []string{"ha long", "halong", "hạ long"}},
	{"Sa Pa", []string{"sapa", "sa pa"}},
	{"Mui Ne", []string{"mui ne", "mũi né"}},
	{"Can Tho", []string{"can tho", "cần thơ"}},
	{"Hue", []string{"hue", "huế"}},
	{"Vung Tau", []string{"vung tau", "vũng tàu"}},
	{"Ninh Binh", []string{"ninh binh", "ninh bình"}},
	{"Quy Nhon", []string{"quy nhon", "quy nhơn"}},
}

var moveDestinationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:move|change|switch|relocate)\s+(?:the\s+)?(?:trip|plan|itinerary|days?\s*\d*)?\s*to\s+([\p{L}\s]+?)(?:\s+instead|\s+for|\s+on|\s+from|[.,!;]|$)`),
	regexp.MustCompile(`(?i)(?:go|travel|head)\s+to\s+([\p{L}\s]+?)\s+instead`),
	regexp.MustCompile(`(?i)(?:đổi|chuyển)\s+(?:sang|đến|tới|qua)\s+([\p{L}\s]+?)(?:\s+thay|\s+cho|\s+vào|\s+trong|[.,!;]|$)`),
	regexp.MustCompile(`(?i)(?:đi|đến)\s+([\p{L}\s]+?)\s+thay\s+vì`),
}

// DetectDestinationChange guesses whether an edit instruction moves the trip somewhere
// other than current. It returns the new destination or "". The result is only a hint.
func DetectDestinationChange(instruction, current string) string {
	lower := strings.ToLower(instruction)
	currentName := canonicalDestination(current)

	for _, pattern := range moveDestinationPatterns {
		m := pattern.FindStringSubmatch(instruction)
		if len(m) < 2 {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(candidate); n < 3 || n > 50 {
			continue
		}
		name, known := lookupDestination(candidate)
		first, _ := utf8.DecodeRuneInString(candidate)
		if !known && !unicode.IsUpper(first) {
			continue
		}
		if !strings.EqualFold(name, currentName) {
			return name
		}
	}

	for _, dest := range knownDestinations {
		if strings.EqualFold(dest.name, currentName) {
			continue
		}
		for _, alias := range dest.aliases {
			if containsWord(lower, alias) && mentionsMove(lower) {
				return dest.name
			}
		}
	}
	return ""
}

func canonicalDestination(s string) string {
	name, _ := lookupDestination(s)
	return name
}

func lookupDestination(s string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, dest := range knownDestinations {
		for _, alias := range dest.aliases {
			if containsWord(lower, alias) {
				return dest.name, true
			}
		}
	}
	return strings.TrimSpace(s), false
}

func mentionsMove(lower string) bool {
	for _, w := range []string{"instead", "move", "change", "switch", "thay vì", "đổi", "chuyển"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in text with no letter directly before or after it.
func containsWord(text, word string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !unicode.IsLetter(before)) && (end == len(text) || !unicode.IsLetter(after)) {
			return true
		}
		from = start + 1
		if from >= len(text) {
			return false
		}
	}
}
