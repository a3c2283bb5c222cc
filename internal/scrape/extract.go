package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Pattern for dates written out as "August 4, 2026" or "August 04 2026".
var longDatePattern = regexp.MustCompile(
	`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)

// Keywords that indicate which election a nearby date belongs to.
var (
	primaryKeywords = []string{"primary election", "primaries", "primary"}
	generalKeywords = []string{"general election", "general", "november"}
)

// contextRadius is how many characters on each side of a match are kept
// for classification.
const contextRadius = 50

// ExtractDates finds "Month D, YYYY" dates in page text. Each match keeps
// its surrounding context so the caller can classify it.
func ExtractDates(text string) []DateMatch {
	matches := []DateMatch{}

	for _, loc := range longDatePattern.FindAllStringSubmatchIndex(text, -1) {
		original := text[loc[0]:loc[1]]

		parsed, err := time.Parse("January 2, 2006", normalizeLongDate(original))
		if err != nil {
			continue
		}

		start := loc[0] - contextRadius
		if start < 0 {
			start = 0
		}
		end := loc[1] + contextRadius
		if end > len(text) {
			end = len(text)
		}

		matches = append(matches, DateMatch{
			Date:     parsed.Format("2006-01-02"),
			Original: original,
			Context:  text[start:end],
		})
	}

	return matches
}

// normalizeLongDate rewrites a matched date into "Month D, YYYY" so one
// layout string covers comma and no-comma variants.
func normalizeLongDate(s string) string {
	groups := longDatePattern.FindStringSubmatch(s)
	if groups == nil {
		return s
	}
	month := strings.ToUpper(groups[1][:1]) + strings.ToLower(groups[1][1:])
	return fmt.Sprintf("%s %s, %s", month, groups[2], groups[3])
}

// ClassifyElectionType decides whether a date's surrounding context refers
// to a primary or general election. Returns "" when neither applies.
func ClassifyElectionType(context string) string {
	lower := strings.ToLower(context)

	for _, kw := range primaryKeywords {
		if strings.Contains(lower, kw) {
			return "primary"
		}
	}

	for _, kw := range generalKeywords {
		if strings.Contains(lower, kw) {
			return "general"
		}
	}

	return ""
}
