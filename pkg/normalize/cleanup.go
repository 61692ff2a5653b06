package normalize

import (
	"regexp"
	"strings"
)

var (
	headingMarker = regexp.MustCompile(`#{1,6}\s`)
	bracketChars  = regexp.MustCompile(`[\[\]]`)
	repeatedQuote = regexp.MustCompile(`"{2,}`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// CleanProse strips markdown artifacts from a plain prose answer and
// flattens it to a single line.
func CleanProse(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "```", "")
	text = headingMarker.ReplaceAllString(text, "")
	text = bracketChars.ReplaceAllString(text, "")
	text = repeatedQuote.ReplaceAllString(text, `"`)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanSummary strips markdown artifacts from a summary. Single asterisks
// become bullets and line structure is kept.
func CleanSummary(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "•")
	text = strings.ReplaceAll(text, "```", "")
	text = headingMarker.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
