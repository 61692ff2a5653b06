package normalize_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/gt"
)

func TestCleanProse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "markdown artifacts",
			input:  "**Answer:** Newton's *first* law\n\n## Steps\n```go\nx\n```\n[1] see \"\"quote\"\"",
			expect: `Answer: Newton's first law Steps go x 1 see "quote"`,
		},
		{
			name:   "already clean",
			input:  "The answer is 4.",
			expect: "The answer is 4.",
		},
		{
			name:   "whitespace only",
			input:  " \n\t ",
			expect: "",
		},
		{
			name:   "hash without space kept",
			input:  "Use C#7 and ###\tHeading",
			expect: "Use C#7 and Heading",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, normalize.CleanProse(tc.input), tc.expect)
		})
	}
}

func TestCleanSummary(t *testing.T) {
	input := "## Key Points\n* **Force** equals mass\n* Energy\n```"
	gt.Equal(t, normalize.CleanSummary(input), "Key Points\n• Force equals mass\n• Energy")
}

func TestFallbackExplanation(t *testing.T) {
	raw := "Newton's laws are about motion."
	e := normalize.FallbackExplanation("Newton's Laws", raw)

	gt.S(t, e.Explanation).Contains("Here's a comprehensive explanation of Newton's Laws")
	gt.S(t, e.Explanation).Contains(raw)
	gt.Equal(t, e.Difficulty, model.DifficultyIntermediate)
	gt.Equal(t, e.EstimatedTime, "15-30 minutes")
	gt.A(t, e.Resources).Length(4)

	for _, r := range e.Resources {
		gt.NoError(t, r.Type.Validate())
		gt.False(t, strings.Contains(r.URL, " "))
	}
	gt.S(t, e.Resources[2].URL).Contains("Newton%27s_Laws")
	gt.S(t, e.Resources[0].URL).Contains("Newton%27s%20Laws")
}
