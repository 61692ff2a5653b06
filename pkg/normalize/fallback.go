package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
)

var spaceRun = regexp.MustCompile(`\s+`)

// encodeComponent escapes s for use anywhere in a URL, spaces as %20
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FallbackExplanation builds the default result used by the explanation
// flow when the model output has no usable payload. The raw text becomes
// the explanation and the resources point at topic searches.
func FallbackExplanation(topic, raw string) *model.Explanation {
	q := encodeComponent(topic)

	return &model.Explanation{
		Explanation: "Here's a comprehensive explanation of " + topic + ":\n\n" + raw,
		Resources: []*model.Resource{
			{
				Type:        model.ResourceTypeVideo,
				Title:       topic + " - Khan Academy",
				URL:         "https://www.khanacademy.org/search?page_search_query=" + q,
				Description: "Comprehensive video lessons with practice exercises",
			},
			{
				Type:        model.ResourceTypeVideo,
				Title:       topic + " - YouTube Educational",
				URL:         "https://www.youtube.com/results?search_query=" + encodeComponent(topic+" tutorial"),
				Description: "Video tutorials and explanations",
			},
			{
				Type:        model.ResourceTypeArticle,
				Title:       topic + " - Wikipedia",
				URL:         "https://en.wikipedia.org/wiki/" + encodeComponent(spaceRun.ReplaceAllString(topic, "_")),
				Description: "Detailed encyclopedia article with references",
			},
			{
				Type:        model.ResourceTypeInteractive,
				Title:       topic + " - Coursera",
				URL:         "https://www.coursera.org/search?query=" + q,
				Description: "Professional courses and certifications",
			},
		},
		Difficulty:    model.DifficultyIntermediate,
		EstimatedTime: "15-30 minutes",
	}
}
