package tutor

import (
	"context"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/goerr/v2"
)

// SummaryType selects the granularity of a notes summary
type SummaryType string

const (
	SummaryTypeTopic   SummaryType = "topic"
	SummaryTypeChapter SummaryType = "chapter"
)

// Validate checks if the summary type is valid
func (t SummaryType) Validate() error {
	switch t {
	case SummaryTypeTopic, SummaryTypeChapter:
		return nil
	default:
		return goerr.Wrap(ErrInvalidRequest, "unknown summary type", goerr.V("type", t))
	}
}

// SummarizeNotes condenses study notes into revision points. The result is
// prose with bullets, not structured data.
func (u *UseCase) SummarizeNotes(ctx context.Context, content string, typ SummaryType) (string, error) {
	if strings.TrimSpace(content) == "" {
		u.notifyError(ctx, "No Content", "Please enter some content to summarize.")
		return "", goerr.Wrap(ErrInvalidRequest, "content is empty")
	}
	if typ == "" {
		typ = SummaryTypeTopic
	}
	if err := typ.Validate(); err != nil {
		return "", err
	}

	prompt, err := renderPrompt("summarize.md", map[string]any{
		"Content": content,
		"Type":    string(typ),
	})
	if err != nil {
		return "", err
	}

	raw, err := u.generate(ctx, prompt, "")
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to summarize notes. Please try again.")
		return "", err
	}

	u.notify(ctx, "Summary Generated!", "Your notes have been summarized successfully.")
	return normalize.CleanSummary(raw), nil
}
