package tutor

import (
	"context"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/goerr/v2"
)

// GenerateConceptMap asks the model for a concept map of topic
func (u *UseCase) GenerateConceptMap(ctx context.Context, topic string) (*model.ConceptMap, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "topic is empty")
	}

	prompt, err := renderPrompt("conceptmap.md", map[string]any{"Topic": topic})
	if err != nil {
		return nil, err
	}

	raw, err := u.generate(ctx, prompt, model.ResponseKindConceptMap)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate concept map. Please try again.")
		return nil, err
	}

	m, err := normalize.DecodeConceptMap(raw)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate concept map. Please try again.")
		return nil, err
	}

	u.notify(ctx, "Concept Map Generated!", "Explore how the ideas of "+topic+" connect.")
	return m, nil
}
