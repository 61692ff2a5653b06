package tutor

import (
	"context"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Explain asks the model to explain topic and records the result in
// history. Output that cannot be normalized falls back to a synthesized
// explanation embedding the raw text; only a transport failure fails the
// flow, and then nothing is recorded.
func (u *UseCase) Explain(ctx context.Context, topic string) (*model.Explanation, *model.HistoryEntry, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nil, goerr.Wrap(ErrInvalidRequest, "topic is empty")
	}

	prompt, err := renderPrompt("explain.md", map[string]any{"Topic": topic})
	if err != nil {
		return nil, nil, err
	}

	raw, err := u.generate(ctx, prompt, model.ResponseKindExplanation)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to process your query. Please try again.")
		return nil, nil, err
	}

	exp, err := normalize.DecodeExplanation(raw)
	if err != nil {
		logging.From(ctx).Warn("falling back to raw explanation", "topic", topic, "error", err)
		exp = normalize.FallbackExplanation(topic, raw)
	}

	exp, err = u.policy.FilterResources(ctx, topic, exp)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to process your query. Please try again.")
		return nil, nil, err
	}

	entry, err := u.record(ctx, topic, model.NewExplanationResponse(exp), model.EntryKindQuery)
	if err != nil {
		return nil, nil, err
	}

	u.notify(ctx, "Query Complete!", "AI has generated a comprehensive explanation for your topic.")
	return exp, entry, nil
}
