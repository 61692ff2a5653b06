package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultFlashcardCount is used when GenerateFlashcards gets a non-positive count
const DefaultFlashcardCount = 10

// GenerateFlashcards asks the model for a flashcard deck on topic. Decks
// are not recorded in history.
func (u *UseCase) GenerateFlashcards(ctx context.Context, topic string, count int) ([]*model.FlashCard, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		u.notifyError(ctx, "Missing Topic", "Please enter a topic to generate flashcards.")
		return nil, goerr.Wrap(ErrInvalidRequest, "topic is empty")
	}
	if count <= 0 {
		count = DefaultFlashcardCount
	}

	prompt, err := renderPrompt("flashcards.md", map[string]any{
		"Topic": topic,
		"Count": count,
	})
	if err != nil {
		return nil, err
	}

	raw, err := u.generate(ctx, prompt, model.ResponseKindFlashCards)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate flashcards. Please try again.")
		return nil, err
	}

	cards, err := normalize.DecodeFlashCards(raw, topic, u.now())
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate flashcards. Please try again.")
		return nil, err
	}

	u.notify(ctx, "Flashcards Generated!", fmt.Sprintf("Created %d flashcards for %s.", len(cards), topic))
	return cards, nil
}
