package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
)

// decode extracts a span of the given shape from text, validates it against
// the variant schema and decodes it into T. It returns the zero value on
// any failure.
func decode[T any](text string, kind model.ResponseKind, shape Shape) (T, error) {
	var zero T

	candidate, err := Extract(text, shape)
	if err != nil {
		if nerr, ok := err.(*Error); ok {
			nerr.Variant = kind
		}
		return zero, err
	}

	var instance any
	if err := json.Unmarshal([]byte(candidate), &instance); err != nil {
		return zero, &Error{Kind: KindParseFailure, Variant: kind, Err: err}
	}

	rs, err := resolvedSchema(kind)
	if err != nil {
		return zero, err
	}
	if err := rs.Validate(instance); err != nil {
		return zero, &Error{Kind: KindSchemaMismatch, Variant: kind, Err: err}
	}

	var out T
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return zero, &Error{Kind: KindSchemaMismatch, Variant: kind, Err: err}
	}
	return out, nil
}

// DecodeExplanation extracts an Explanation object from raw model output
func DecodeExplanation(text string) (*model.Explanation, error) {
	e, err := decode[*model.Explanation](text, model.ResponseKindExplanation, ShapeObject)
	if err != nil {
		return nil, err
	}
	if e.Resources == nil {
		e.Resources = []*model.Resource{}
	}
	return e, nil
}

// DecodeFlashCards extracts a flashcard list from raw model output. Cards
// get ids of the form card-<unix ms>-<index> and the given topic.
func DecodeFlashCards(text, topic string, now time.Time) ([]*model.FlashCard, error) {
	cards, err := decode[[]*model.FlashCard](text, model.ResponseKindFlashCards, ShapeArray)
	if err != nil {
		return nil, err
	}

	for i, card := range cards {
		card.ID = fmt.Sprintf("card-%d-%d", now.UnixMilli(), i)
		card.Topic = topic
	}
	return cards, nil
}

// DecodeQuestions extracts a question list from raw model output
func DecodeQuestions(text string) ([]*model.QuizQuestion, error) {
	return decode[[]*model.QuizQuestion](text, model.ResponseKindQuestions, ShapeArray)
}

// DecodeConceptMap extracts a concept map object from raw model output
func DecodeConceptMap(text string) (*model.ConceptMap, error) {
	m, err := decode[*model.ConceptMap](text, model.ResponseKindConceptMap, ShapeObject)
	if err != nil {
		return nil, err
	}
	for _, sub := range m.Subtopics {
		if sub.Connections == nil {
			sub.Connections = []string{}
		}
	}
	return m, nil
}
