package model

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

type ResponseKind string

const (
	ResponseKindExplanation ResponseKind = "explanation"
	ResponseKindFlashCards  ResponseKind = "flashcards"
	ResponseKindQuestions   ResponseKind = "questions"
	ResponseKindConceptMap  ResponseKind = "concept_map"
)

// Response is a tagged result of a model call. Exactly one payload field
// matching Kind is set.
type Response struct {
	Kind        ResponseKind    `json:"kind" yaml:"kind"`
	Explanation *Explanation    `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	FlashCards  []*FlashCard    `json:"flashcards,omitempty" yaml:"flashcards,omitempty"`
	Questions   []*QuizQuestion `json:"questions,omitempty" yaml:"questions,omitempty"`
	ConceptMap  *ConceptMap     `json:"conceptMap,omitempty" yaml:"conceptMap,omitempty"`
}

func NewExplanationResponse(e *Explanation) *Response {
	return &Response{Kind: ResponseKindExplanation, Explanation: e}
}

func NewFlashCardsResponse(cards []*FlashCard) *Response {
	return &Response{Kind: ResponseKindFlashCards, FlashCards: cards}
}

func NewQuestionsResponse(questions []*QuizQuestion) *Response {
	return &Response{Kind: ResponseKindQuestions, Questions: questions}
}

func NewConceptMapResponse(m *ConceptMap) *Response {
	return &Response{Kind: ResponseKindConceptMap, ConceptMap: m}
}

// Validate checks that the payload matches the kind
func (r *Response) Validate() error {
	set := 0
	if r.Explanation != nil {
		set++
	}
	if r.FlashCards != nil {
		set++
	}
	if r.Questions != nil {
		set++
	}
	if r.ConceptMap != nil {
		set++
	}
	if set != 1 {
		return goerr.New("response must carry exactly one payload", goerr.V("kind", r.Kind), goerr.V("payloads", set))
	}

	switch r.Kind {
	case ResponseKindExplanation:
		if r.Explanation == nil {
			return goerr.New("explanation payload missing")
		}
	case ResponseKindFlashCards:
		if r.FlashCards == nil {
			return goerr.New("flashcards payload missing")
		}
	case ResponseKindQuestions:
		if r.Questions == nil {
			return goerr.New("questions payload missing")
		}
	case ResponseKindConceptMap:
		if r.ConceptMap == nil {
			return goerr.New("concept map payload missing")
		}
	default:
		return goerr.New("unknown response kind", goerr.V("kind", r.Kind))
	}
	return nil
}

// Text returns the main prose of the response, used for search
func (r *Response) Text() string {
	if r == nil || r.Explanation == nil {
		return ""
	}
	return r.Explanation.Explanation
}

// UnmarshalJSON decodes a tagged response. Untagged payloads written by
// earlier versions are mapped to their variant: an object with a string
// explanation is an explanation, an object with mainTopic is a concept map
// and an array is a question list, or a flashcard list when its elements
// have a front.
func (r *Response) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return r.unmarshalList(data)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "response is neither an object nor an array")
	}

	if _, ok := fields["kind"]; ok {
		type tagged Response
		var t tagged
		if err := json.Unmarshal(data, &t); err != nil {
			return goerr.Wrap(err, "failed to decode tagged response")
		}
		*r = Response(t)
		return nil
	}

	if raw, ok := fields["explanation"]; ok && isJSONString(raw) {
		var e Explanation
		if err := json.Unmarshal(data, &e); err != nil {
			return goerr.Wrap(err, "failed to decode untagged explanation")
		}
		*r = Response{Kind: ResponseKindExplanation, Explanation: &e}
		return nil
	}

	if _, ok := fields["mainTopic"]; ok {
		var m ConceptMap
		if err := json.Unmarshal(data, &m); err != nil {
			return goerr.Wrap(err, "failed to decode untagged concept map")
		}
		*r = Response{Kind: ResponseKindConceptMap, ConceptMap: &m}
		return nil
	}

	return goerr.New("unknown response payload")
}

func (r *Response) unmarshalList(data []byte) error {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return goerr.Wrap(err, "failed to decode untagged response list")
	}

	if len(items) > 0 {
		if _, ok := items[0]["front"]; ok {
			var cards []*FlashCard
			if err := json.Unmarshal(data, &cards); err != nil {
				return goerr.Wrap(err, "failed to decode untagged flashcards")
			}
			*r = Response{Kind: ResponseKindFlashCards, FlashCards: cards}
			return nil
		}
	}

	questions := []*QuizQuestion{}
	if err := json.Unmarshal(data, &questions); err != nil {
		return goerr.Wrap(err, "failed to decode untagged questions")
	}
	*r = Response{Kind: ResponseKindQuestions, Questions: questions}
	return nil
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}
