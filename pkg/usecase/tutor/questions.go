package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultQuestionCount is used when QuestionRequest.Count is not positive
const DefaultQuestionCount = 3

// QuestionRequest describes a question generation session
type QuestionRequest struct {
	Topic      string
	Difficulty string // easy, medium or hard
	Type       string // mcq, short, long or mixed
	Count      int
}

var (
	questionDifficulties = []string{"easy", "medium", "hard"}
	questionTypes        = []string{"mcq", "short", "long", "mixed"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (r *QuestionRequest) validate() error {
	if r.Topic == "" || r.Difficulty == "" || r.Type == "" {
		return goerr.Wrap(ErrInvalidRequest, "topic, difficulty and type are required",
			goerr.V("topic", r.Topic),
			goerr.V("difficulty", r.Difficulty),
			goerr.V("type", r.Type),
		)
	}
	if !oneOf(r.Difficulty, questionDifficulties) {
		return goerr.Wrap(ErrInvalidRequest, "unknown difficulty", goerr.V("difficulty", r.Difficulty))
	}
	if !oneOf(r.Type, questionTypes) {
		return goerr.Wrap(ErrInvalidRequest, "unknown question type", goerr.V("type", r.Type))
	}
	return nil
}

// GenerateQuestions asks the model for practice questions and records the
// session in history. Normalization failures are returned as is.
func (u *UseCase) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]*model.QuizQuestion, *model.HistoryEntry, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Count <= 0 {
		req.Count = DefaultQuestionCount
	}
	if err := req.validate(); err != nil {
		u.notifyError(ctx, "Missing Information", "Please fill in all fields before generating questions.")
		return nil, nil, err
	}

	prompt, err := renderPrompt("questions.md", req)
	if err != nil {
		return nil, nil, err
	}

	raw, err := u.generate(ctx, prompt, model.ResponseKindQuestions)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate questions. Please try again.")
		return nil, nil, err
	}

	questions, err := normalize.DecodeQuestions(raw)
	if err != nil {
		u.notifyError(ctx, "Error", "Failed to generate questions. Please try again.")
		return nil, nil, err
	}

	entry, err := u.record(ctx, req.Topic, model.NewQuestionsResponse(questions), model.EntryKindQuestionGeneration)
	if err != nil {
		return nil, nil, err
	}

	u.notify(ctx, "Questions Generated!", fmt.Sprintf("Created %d questions for %s.", len(questions), req.Topic))
	return questions, entry, nil
}
