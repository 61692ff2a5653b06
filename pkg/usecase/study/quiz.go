package study

import (
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Quiz walks through generated questions one at a time
type Quiz struct {
	questions []*model.QuizQuestion
	answers   []string
	index     int
}

// Result is the outcome of one answered question
type Result struct {
	Question *model.QuizQuestion
	Answer   string
	Correct  bool
}

// NewQuiz starts a quiz at the first question
func NewQuiz(questions []*model.QuizQuestion) *Quiz {
	return &Quiz{
		questions: questions,
		answers:   make([]string, len(questions)),
	}
}

// Len returns the number of questions
func (q *Quiz) Len() int {
	return len(q.questions)
}

// Index returns the position of the current question
func (q *Quiz) Index() int {
	return q.index
}

// Done reports whether every question has been answered
func (q *Quiz) Done() bool {
	return q.index >= len(q.questions)
}

// Current returns the question to answer, or nil when the quiz is done
func (q *Quiz) Current() *model.QuizQuestion {
	if q.Done() {
		return nil
	}
	return q.questions[q.index]
}

// Submit records the answer to the current question and advances
func (q *Quiz) Submit(answer string) error {
	if q.Done() {
		return goerr.New("quiz is already complete")
	}
	q.answers[q.index] = answer
	q.index++
	return nil
}

// Score counts answers equal to the correct answer, over submitted answers
func (q *Quiz) Score() int {
	var score int
	for _, r := range q.Results() {
		if r.Correct {
			score++
		}
	}
	return score
}

// Results returns the answered questions in order
func (q *Quiz) Results() []Result {
	results := make([]Result, 0, q.index)
	for i := 0; i < q.index; i++ {
		results = append(results, Result{
			Question: q.questions[i],
			Answer:   q.answers[i],
			Correct:  q.answers[i] == q.questions[i].CorrectAnswer,
		})
	}
	return results
}
