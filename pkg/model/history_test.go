package model_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestNewEntryID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := model.NewEntryID(now)

	prefix := strconv.FormatInt(now.UnixMilli(), 10)
	gt.True(t, strings.HasPrefix(string(id), prefix))
	gt.Equal(t, len(id), len(prefix)+9)
}

func TestNewEntryIDUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[model.EntryID]bool)
	for i := 0; i < 1000; i++ {
		id := model.NewEntryID(now)
		gt.False(t, seen[id])
		seen[id] = true
	}
}

func TestEntryKindValidate(t *testing.T) {
	gt.NoError(t, model.EntryKindQuery.Validate())
	gt.NoError(t, model.EntryKindQuestionGeneration.Validate())

	err := model.EntryKind("chat").Validate()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrInvalidEntryKind))
}

func TestDifficultyValidate(t *testing.T) {
	testCases := []struct {
		value model.Difficulty
		valid bool
	}{
		{model.DifficultyBeginner, true},
		{model.DifficultyIntermediate, true},
		{model.DifficultyAdvanced, true},
		{"expert", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.value), func(t *testing.T) {
			err := tc.value.Validate()
			if tc.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err)
			}
		})
	}
}

func TestResponseValidate(t *testing.T) {
	t.Run("explanation", func(t *testing.T) {
		resp := model.NewExplanationResponse(&model.Explanation{Explanation: "x"})
		gt.NoError(t, resp.Validate())
		gt.Equal(t, resp.Text(), "x")
	})

	t.Run("kind mismatch", func(t *testing.T) {
		resp := &model.Response{
			Kind:       model.ResponseKindExplanation,
			ConceptMap: &model.ConceptMap{MainTopic: "m"},
		}
		gt.Error(t, resp.Validate())
	})

	t.Run("two payloads", func(t *testing.T) {
		resp := &model.Response{
			Kind:        model.ResponseKindExplanation,
			Explanation: &model.Explanation{},
			Questions:   []*model.QuizQuestion{},
		}
		gt.Error(t, resp.Validate())
	})

	t.Run("empty question list is a payload", func(t *testing.T) {
		resp := model.NewQuestionsResponse([]*model.QuizQuestion{})
		gt.NoError(t, resp.Validate())
		gt.Equal(t, resp.Text(), "")
	})
}
