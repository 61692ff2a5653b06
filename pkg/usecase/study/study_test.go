package study_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/usecase/study"
	"github.com/m-mizutani/gt"
)

func cards(n int) []*model.FlashCard {
	out := make([]*model.FlashCard, n)
	for i := range out {
		out[i] = &model.FlashCard{
			ID:         "card-" + string(rune('a'+i)),
			Front:      "front",
			Back:       "back",
			Difficulty: model.CardDifficultyEasy,
		}
	}
	return out
}

func TestDeck(t *testing.T) {
	deck := study.NewDeck(cards(3))
	gt.Equal(t, deck.Len(), 3)
	gt.Equal(t, deck.Current().ID, "card-a")
	gt.False(t, deck.Prev())

	deck.Flip()
	gt.True(t, deck.Flipped())

	gt.NoError(t, deck.Mark(model.CardDifficultyHard))
	gt.Equal(t, deck.Index(), 1)
	gt.False(t, deck.Flipped())
	gt.Equal(t, deck.Progress("card-a"), study.ProgressHard)

	gt.NoError(t, deck.Mark(model.CardDifficultyEasy))
	gt.NoError(t, deck.Mark(model.CardDifficultyEasy))

	// stays on the last card
	gt.Equal(t, deck.Index(), 2)
	gt.False(t, deck.Next())

	gt.Equal(t, deck.Stats(), study.DeckStats{Total: 3, Completed: 3, Easy: 2, Hard: 1})

	gt.Error(t, deck.Mark("trivial"))

	deck.Reset()
	gt.Equal(t, deck.Index(), 0)
	gt.Equal(t, deck.Stats(), study.DeckStats{Total: 3})
	gt.Equal(t, deck.Progress("card-b"), study.ProgressUnseen)
}

func TestEmptyDeck(t *testing.T) {
	deck := study.NewDeck(nil)
	gt.Nil(t, deck.Current())
	gt.False(t, deck.Next())
	gt.Error(t, deck.Mark(model.CardDifficultyEasy))
}

func TestQuiz(t *testing.T) {
	quiz := study.NewQuiz([]*model.QuizQuestion{
		{Question: "2+2", Type: "mcq", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{Question: "Capital of France", Type: "short", CorrectAnswer: "Paris"},
		{Question: "Explain gravity", Type: "long", CorrectAnswer: "Attraction"},
	})

	gt.Equal(t, quiz.Current().Question, "2+2")
	gt.NoError(t, quiz.Submit("4"))
	gt.NoError(t, quiz.Submit("paris"))
	gt.Equal(t, quiz.Score(), 1)
	gt.False(t, quiz.Done())

	gt.NoError(t, quiz.Submit("Attraction"))
	gt.True(t, quiz.Done())
	gt.Nil(t, quiz.Current())
	gt.Error(t, quiz.Submit("again"))

	results := quiz.Results()
	gt.A(t, results).Length(3)
	gt.True(t, results[0].Correct)
	gt.False(t, results[1].Correct)
	gt.Equal(t, quiz.Score(), 2)
}

func TestDashboard(t *testing.T) {
	loc := time.UTC
	// Thursday
	now := time.Date(2024, 3, 14, 18, 0, 0, 0, loc)

	at := func(day, hour int) time.Time {
		return time.Date(2024, 3, day, hour, 0, 0, 0, loc)
	}
	history := []*model.HistoryEntry{
		{Query: "Newton's Laws", Timestamp: at(14, 9)},
		{Query: "newton's laws ", Timestamp: at(14, 8)},
		{Query: "Photosynthesis", Timestamp: at(13, 9)},
		{Query: "Algebra", Timestamp: at(12, 9)},
		{Query: "Algebra", Timestamp: at(10, 9)},
	}
	saved := []*model.SavedTopic{{Title: "Newton"}}

	stats := study.Dashboard(history, saved, now, loc)
	gt.Equal(t, stats.TotalEntries, 5)
	gt.Equal(t, stats.TopicsStudied, 3)
	gt.Equal(t, stats.SavedTopics, 1)
	gt.Equal(t, stats.EntriesToday, 2)
	gt.Equal(t, stats.StudyStreak, 3)
	// Monday 11th through Thursday 14th
	gt.Equal(t, stats.SessionsThisWeek, 3)
	gt.Equal(t, stats.RemainingSessions, 2)
	gt.Equal(t, stats.WeeklyGoal, study.WeeklyGoal)

	t.Run("streak ending yesterday", func(t *testing.T) {
		stats := study.Dashboard(history, nil, now.AddDate(0, 0, 1), loc)
		gt.Equal(t, stats.StudyStreak, 3)
		gt.Equal(t, stats.EntriesToday, 0)
	})

	t.Run("streak broken", func(t *testing.T) {
		stats := study.Dashboard(history, nil, now.AddDate(0, 0, 2), loc)
		gt.Equal(t, stats.StudyStreak, 0)
	})

	t.Run("no history", func(t *testing.T) {
		stats := study.Dashboard(nil, nil, now, loc)
		gt.Equal(t, stats.StudyStreak, 0)
		gt.Equal(t, stats.RemainingSessions, study.WeeklyGoal)
	})
}
