package tutor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/edumentor/pkg/policy"
	"github.com/m-mizutani/edumentor/pkg/repository"
	"github.com/m-mizutani/edumentor/pkg/store"
	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

// mockGemini is a mock implementation of adapter.Gemini for testing
type mockGemini struct {
	mu           sync.Mutex
	prompts      []string
	configs      []*genai.GenerateContentConfig
	generateFunc func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		m.prompts = append(m.prompts, contents[0].Parts[0].Text)
	}
	m.configs = append(m.configs, config)
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, contents, config)
	}
	return textResponse(""), nil
}

func (m *mockGemini) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func respondWith(text string) *mockGemini {
	return &mockGemini{
		generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return textResponse(text), nil
		},
	}
}

func failWith(err error) *mockGemini {
	return &mockGemini{
		generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, err
		},
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []tutor.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice tutor.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

// recordingPending captures the history length when the placeholder is
// removed, to check it happens before the outcome is recorded
type recordingPending struct {
	st           *store.Store
	starts       int
	stops        int
	historyAtEnd []int
}

func (p *recordingPending) Start(message string) {
	p.starts++
}

func (p *recordingPending) Stop() {
	p.stops++
	p.historyAtEnd = append(p.historyAtEnd, p.st.HistoryLen())
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(repository.NewMemory())
	gt.NoError(t, st.Initialize(context.Background()))
	return st
}

const newtonJSON = `{"explanation":"Newton's three laws describe how forces change motion.","resources":[],"difficulty":"beginner","estimatedTime":"10 minutes"}`

func TestExplain(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	notifier := &recordingNotifier{}
	pending := &recordingPending{st: st}
	gemini := respondWith("Sure! Here is the lesson:\n```json\n" + newtonJSON + "\n```\nHappy learning {:}")

	uc := tutor.New(gemini, st, tutor.WithNotifier(notifier), tutor.WithPending(pending))

	exp, entry, err := uc.Explain(ctx, "Newton's Laws")
	gt.NoError(t, err)
	gt.Equal(t, exp.Difficulty, model.DifficultyBeginner)

	gt.Equal(t, st.HistoryLen(), 1)
	recorded := st.History()[0]
	gt.Equal(t, recorded.ID, entry.ID)
	gt.Equal(t, recorded.Query, "Newton's Laws")
	gt.Equal(t, recorded.Kind, model.EntryKindQuery)
	gt.Equal(t, recorded.Response.Explanation.Difficulty, model.DifficultyBeginner)

	gt.S(t, gemini.prompts[0]).Contains(`for the topic: "Newton's Laws"`)
	gt.Nil(t, gemini.configs[0])

	gt.Equal(t, pending.starts, 1)
	gt.Equal(t, pending.stops, 1)
	gt.Equal(t, pending.historyAtEnd, []int{0})

	gt.A(t, notifier.notices).Length(1)
	gt.Equal(t, notifier.notices[0].Title, "Query Complete!")
	gt.False(t, notifier.notices[0].Destructive)
}

func TestExplainTransportFailure(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name   string
		gemini *mockGemini
		status int
	}{
		{
			name:   "non-2xx status",
			gemini: failWith(adapter.NewTransportError(genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"})),
			status: 503,
		},
		{
			name:   "plain error from client",
			gemini: failWith(errors.New("connection reset")),
			status: 0,
		},
		{
			name: "no candidates",
			gemini: &mockGemini{
				generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return &genai.GenerateContentResponse{}, nil
				},
			},
			status: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := newStore(t)
			notifier := &recordingNotifier{}
			pending := &recordingPending{st: st}
			uc := tutor.New(tc.gemini, st, tutor.WithNotifier(notifier), tutor.WithPending(pending))

			exp, entry, err := uc.Explain(ctx, "Newton's Laws")
			gt.Error(t, err)
			gt.Nil(t, exp)
			gt.Nil(t, entry)

			var terr *adapter.TransportError
			gt.True(t, errors.As(err, &terr))
			gt.Equal(t, terr.StatusCode, tc.status)

			gt.Equal(t, st.HistoryLen(), 0)
			gt.A(t, notifier.notices).Length(1)
			gt.True(t, notifier.notices[0].Destructive)
			gt.Equal(t, pending.stops, 1)
		})
	}
}

func TestExplainFallback(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	raw := "Newton's laws are three rules about motion."
	uc := tutor.New(respondWith(raw), st)

	exp, entry, err := uc.Explain(ctx, "Newton's Laws")
	gt.NoError(t, err)
	gt.S(t, exp.Explanation).Contains(raw)
	gt.Equal(t, exp.Difficulty, model.DifficultyIntermediate)
	gt.A(t, exp.Resources).Length(4)
	gt.Equal(t, entry.Response.Explanation.EstimatedTime, "15-30 minutes")
	gt.Equal(t, st.HistoryLen(), 1)
}

func TestExplainWithPolicy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "resource.rego"), []byte(`package resource

deny contains "insecure url" if {
	startswith(input.url, "http://")
}
`), 0644))

	engine, err := policy.New(ctx, dir)
	gt.NoError(t, err)

	st := newStore(t)
	gemini := respondWith(`{"explanation":"x","resources":[
		{"type":"video","title":"secure","url":"https://example.com/a","description":""},
		{"type":"article","title":"insecure","url":"http://example.com/b","description":""}
	],"difficulty":"advanced","estimatedTime":"1 hour"}`)

	uc := tutor.New(gemini, st, tutor.WithPolicy(engine))
	exp, entry, err := uc.Explain(ctx, "Security")
	gt.NoError(t, err)
	gt.A(t, exp.Resources).Length(1)
	gt.Equal(t, exp.Resources[0].Title, "secure")
	gt.A(t, entry.Response.Explanation.Resources).Length(1)
}

func TestExplainStructuredOutput(t *testing.T) {
	ctx := context.Background()
	gemini := respondWith(newtonJSON)
	uc := tutor.New(gemini, newStore(t), tutor.WithStructuredOutput(true))

	_, _, err := uc.Explain(ctx, "Newton's Laws")
	gt.NoError(t, err)

	config := gemini.configs[0]
	gt.NotNil(t, config)
	gt.Equal(t, config.ResponseMIMEType, "application/json")
	gt.Equal(t, config.ResponseSchema.Type, genai.TypeObject)
	gt.Map(t, config.ResponseSchema.Properties).HasKey("estimatedTime")
}

func TestExplainEmptyTopic(t *testing.T) {
	gemini := respondWith(newtonJSON)
	uc := tutor.New(gemini, newStore(t))

	_, _, err := uc.Explain(context.Background(), "   ")
	gt.True(t, errors.Is(err, tutor.ErrInvalidRequest))
	gt.Equal(t, gemini.calls(), 0)
}

func TestGenerateQuestions(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	notifier := &recordingNotifier{}
	gemini := respondWith(`Here are your questions:
[
  {"question":"What is inertia?","type":"mcq","options":["a","b","c","d"],"correctAnswer":"a","explanation":"first law"},
  {"question":"State the second law.","type":"mcq","options":["F=ma","E=mc2","a","b"],"correctAnswer":"F=ma","explanation":"second law"},
  {"question":"What is action-reaction?","type":"mcq","options":["a","b","c","d"],"correctAnswer":"c","explanation":"third law"}
]`)

	uc := tutor.New(gemini, st, tutor.WithNotifier(notifier))
	questions, entry, err := uc.GenerateQuestions(ctx, tutor.QuestionRequest{
		Topic:      "Newton's Laws",
		Difficulty: "easy",
		Type:       "mcq",
	})
	gt.NoError(t, err)
	gt.A(t, questions).Length(3)
	gt.S(t, gemini.prompts[0]).Contains(`Generate 3 mcq questions about "Newton's Laws" at easy level.`)

	gt.Equal(t, entry.Kind, model.EntryKindQuestionGeneration)
	gt.Equal(t, entry.Response.Kind, model.ResponseKindQuestions)
	gt.A(t, entry.Response.Questions).Length(3)
	gt.Equal(t, st.HistoryLen(), 1)

	gt.A(t, notifier.notices).Length(1)
	gt.Equal(t, notifier.notices[0].Description, "Created 3 questions for Newton's Laws.")
}

func TestGenerateQuestionsValidation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		req  tutor.QuestionRequest
	}{
		{"missing topic", tutor.QuestionRequest{Difficulty: "easy", Type: "mcq"}},
		{"missing difficulty", tutor.QuestionRequest{Topic: "t", Type: "mcq"}},
		{"missing type", tutor.QuestionRequest{Topic: "t", Difficulty: "easy"}},
		{"unknown type", tutor.QuestionRequest{Topic: "t", Difficulty: "easy", Type: "riddle"}},
		{"unknown difficulty", tutor.QuestionRequest{Topic: "t", Difficulty: "expert", Type: "mcq"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := newStore(t)
			notifier := &recordingNotifier{}
			gemini := respondWith("[]")
			uc := tutor.New(gemini, st, tutor.WithNotifier(notifier))

			_, _, err := uc.GenerateQuestions(ctx, tc.req)
			gt.True(t, errors.Is(err, tutor.ErrInvalidRequest))
			gt.Equal(t, gemini.calls(), 0)
			gt.Equal(t, st.HistoryLen(), 0)
			gt.A(t, notifier.notices).Length(1)
			gt.Equal(t, notifier.notices[0].Title, "Missing Information")
		})
	}
}

func TestGenerateQuestionsNormalizationError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	uc := tutor.New(respondWith("I could not think of any questions."), st)

	questions, entry, err := uc.GenerateQuestions(ctx, tutor.QuestionRequest{
		Topic: "t", Difficulty: "hard", Type: "long", Count: 5,
	})
	gt.Nil(t, questions)
	gt.Nil(t, entry)
	gt.True(t, normalize.IsKind(err, normalize.KindNoPayload))
	gt.Equal(t, st.HistoryLen(), 0)
}

func TestGenerateFlashcards(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	now := time.UnixMilli(1700000000000)
	gemini := respondWith(`[{"front":"F","back":"ma","difficulty":"easy"},{"front":"Inertia","back":"resistance","difficulty":"hard"}]`)

	uc := tutor.New(gemini, st, tutor.WithClock(func() time.Time { return now }))
	cards, err := uc.GenerateFlashcards(ctx, "Physics", 0)
	gt.NoError(t, err)
	gt.A(t, cards).Length(2)
	gt.Equal(t, cards[0].ID, "card-1700000000000-0")
	gt.Equal(t, cards[1].Topic, "Physics")
	gt.S(t, gemini.prompts[0]).Contains("Generate 10 educational flashcards")
	gt.Equal(t, st.HistoryLen(), 0)

	t.Run("schema mismatch is surfaced", func(t *testing.T) {
		uc := tutor.New(respondWith(`[{"front":"F","difficulty":"easy"}]`), st)
		_, err := uc.GenerateFlashcards(ctx, "Physics", 3)
		gt.True(t, normalize.IsKind(err, normalize.KindSchemaMismatch))
	})
}

func TestGenerateConceptMap(t *testing.T) {
	ctx := context.Background()
	uc := tutor.New(respondWith(`{"mainTopic":"Photosynthesis","subtopics":[{"name":"Light Reactions","connections":["Calvin Cycle"],"description":"captures light"}]}`), newStore(t))

	m, err := uc.GenerateConceptMap(ctx, "Photosynthesis")
	gt.NoError(t, err)
	gt.Equal(t, m.MainTopic, "Photosynthesis")
	gt.A(t, m.Subtopics).Length(1)

	uc = tutor.New(respondWith(`{"mainTopic":"x"`), newStore(t))
	_, err = uc.GenerateConceptMap(ctx, "x")
	gt.True(t, normalize.IsKind(err, normalize.KindNoPayload))
}

func TestSummarizeNotes(t *testing.T) {
	ctx := context.Background()
	gemini := respondWith("## Main Concepts\n* **Force** changes motion\n* Mass resists change")
	uc := tutor.New(gemini, newStore(t))

	summary, err := uc.SummarizeNotes(ctx, "Force equals mass times acceleration.", tutor.SummaryTypeChapter)
	gt.NoError(t, err)
	gt.Equal(t, summary, "Main Concepts\n• Force changes motion\n• Mass resists change")
	gt.S(t, gemini.prompts[0]).Contains("chapter-wise revision")
	gt.Nil(t, gemini.configs[0])

	_, err = uc.SummarizeNotes(ctx, " \n", tutor.SummaryTypeTopic)
	gt.True(t, errors.Is(err, tutor.ErrInvalidRequest))

	_, err = uc.SummarizeNotes(ctx, "notes", "paragraph")
	gt.True(t, errors.Is(err, tutor.ErrInvalidRequest))
}

func TestSaveAndRemoveTopic(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	notifier := &recordingNotifier{}
	uc := tutor.New(respondWith(newtonJSON), st, tutor.WithNotifier(notifier))

	before := st.SavedTopicsLen()
	exp, _, err := uc.Explain(ctx, "X")
	gt.NoError(t, err)

	topic, err := uc.SaveTopic(ctx, "X", "X", exp)
	gt.NoError(t, err)
	gt.Equal(t, st.SavedTopicsLen(), before+1)

	gt.NoError(t, uc.RemoveSavedTopic(ctx, topic.ID))
	gt.Equal(t, st.SavedTopicsLen(), before)

	titles := make([]string, 0, len(notifier.notices))
	for _, n := range notifier.notices {
		titles = append(titles, n.Title)
	}
	gt.Equal(t, titles, []string{"Query Complete!", "Topic Saved!", "Topic Removed"})
}

func TestDoubtSession(t *testing.T) {
	ctx := context.Background()

	t.Run("answer is cleaned", func(t *testing.T) {
		var session *tutor.DoubtSession
		var duringCall []*tutor.Message

		gemini := &mockGemini{
			generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				duringCall = session.Messages()
				return textResponse("**Answer:** x = 4\n\n## Steps\n* Subtract 5"), nil
			},
		}
		uc := tutor.New(gemini, newStore(t))
		session = uc.NewDoubtSession("Algebra chapter 2")

		msg, err := session.Ask(ctx, "Solve: 2x + 5 = 13")
		gt.NoError(t, err)
		gt.Equal(t, msg.Role, tutor.RoleAI)
		gt.Equal(t, msg.Content, "Answer: x = 4 Steps Subtract 5")

		gt.A(t, duringCall).Length(2)
		gt.True(t, duringCall[1].Pending)

		messages := session.Messages()
		gt.A(t, messages).Length(2)
		gt.Equal(t, messages[0].Role, tutor.RoleUser)
		gt.False(t, messages[1].Pending)
		gt.NotEqual(t, messages[0].ID, messages[1].ID)

		gt.S(t, gemini.prompts[0]).Contains(`this question: "Solve: 2x + 5 = 13"`)
		gt.S(t, gemini.prompts[0]).Contains("Context: Algebra chapter 2")
	})

	t.Run("failure appends apology", func(t *testing.T) {
		st := newStore(t)
		notifier := &recordingNotifier{}
		uc := tutor.New(failWith(errors.New("timeout")), st, tutor.WithNotifier(notifier))
		session := uc.NewDoubtSession("")

		msg, err := session.Ask(ctx, "Why is the sky blue?")
		gt.Error(t, err)
		gt.Equal(t, msg.Content, tutor.DoubtApology)

		messages := session.Messages()
		gt.A(t, messages).Length(2)
		gt.Equal(t, messages[1].Content, tutor.DoubtApology)
		gt.A(t, notifier.notices).Length(1)
		gt.True(t, notifier.notices[0].Destructive)
		gt.Equal(t, st.HistoryLen(), 0)
	})

	t.Run("count and clear", func(t *testing.T) {
		gemini := respondWith("answer")
		uc := tutor.New(gemini, newStore(t))
		session := uc.NewDoubtSession("")

		for _, q := range []string{"q1", "q2", "q3"} {
			_, err := session.Ask(ctx, q)
			gt.NoError(t, err)
		}
		gt.Equal(t, session.QuestionCount(), 3)
		gt.False(t, strings.Contains(gemini.prompts[0], "Context:"))

		session.Clear(ctx)
		gt.A(t, session.Messages()).Length(0)
		gt.Equal(t, session.QuestionCount(), 0)
	})

	t.Run("empty question", func(t *testing.T) {
		gemini := respondWith("answer")
		session := tutor.New(gemini, newStore(t)).NewDoubtSession("")
		_, err := session.Ask(ctx, "")
		gt.True(t, errors.Is(err, tutor.ErrInvalidRequest))
		gt.Equal(t, gemini.calls(), 0)
	})
}
