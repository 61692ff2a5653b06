package tutor

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"text/template"
	"time"

	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/edumentor/pkg/policy"
	"github.com/m-mizutani/edumentor/pkg/store"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

//go:embed prompt/*.md
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompt/*.md"))

// ErrInvalidRequest is returned when required input of a flow is missing
var ErrInvalidRequest = goerr.New("invalid request")

// thinkingMessage is shown while a model call is outstanding
const thinkingMessage = "AI is thinking..."

// Notice is a short user-visible message about the outcome of a flow
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Pending shows a transient placeholder while a model call is outstanding.
// Stop is always called before the outcome of the call is recorded.
type Pending interface {
	Start(message string)
	Stop()
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

type nopPending struct{}

func (nopPending) Start(string) {}
func (nopPending) Stop()        {}

// UseCase runs the study flows against the remote model and records their
// results in the store
type UseCase struct {
	gemini     adapter.Gemini
	store      *store.Store
	notifier   Notifier
	pending    Pending
	policy     *policy.Engine
	structured bool
	now        func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithNotifier sets the receiver of user-visible notices
func WithNotifier(n Notifier) Option {
	return func(u *UseCase) {
		u.notifier = n
	}
}

// WithPending sets the placeholder shown during model calls
func WithPending(p Pending) Option {
	return func(u *UseCase) {
		u.pending = p
	}
}

// WithPolicy sets the resource policy applied to explanations
func WithPolicy(p *policy.Engine) Option {
	return func(u *UseCase) {
		u.policy = p
	}
}

// WithStructuredOutput asks the model for JSON constrained by the response
// schema instead of relying on extraction from free text only
func WithStructuredOutput(enabled bool) Option {
	return func(u *UseCase) {
		u.structured = enabled
	}
}

// WithClock replaces the time source used for flashcard ids
func WithClock(now func() time.Time) Option {
	return func(u *UseCase) {
		u.now = now
	}
}

// New creates a tutor UseCase
func New(gemini adapter.Gemini, st *store.Store, opts ...Option) *UseCase {
	u := &UseCase{
		gemini:   gemini,
		store:    st,
		notifier: nopNotifier{},
		pending:  nopPending{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

func (u *UseCase) notify(ctx context.Context, title, description string) {
	u.notifier.Notify(ctx, Notice{Title: title, Description: description})
}

func (u *UseCase) notifyError(ctx context.Context, title, description string) {
	u.notifier.Notify(ctx, Notice{Title: title, Description: description, Destructive: true})
}

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template", goerr.V("template", name))
	}
	return buf.String(), nil
}

// generate sends one prompt and returns the raw text of the first
// candidate. Every failure is a *adapter.TransportError. kind selects the
// response schema when structured output is enabled; empty kind means prose.
func (u *UseCase) generate(ctx context.Context, prompt string, kind model.ResponseKind) (string, error) {
	var config *genai.GenerateContentConfig
	if u.structured && kind != "" {
		schema, err := normalize.GenaiSchema(kind)
		if err != nil {
			return "", err
		}
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	u.pending.Start(thinkingMessage)
	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	u.pending.Stop()

	if err != nil {
		var terr *adapter.TransportError
		if errors.As(err, &terr) {
			return "", err
		}
		return "", adapter.NewTransportError(err)
	}

	text, err := adapter.FirstText(resp)
	if err != nil {
		return "", err
	}

	logging.From(ctx).Debug("model responded", "kind", kind, "length", len(text))
	return text, nil
}

// record adds a history entry. A failed write keeps the entry in memory, so
// it is reported to the user and logged but does not fail the flow.
func (u *UseCase) record(ctx context.Context, query string, resp *model.Response, kind model.EntryKind) (*model.HistoryEntry, error) {
	entry, err := u.store.AddHistoryEntry(ctx, query, resp, kind)
	if err != nil {
		var serr *store.StorageError
		if errors.As(err, &serr) && entry != nil {
			u.notifyError(ctx, "Not Saved", "Your history could not be written to storage.")
			return entry, nil
		}
		return nil, err
	}
	return entry, nil
}
