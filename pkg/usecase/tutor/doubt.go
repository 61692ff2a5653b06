package tutor

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/edumentor/pkg/normalize"
	"github.com/m-mizutani/goerr/v2"
)

// DoubtApology replaces the answer when the model could not be reached
const DoubtApology = "Sorry, I couldn't process your doubt right now. Please try again or rephrase your question."

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one turn of a doubt session
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Pending   bool
}

// DoubtSession is a transient question and answer conversation. It is
// never persisted.
type DoubtSession struct {
	uc      *UseCase
	subject string

	mu       sync.Mutex
	messages []*Message
}

// NewDoubtSession starts an empty session. subject is optional context
// added to every question, such as the chapter being studied.
func (u *UseCase) NewDoubtSession(subject string) *DoubtSession {
	return &DoubtSession{
		uc:      u,
		subject: strings.TrimSpace(subject),
	}
}

func (s *DoubtSession) append(role Role, content string, pending bool) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.uc.now(),
		Pending:   pending,
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *DoubtSession) removePending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = slices.DeleteFunc(s.messages, func(m *Message) bool {
		return m.Pending
	})
}

// Ask sends a question and appends the answer to the conversation. On
// failure the apology message is appended and returned with the error.
func (s *DoubtSession) Ask(ctx context.Context, question string) (*Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "question is empty")
	}

	s.append(RoleUser, question, false)
	s.append(RoleAI, thinkingMessage, true)

	prompt, err := renderPrompt("doubt.md", map[string]any{
		"Question": question,
		"Context":  s.subject,
	})
	if err != nil {
		s.removePending()
		return nil, err
	}

	raw, err := s.uc.generate(ctx, prompt, "")
	s.removePending()

	if err != nil {
		s.uc.notifyError(ctx, "Error", "Failed to solve your doubt. Please try again.")
		return s.append(RoleAI, DoubtApology, false), err
	}

	s.uc.notify(ctx, "Doubt Solved!", "AI has provided a detailed explanation.")
	return s.append(RoleAI, normalize.CleanProse(raw), false), nil
}

// Messages returns a copy of the conversation, oldest first
func (s *DoubtSession) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// QuestionCount returns the number of questions asked
func (s *DoubtSession) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for _, m := range s.messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Clear removes every message
func (s *DoubtSession) Clear(ctx context.Context) {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()

	s.uc.notify(ctx, "Chat Cleared", "All messages have been cleared.")
}
