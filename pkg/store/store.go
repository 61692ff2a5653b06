package store

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/repository"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	HistorySlot     = "edumentor_history"
	SavedTopicsSlot = "edumentor_savedTopics"
)

var (
	// ErrNotInitialized is returned by every operation before Initialize or after Teardown
	ErrNotInitialized = goerr.New("store is not initialized")

	// ErrAlreadyInitialized is returned by Initialize on a ready store
	ErrAlreadyInitialized = goerr.New("store is already initialized")

	// ErrClosed is returned by Initialize after Teardown. The repository is
	// closed by then; open a new one and create a new Store.
	ErrClosed = goerr.New("store is closed")
)

// Store owns the study history and saved topics of one user. Every mutation
// is applied in memory and then written through to the repository as a
// whole collection.
type Store struct {
	repo  repository.Repository
	now   func() time.Time
	loc   *time.Location
	newID func(time.Time) model.EntryID

	mu          sync.RWMutex
	ready       bool
	closed      bool
	history     []*model.HistoryEntry
	savedTopics []*model.SavedTopic
}

// Option is a functional option for Store
type Option func(*Store)

// WithClock replaces the time source used for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the time zone used for calendar-day comparisons
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		s.loc = loc
	}
}

// WithIDGenerator replaces the entry id generator
func WithIDGenerator(fn func(time.Time) model.EntryID) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an uninitialized Store backed by repo
func New(repo repository.Repository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		loc:   time.Local,
		newID: model.NewEntryID,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize loads both collections from the repository. An absent or
// unreadable slot starts as an empty collection.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.ready {
		return ErrAlreadyInitialized
	}

	history, err := loadSlot(ctx, s.repo, HistorySlot, validHistoryEntry)
	if err != nil {
		return err
	}
	savedTopics, err := loadSlot(ctx, s.repo, SavedTopicsSlot, validSavedTopic)
	if err != nil {
		return err
	}

	s.history = history
	s.savedTopics = savedTopics
	s.ready = true

	logging.From(ctx).Debug("store initialized",
		"history", len(history),
		"saved_topics", len(savedTopics),
	)
	return nil
}

// Teardown releases the repository. The store rejects every further
// operation, including Initialize.
func (s *Store) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	s.ready = false
	s.closed = true
	s.history = nil
	s.savedTopics = nil

	if err := s.repo.Close(); err != nil {
		return goerr.Wrap(err, "failed to close repository")
	}
	return nil
}

// Location returns the time zone used for calendar-day comparisons
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the current time of the store clock
func (s *Store) Now() time.Time {
	return s.now()
}
