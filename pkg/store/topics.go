package store

import (
	"context"
	"slices"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

func validSavedTopic(t *model.SavedTopic) bool {
	return t != nil && t.ID != ""
}

// SaveTopic keeps an explanation as the newest saved topic and persists
// the whole collection
func (s *Store) SaveTopic(ctx context.Context, title, query string, response *model.Explanation) (*model.SavedTopic, error) {
	if title == "" {
		return nil, goerr.New("title is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	now := s.now()
	topic := &model.SavedTopic{
		ID:       s.newID(now),
		Title:    title,
		Query:    query,
		Response: response,
		SavedAt:  now,
	}
	s.savedTopics = slices.Insert(s.savedTopics, 0, topic)

	logging.From(ctx).Debug("topic saved", "id", topic.ID, "title", title)

	if err := saveSlot(ctx, s.repo, SavedTopicsSlot, s.savedTopics); err != nil {
		return topic, err
	}
	return topic, nil
}

// RemoveSavedTopic removes the topic with id. An unknown id leaves the
// collection unchanged; the collection is persisted either way.
func (s *Store) RemoveSavedTopic(ctx context.Context, id model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	s.savedTopics = slices.DeleteFunc(s.savedTopics, func(t *model.SavedTopic) bool {
		return t.ID == id
	})

	return saveSlot(ctx, s.repo, SavedTopicsSlot, s.savedTopics)
}

// SavedTopics returns a copy of the saved topics, newest first
func (s *Store) SavedTopics() []*model.SavedTopic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.savedTopics)
}

// SavedTopicsLen returns the number of saved topics
func (s *Store) SavedTopicsLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.savedTopics)
}

// SavedTopic looks up a saved topic by id
func (s *Store) SavedTopic(id model.EntryID) (*model.SavedTopic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.savedTopics {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}
