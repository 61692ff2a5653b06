package store

import (
	"context"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

func validHistoryEntry(e *model.HistoryEntry) bool {
	return e != nil && e.ID != ""
}

// AddHistoryEntry records a query and its result as the newest history
// entry and persists the whole history. On a write failure the entry stays
// in memory and a *StorageError is returned together with the entry.
func (s *Store) AddHistoryEntry(ctx context.Context, query string, response *model.Response, kind model.EntryKind) (*model.HistoryEntry, error) {
	if query == "" {
		return nil, goerr.New("query is empty")
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if response != nil {
		if err := response.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid response", goerr.V("query", query))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotInitialized
	}

	now := s.now()
	entry := &model.HistoryEntry{
		ID:        s.newID(now),
		Query:     query,
		Response:  response,
		Timestamp: now,
		Kind:      kind,
	}
	s.history = slices.Insert(s.history, 0, entry)

	logging.From(ctx).Debug("history entry added", "id", entry.ID, "kind", kind)

	if err := saveSlot(ctx, s.repo, HistorySlot, s.history); err != nil {
		return entry, err
	}
	return entry, nil
}

// ClearHistory removes every history entry and deletes the history slot
func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	s.history = []*model.HistoryEntry{}
	return deleteSlot(ctx, s.repo, HistorySlot)
}

// History returns a copy of the history, newest first
func (s *Store) History() []*model.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// HistoryLen returns the number of history entries
func (s *Store) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// QueryByDate returns the history entries whose timestamp falls on the same
// calendar day as day, in the store location. The sequence reads the
// current history every time it is iterated.
func (s *Store) QueryByDate(day time.Time) iter.Seq[*model.HistoryEntry] {
	return func(yield func(*model.HistoryEntry) bool) {
		y, m, d := day.In(s.loc).Date()
		for _, entry := range s.History() {
			ey, em, ed := entry.Timestamp.In(s.loc).Date()
			if ey != y || em != m || ed != d {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// SearchHistory returns entries whose query or explanation contains term,
// ignoring case. An empty term matches every entry.
func (s *Store) SearchHistory(term string) []*model.HistoryEntry {
	term = strings.ToLower(strings.TrimSpace(term))

	var matched []*model.HistoryEntry
	for _, entry := range s.History() {
		if term == "" ||
			strings.Contains(strings.ToLower(entry.Query), term) ||
			strings.Contains(strings.ToLower(entry.Response.Text()), term) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// DayGroup is the history of one calendar day
type DayGroup struct {
	Day     time.Time
	Entries []*model.HistoryEntry
}

// GroupHistoryByDay groups history by calendar day, newest day first.
// Entries keep their order within a day.
func (s *Store) GroupHistoryByDay() []*DayGroup {
	var groups []*DayGroup
	index := map[time.Time]*DayGroup{}

	for _, entry := range s.History() {
		t := entry.Timestamp.In(s.loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)

		g, ok := index[day]
		if !ok {
			g = &DayGroup{Day: day}
			index[day] = g
			groups = append(groups, g)
		}
		g.Entries = append(g.Entries, entry)
	}

	slices.SortStableFunc(groups, func(a, b *DayGroup) int {
		return b.Day.Compare(a.Day)
	})
	return groups
}
