package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type EntryID string

const entryIDSuffixLen = 9

// NewEntryID generates an id from the Unix milliseconds of now and a short
// random suffix. It is unique within a session, not across processes.
func NewEntryID(now time.Time) EntryID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:entryIDSuffixLen]
	return EntryID(strconv.FormatInt(now.UnixMilli(), 10) + suffix)
}

type EntryKind string

const (
	EntryKindQuery              EntryKind = "query"
	EntryKindQuestionGeneration EntryKind = "question_generation"
)

var ErrInvalidEntryKind = goerr.New("invalid entry kind")

// Validate checks if the kind is valid
func (k EntryKind) Validate() error {
	switch k {
	case EntryKindQuery, EntryKindQuestionGeneration:
		return nil
	default:
		return goerr.Wrap(ErrInvalidEntryKind, "unknown kind", goerr.V("kind", k))
	}
}

// HistoryEntry is one recorded query with its structured result
type HistoryEntry struct {
	ID        EntryID   `json:"id" yaml:"id"`
	Query     string    `json:"query" yaml:"query"`
	Response  *Response `json:"response,omitempty" yaml:"response,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Kind      EntryKind `json:"type" yaml:"type"`
}

// SavedTopic is an explanation the user chose to keep
type SavedTopic struct {
	ID       EntryID      `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	Query    string       `json:"query" yaml:"query"`
	Response *Explanation `json:"response,omitempty" yaml:"response,omitempty"`
	SavedAt  time.Time    `json:"savedAt" yaml:"savedAt"`
}
