package study

import (
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Progress is the recall state of one card in a session
type Progress string

const (
	ProgressUnseen Progress = "unseen"
	ProgressEasy   Progress = "easy"
	ProgressMedium Progress = "medium"
	ProgressHard   Progress = "hard"
)

// Deck is a flashcard study session
type Deck struct {
	cards    []*model.FlashCard
	index    int
	flipped  bool
	progress map[string]Progress
}

// DeckStats summarizes the progress of a session
type DeckStats struct {
	Total     int
	Completed int
	Easy      int
	Medium    int
	Hard      int
}

// NewDeck starts a session with every card unseen
func NewDeck(cards []*model.FlashCard) *Deck {
	d := &Deck{cards: cards}
	d.Reset()
	return d
}

// Len returns the number of cards
func (d *Deck) Len() int {
	return len(d.cards)
}

// Index returns the position of the current card
func (d *Deck) Index() int {
	return d.index
}

// Current returns the current card, or nil for an empty deck
func (d *Deck) Current() *model.FlashCard {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[d.index]
}

// Flipped reports whether the back of the current card is shown
func (d *Deck) Flipped() bool {
	return d.flipped
}

// Flip toggles between the front and back of the current card
func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next moves to the next card. It returns false on the last card.
func (d *Deck) Next() bool {
	if d.index >= len(d.cards)-1 {
		return false
	}
	d.index++
	d.flipped = false
	return true
}

// Prev moves to the previous card. It returns false on the first card.
func (d *Deck) Prev() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	d.flipped = false
	return true
}

// Mark records how hard the current card was to recall and advances
func (d *Deck) Mark(difficulty model.CardDifficulty) error {
	if err := difficulty.Validate(); err != nil {
		return err
	}
	card := d.Current()
	if card == nil {
		return goerr.New("deck is empty")
	}

	d.progress[card.ID] = Progress(difficulty)
	d.Next()
	return nil
}

// Progress returns the recall state of a card
func (d *Deck) Progress(cardID string) Progress {
	if p, ok := d.progress[cardID]; ok {
		return p
	}
	return ProgressUnseen
}

// Reset marks every card unseen and returns to the first card
func (d *Deck) Reset() {
	d.index = 0
	d.flipped = false
	d.progress = make(map[string]Progress, len(d.cards))
	for _, c := range d.cards {
		d.progress[c.ID] = ProgressUnseen
	}
}

// Stats counts cards by recall state
func (d *Deck) Stats() DeckStats {
	stats := DeckStats{Total: len(d.cards)}
	for _, p := range d.progress {
		switch p {
		case ProgressEasy:
			stats.Easy++
		case ProgressMedium:
			stats.Medium++
		case ProgressHard:
			stats.Hard++
		}
		if p != ProgressUnseen {
			stats.Completed++
		}
	}
	return stats
}
