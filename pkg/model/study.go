package model

import (
	"github.com/m-mizutani/goerr/v2"
)

type CardDifficulty string

const (
	CardDifficultyEasy   CardDifficulty = "easy"
	CardDifficultyMedium CardDifficulty = "medium"
	CardDifficultyHard   CardDifficulty = "hard"
)

// Validate checks if the card difficulty is valid
func (d CardDifficulty) Validate() error {
	switch d {
	case CardDifficultyEasy, CardDifficultyMedium, CardDifficultyHard:
		return nil
	default:
		return goerr.New("invalid card difficulty", goerr.V("difficulty", d))
	}
}

type FlashCard struct {
	ID         string         `json:"id" yaml:"id"`
	Front      string         `json:"front" yaml:"front"`
	Back       string         `json:"back" yaml:"back"`
	Difficulty CardDifficulty `json:"difficulty" yaml:"difficulty"`
	Topic      string         `json:"topic" yaml:"topic"`
}

// QuizQuestion is a generated question. Options is set for multiple choice.
type QuizQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Type          string   `json:"type" yaml:"type"`
	Options       []string `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
}

type ConceptMap struct {
	MainTopic string      `json:"mainTopic" yaml:"mainTopic"`
	Subtopics []*Subtopic `json:"subtopics" yaml:"subtopics"`
}

type Subtopic struct {
	Name        string   `json:"name" yaml:"name"`
	Connections []string `json:"connections" yaml:"connections"`
	Description string   `json:"description" yaml:"description"`
}
