package model

import (
	"github.com/m-mizutani/goerr/v2"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var ErrInvalidDifficulty = goerr.New("invalid difficulty")

// Validate checks if the difficulty is valid
func (d Difficulty) Validate() error {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return nil
	default:
		return goerr.Wrap(ErrInvalidDifficulty, "unknown difficulty", goerr.V("difficulty", d))
	}
}

type ResourceType string

const (
	ResourceTypeVideo       ResourceType = "video"
	ResourceTypeArticle     ResourceType = "article"
	ResourceTypeInteractive ResourceType = "interactive"
)

// Validate checks if the resource type is valid
func (t ResourceType) Validate() error {
	switch t {
	case ResourceTypeVideo, ResourceTypeArticle, ResourceTypeInteractive:
		return nil
	default:
		return goerr.New("invalid resource type", goerr.V("type", t))
	}
}

// Explanation is the answer to a plain study query
type Explanation struct {
	Explanation   string      `json:"explanation" yaml:"explanation"`
	Resources     []*Resource `json:"resources" yaml:"resources"`
	Difficulty    Difficulty  `json:"difficulty" yaml:"difficulty"`
	EstimatedTime string      `json:"estimatedTime" yaml:"estimatedTime"`
}

// Resource is a recommended learning resource
type Resource struct {
	Type        ResourceType `json:"type" yaml:"type"`
	Title       string       `json:"title" yaml:"title"`
	URL         string       `json:"url" yaml:"url"`
	Description string       `json:"description" yaml:"description"`
}
