package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Limits on generated concept content.
const (
	MaxExplanations = 5
	MaxDesiredWords = 5
	MinQuality      = 1
	MaxQuality      = 5
)

// Concept is a learnable unit in a learner's vocabulary collection.
// Explanations are written using only words the learner already knows
// (falling back to emoji); they are produced by generation, never by hand.
type Concept struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Word         string
	Language     Language
	Meaning      string
	PartOfSpeech PartOfSpeech
	Explanations []string
	// ExplanationQuality is the generator's own 1-5 rating of how well the
	// known vocabulary could express the word; nil when never rated.
	ExplanationQuality *int
	// DesiredWords are up to MaxDesiredWords words the generator flagged as
	// would improve explanation quality if the learner studied them.
	DesiredWords []string
	// Pinyin is set only for Chinese concepts.
	Pinyin    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks concept invariants before persistence.
func (c *Concept) Validate() error {
	if c.Word == "" {
		return NewValidationError("word", "must not be empty")
	}
	if !c.Language.IsValid() {
		return NewValidationError("language", fmt.Sprintf("unsupported language %q", c.Language))
	}
	if c.PartOfSpeech != "" && !c.PartOfSpeech.IsValid() {
		return NewValidationError("part_of_speech", fmt.Sprintf("invalid part of speech %q", c.PartOfSpeech))
	}
	if len(c.Explanations) > MaxExplanations {
		return NewValidationError("explanations", fmt.Sprintf("at most %d explanations (got %d)", MaxExplanations, len(c.Explanations)))
	}
	if len(c.DesiredWords) > MaxDesiredWords {
		return NewValidationError("desired_words", fmt.Sprintf("at most %d desired words (got %d)", MaxDesiredWords, len(c.DesiredWords)))
	}
	if q := c.ExplanationQuality; q != nil && (*q < MinQuality || *q > MaxQuality) {
		return NewValidationError("explanation_quality", fmt.Sprintf("must be between %d and %d (got %d)", MinQuality, MaxQuality, *q))
	}
	if c.Pinyin != "" && c.Language != LanguageChinese {
		return NewValidationError("pinyin", "only Chinese concepts carry pinyin")
	}
	return nil
}
