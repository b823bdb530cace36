package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlankMarker is the placeholder for the missing word in a cloze sentence.
// It must appear exactly once in a valid cloze question.
const BlankMarker = "___"

// WordAnalysis is the generated breakdown of a single word: a gloss, part of
// speech, and constraint-satisfying explanations.
type WordAnalysis struct {
	Word               string
	Language           Language
	Meaning            string
	PartOfSpeech       PartOfSpeech
	Pinyin             string
	Explanations       []string
	ExplanationQuality int
	DesiredWords       []string
}

// YesNoQuestion is a generated comprehension question answerable with yes/no.
type YesNoQuestion struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Word      string
	Language  Language
	Question  string
	Answer    bool
	CreatedAt time.Time
}

// ClozeQuestion is a generated fill-in-the-blank question. Sentence contains
// BlankMarker exactly once; CorrectIndex points into Options.
type ClozeQuestion struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Word         string
	Language     Language
	Sentence     string
	Options      []string
	CorrectIndex int
	CreatedAt    time.Time
}

// ValidateStructure checks the structural invariants of a cloze question.
// These are parse-level checks, independent of vocabulary constraints.
func (q *ClozeQuestion) ValidateStructure() error {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return NewValidationError("correct_index", "must be a valid index into options")
	}
	if n := strings.Count(q.Sentence, BlankMarker); n != 1 {
		return NewValidationError("sentence", "blank marker must appear exactly once")
	}
	return nil
}

// SentenceFeedback is the generated evaluation of a learner-written sentence.
// It is returned to the caller, never persisted.
type SentenceFeedback struct {
	Word     string
	Language Language
	Sentence string
	Correct  bool
	Feedback string
}
