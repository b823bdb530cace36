// Package generation is the application service in front of the
// vocabulary-constrained content engine: it snapshots the learner's known
// vocabulary, runs the orchestrated generation call, and hands accepted
// artifacts to persistence.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/segment"
	"github.com/mittord/mittord-backend/internal/vocab"
)

const (
	DefaultImportWorkers = 4
	DefaultItemTimeout   = 60 * time.Second
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type conceptRepo interface {
	KnownWords(ctx context.Context, userID uuid.UUID, lang domain.Language) ([]string, error)
	GetByWord(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error)
	Upsert(ctx context.Context, c *domain.Concept) (*domain.Concept, error)
	UpdateExplanations(ctx context.Context, conceptID uuid.UUID, explanations []string) error
}

type questionRepo interface {
	CreateYesNo(ctx context.Context, q *domain.YesNoQuestion) (*domain.YesNoQuestion, error)
	CreateCloze(ctx context.Context, q *domain.ClozeQuestion) (*domain.ClozeQuestion, error)
}

type orchestrator interface {
	AnalyzeWord(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error)
	YesNoQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.YesNoQuestion, error)
	ClozeQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.ClozeQuestion, error)
	EvaluateSentence(ctx context.Context, lang domain.Language, word, sentence string, set *vocab.Set) (domain.SentenceFeedback, error)
	RegenerateExplanations(ctx context.Context, lang domain.Language, word string, desired []string, set *vocab.Set) ([]string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config tunes batch imports.
type Config struct {
	ImportWorkers int
	ItemTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.ImportWorkers <= 0 {
		c.ImportWorkers = DefaultImportWorkers
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = DefaultItemTimeout
	}
	return c
}

// Service implements the generation business logic.
type Service struct {
	log       *slog.Logger
	concepts  conceptRepo
	questions questionRepo
	orch      orchestrator
	cfg       Config
}

// NewService creates a new Generation service.
func NewService(logger *slog.Logger, concepts conceptRepo, questions questionRepo, orch orchestrator, cfg Config) *Service {
	return &Service{
		log:       logger.With("service", "generation"),
		concepts:  concepts,
		questions: questions,
		orch:      orch,
		cfg:       cfg.withDefaults(),
	}
}

// snapshot builds the learner's vocabulary set for one request. It is taken
// once at request start and never refreshed mid-retry.
func (s *Service) snapshot(ctx context.Context, userID uuid.UUID, lang domain.Language) (*vocab.Set, error) {
	if !lang.IsValid() {
		return nil, domain.NewValidationError("language", "unsupported language")
	}
	words, err := s.concepts.KnownWords(ctx, userID, lang)
	if err != nil {
		return nil, fmt.Errorf("load known words: %w", err)
	}
	seg, err := segment.New(lang)
	if err != nil {
		return nil, err
	}
	return vocab.New(lang, words, seg), nil
}

// AnalyzeWord generates a constraint-satisfying analysis of word and stores
// it as a concept in the learner's collection.
func (s *Service) AnalyzeWord(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error) {
	word = domain.NormalizeText(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "must not be empty")
	}
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	analysis, err := s.orch.AnalyzeWord(ctx, lang, word, set)
	if err != nil {
		return nil, err
	}

	quality := analysis.ExplanationQuality
	concept := &domain.Concept{
		UserID:             userID,
		Word:               word,
		Language:           lang,
		Meaning:            analysis.Meaning,
		PartOfSpeech:       analysis.PartOfSpeech,
		Explanations:       analysis.Explanations,
		ExplanationQuality: &quality,
		DesiredWords:       analysis.DesiredWords,
		Pinyin:             analysis.Pinyin,
	}
	if err := concept.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.concepts.Upsert(ctx, concept)
	if err != nil {
		return nil, fmt.Errorf("store concept: %w", err)
	}

	s.log.InfoContext(ctx, "word analyzed",
		slog.String("user_id", userID.String()),
		slog.String("language", lang.String()),
		slog.String("word", word),
		slog.Int("explanations", len(stored.Explanations)))
	return stored, nil
}

// RegenerateExplanations refreshes a stored concept's explanations with a
// single-shot generation call. The concept must already exist; a degraded
// result (the thinking glyph) is stored like any other.
func (s *Service) RegenerateExplanations(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error) {
	word = domain.NormalizeText(word)
	concept, err := s.concepts.GetByWord(ctx, userID, lang, word)
	if err != nil {
		return nil, err
	}
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	explanations, err := s.orch.RegenerateExplanations(ctx, lang, word, concept.DesiredWords, set)
	if err != nil {
		return nil, err
	}

	if err := s.concepts.UpdateExplanations(ctx, concept.ID, explanations); err != nil {
		return nil, fmt.Errorf("update explanations: %w", err)
	}
	concept.Explanations = explanations

	s.log.InfoContext(ctx, "explanations regenerated",
		slog.String("user_id", userID.String()),
		slog.String("word", word),
		slog.Int("explanations", len(explanations)))
	return concept, nil
}
