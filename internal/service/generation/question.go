package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mittord/mittord-backend/internal/domain"
)

// YesNoQuestion generates and stores one yes/no comprehension question for
// word.
func (s *Service) YesNoQuestion(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.YesNoQuestion, error) {
	word = domain.NormalizeText(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "must not be empty")
	}
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	q, err := s.orch.YesNoQuestion(ctx, lang, word, set)
	if err != nil {
		return nil, err
	}
	q.UserID = userID

	stored, err := s.questions.CreateYesNo(ctx, &q)
	if err != nil {
		return nil, fmt.Errorf("store question: %w", err)
	}

	s.log.InfoContext(ctx, "yes/no question generated",
		slog.String("user_id", userID.String()),
		slog.String("word", word))
	return stored, nil
}

// ClozeQuestion generates and stores one fill-in-the-blank question for
// word.
func (s *Service) ClozeQuestion(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.ClozeQuestion, error) {
	word = domain.NormalizeText(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "must not be empty")
	}
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	q, err := s.orch.ClozeQuestion(ctx, lang, word, set)
	if err != nil {
		return nil, err
	}
	q.UserID = userID

	stored, err := s.questions.CreateCloze(ctx, &q)
	if err != nil {
		return nil, fmt.Errorf("store question: %w", err)
	}

	s.log.InfoContext(ctx, "cloze question generated",
		slog.String("user_id", userID.String()),
		slog.String("word", word))
	return stored, nil
}

// EvaluateSentence judges a sentence the learner wrote with word. The
// feedback is returned to the caller and never persisted.
func (s *Service) EvaluateSentence(ctx context.Context, userID uuid.UUID, lang domain.Language, word, sentence string) (*domain.SentenceFeedback, error) {
	word = domain.NormalizeText(word)
	if word == "" {
		return nil, domain.NewValidationError("word", "must not be empty")
	}
	if domain.NormalizeText(sentence) == "" {
		return nil, domain.NewValidationError("sentence", "must not be empty")
	}
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	feedback, err := s.orch.EvaluateSentence(ctx, lang, word, sentence, set)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
