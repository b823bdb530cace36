package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mittord/mittord-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedConcept inserts a concept for the given learner and returns it filled.
func SeedConcept(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, lang domain.Language, word string) domain.Concept {
	t.Helper()
	ctx := context.Background()

	quality := 3
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Concept{
		ID:                 uuid.New(),
		UserID:             userID,
		Word:               domain.NormalizeText(word),
		Language:           lang,
		Meaning:            "meaning-" + uniqueSuffix(),
		PartOfSpeech:       domain.PartOfSpeechNoun,
		Explanations:       []string{"explanation one", "explanation two"},
		ExplanationQuality: &quality,
		DesiredWords:       []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO concepts (id, user_id, word, language, meaning, part_of_speech,
			explanations, explanation_quality, desired_words, pinyin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.UserID, c.Word, c.Language.String(), c.Meaning, c.PartOfSpeech.String(),
		c.Explanations, c.ExplanationQuality, c.DesiredWords, c.Pinyin, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedConcept insert: %v", err)
	}

	return c
}

// SeedVocabulary inserts one concept per word and returns the learner ID.
func SeedVocabulary(t *testing.T, pool *pgxpool.Pool, lang domain.Language, words ...string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	for _, w := range words {
		SeedConcept(t, pool, userID, lang, w)
	}
	return userID
}
