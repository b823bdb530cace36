package concept_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mittord/mittord-backend/internal/adapter/postgres/concept"
	"github.com/mittord/mittord-backend/internal/adapter/postgres/testhelper"
	"github.com/mittord/mittord-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*concept.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return concept.New(pool), pool
}

func testConcept(userID uuid.UUID, word string) *domain.Concept {
	quality := 4
	return &domain.Concept{
		UserID:             userID,
		Word:               word,
		Language:           domain.LanguageChinese,
		Meaning:            "hello",
		PartOfSpeech:       domain.PartOfSpeechInterjection,
		Explanations:       []string{"👋", "你 好"},
		ExplanationQuality: &quality,
		DesiredWords:       []string{"问"},
		Pinyin:             "nǐ hǎo",
	}
}

// ---------------------------------------------------------------------------
// Upsert + GetByWord
// ---------------------------------------------------------------------------

func TestRepo_Upsert_AndGetByWord(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	created, err := repo.Upsert(ctx, testConcept(userID, "你好"))
	if err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("Upsert: expected assigned ID")
	}
	if created.Meaning != "hello" {
		t.Errorf("Meaning mismatch: got %q, want %q", created.Meaning, "hello")
	}
	if len(created.Explanations) != 2 {
		t.Errorf("Explanations mismatch: got %v", created.Explanations)
	}
	if created.ExplanationQuality == nil || *created.ExplanationQuality != 4 {
		t.Errorf("ExplanationQuality mismatch: got %v", created.ExplanationQuality)
	}

	got, err := repo.GetByWord(ctx, userID, domain.LanguageChinese, "你好")
	if err != nil {
		t.Fatalf("GetByWord: unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, created.ID)
	}
	if got.Pinyin != "nǐ hǎo" {
		t.Errorf("Pinyin mismatch: got %q", got.Pinyin)
	}
}

func TestRepo_Upsert_ReplacesGeneratedFields(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	first, err := repo.Upsert(ctx, testConcept(userID, "你好"))
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	updated := testConcept(userID, "你好")
	updated.Meaning = "hi there"
	updated.Explanations = []string{"🤝"}
	second, err := repo.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same row on conflict: got %s, want %s", second.ID, first.ID)
	}
	if second.Meaning != "hi there" {
		t.Errorf("Meaning not replaced: got %q", second.Meaning)
	}
	if len(second.Explanations) != 1 || second.Explanations[0] != "🤝" {
		t.Errorf("Explanations not replaced: got %v", second.Explanations)
	}
}

func TestRepo_GetByWord_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByWord(context.Background(), uuid.New(), domain.LanguageChinese, "没有")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// KnownWords
// ---------------------------------------------------------------------------

func TestRepo_KnownWords_ScopedByUserAndLanguage(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID := testhelper.SeedVocabulary(t, pool, domain.LanguageChinese, "我", "你", "好")
	testhelper.SeedConcept(t, pool, userID, domain.LanguageEnglish, "hello")
	testhelper.SeedVocabulary(t, pool, domain.LanguageChinese, "别")

	words, err := repo.KnownWords(ctx, userID, domain.LanguageChinese)
	if err != nil {
		t.Fatalf("KnownWords: unexpected error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %v", words)
	}
	for _, w := range words {
		if w == "hello" || w == "别" {
			t.Errorf("word %q leaked across scope", w)
		}
	}
}

func TestRepo_KnownWords_EmptyCollection(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	words, err := repo.KnownWords(context.Background(), uuid.New(), domain.LanguageSwedish)
	if err != nil {
		t.Fatalf("KnownWords: unexpected error: %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected no words, got %v", words)
	}
}

// ---------------------------------------------------------------------------
// UpdateExplanations
// ---------------------------------------------------------------------------

func TestRepo_UpdateExplanations(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	c := testhelper.SeedConcept(t, pool, userID, domain.LanguageEnglish, "update-test")

	if err := repo.UpdateExplanations(ctx, c.ID, []string{"🤔"}); err != nil {
		t.Fatalf("UpdateExplanations: unexpected error: %v", err)
	}

	got, err := repo.GetByWord(ctx, userID, domain.LanguageEnglish, "update-test")
	if err != nil {
		t.Fatalf("GetByWord: %v", err)
	}
	if len(got.Explanations) != 1 || got.Explanations[0] != "🤔" {
		t.Errorf("Explanations mismatch: got %v", got.Explanations)
	}
}

func TestRepo_UpdateExplanations_UnknownConcept(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	err := repo.UpdateExplanations(context.Background(), uuid.New(), []string{"x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestRepo_List_FiltersAndLimits(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID := testhelper.SeedVocabulary(t, pool, domain.LanguageSwedish, "hund", "katt", "hus")
	testhelper.SeedConcept(t, pool, userID, domain.LanguageEnglish, "dog")

	all, err := repo.List(ctx, userID, concept.ListFilter{Language: domain.LanguageSwedish})
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 concepts, got %d", len(all))
	}

	prefixed, err := repo.List(ctx, userID, concept.ListFilter{Language: domain.LanguageSwedish, Search: "hu"})
	if err != nil {
		t.Fatalf("List with search: unexpected error: %v", err)
	}
	if len(prefixed) != 2 {
		t.Fatalf("expected 2 concepts with prefix, got %d", len(prefixed))
	}

	limited, err := repo.List(ctx, userID, concept.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List with limit: unexpected error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 concepts with limit, got %d", len(limited))
	}
}
