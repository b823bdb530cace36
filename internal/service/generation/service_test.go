package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/vocab"
)

// ---------------------------------------------------------------------------
// Test mocks (minimal, inline)
// ---------------------------------------------------------------------------

type mockConceptRepo struct {
	mu                     sync.Mutex
	knownWordsFunc         func(ctx context.Context, userID uuid.UUID, lang domain.Language) ([]string, error)
	getByWordFunc          func(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error)
	upsertFunc             func(ctx context.Context, c *domain.Concept) (*domain.Concept, error)
	updateExplanationsFunc func(ctx context.Context, conceptID uuid.UUID, explanations []string) error
	upserted               []*domain.Concept
}

func (m *mockConceptRepo) KnownWords(ctx context.Context, userID uuid.UUID, lang domain.Language) ([]string, error) {
	if m.knownWordsFunc != nil {
		return m.knownWordsFunc(ctx, userID, lang)
	}
	return nil, nil
}

func (m *mockConceptRepo) GetByWord(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error) {
	if m.getByWordFunc != nil {
		return m.getByWordFunc(ctx, userID, lang, word)
	}
	return nil, domain.ErrNotFound
}

func (m *mockConceptRepo) Upsert(ctx context.Context, c *domain.Concept) (*domain.Concept, error) {
	m.mu.Lock()
	m.upserted = append(m.upserted, c)
	m.mu.Unlock()
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, c)
	}
	out := *c
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockConceptRepo) UpdateExplanations(ctx context.Context, conceptID uuid.UUID, explanations []string) error {
	if m.updateExplanationsFunc != nil {
		return m.updateExplanationsFunc(ctx, conceptID, explanations)
	}
	return nil
}

type mockQuestionRepo struct {
	createYesNoFunc func(ctx context.Context, q *domain.YesNoQuestion) (*domain.YesNoQuestion, error)
	createClozeFunc func(ctx context.Context, q *domain.ClozeQuestion) (*domain.ClozeQuestion, error)
}

func (m *mockQuestionRepo) CreateYesNo(ctx context.Context, q *domain.YesNoQuestion) (*domain.YesNoQuestion, error) {
	if m.createYesNoFunc != nil {
		return m.createYesNoFunc(ctx, q)
	}
	out := *q
	out.ID = uuid.New()
	return &out, nil
}

func (m *mockQuestionRepo) CreateCloze(ctx context.Context, q *domain.ClozeQuestion) (*domain.ClozeQuestion, error) {
	if m.createClozeFunc != nil {
		return m.createClozeFunc(ctx, q)
	}
	out := *q
	out.ID = uuid.New()
	return &out, nil
}

type mockOrchestrator struct {
	analyzeFunc  func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error)
	yesNoFunc    func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.YesNoQuestion, error)
	clozeFunc    func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.ClozeQuestion, error)
	evaluateFunc func(ctx context.Context, lang domain.Language, word, sentence string, set *vocab.Set) (domain.SentenceFeedback, error)
	regenFunc    func(ctx context.Context, lang domain.Language, word string, desired []string, set *vocab.Set) ([]string, error)
}

func (m *mockOrchestrator) AnalyzeWord(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, lang, word, set)
	}
	return domain.WordAnalysis{
		Word: word, Language: lang, Meaning: "m",
		PartOfSpeech: domain.PartOfSpeechNoun,
		Explanations: []string{"e"}, ExplanationQuality: 3,
	}, nil
}

func (m *mockOrchestrator) YesNoQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.YesNoQuestion, error) {
	if m.yesNoFunc != nil {
		return m.yesNoFunc(ctx, lang, word, set)
	}
	return domain.YesNoQuestion{Word: word, Language: lang, Question: "q", Answer: true}, nil
}

func (m *mockOrchestrator) ClozeQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.ClozeQuestion, error) {
	if m.clozeFunc != nil {
		return m.clozeFunc(ctx, lang, word, set)
	}
	return domain.ClozeQuestion{
		Word: word, Language: lang,
		Sentence: "a " + domain.BlankMarker, Options: []string{word}, CorrectIndex: 0,
	}, nil
}

func (m *mockOrchestrator) EvaluateSentence(ctx context.Context, lang domain.Language, word, sentence string, set *vocab.Set) (domain.SentenceFeedback, error) {
	if m.evaluateFunc != nil {
		return m.evaluateFunc(ctx, lang, word, sentence, set)
	}
	return domain.SentenceFeedback{Word: word, Language: lang, Sentence: sentence, Correct: true, Feedback: "f"}, nil
}

func (m *mockOrchestrator) RegenerateExplanations(ctx context.Context, lang domain.Language, word string, desired []string, set *vocab.Set) ([]string, error) {
	if m.regenFunc != nil {
		return m.regenFunc(ctx, lang, word, desired, set)
	}
	return []string{"e"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(concepts *mockConceptRepo, questions *mockQuestionRepo, orch *mockOrchestrator) *Service {
	return NewService(testLogger(), concepts, questions, orch, Config{})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAnalyzeWord_StoresConcept(t *testing.T) {
	concepts := &mockConceptRepo{}
	svc := newService(concepts, &mockQuestionRepo{}, &mockOrchestrator{})
	userID := uuid.New()

	got, err := svc.AnalyzeWord(context.Background(), userID, domain.LanguageEnglish, "  Cat  ")
	require.NoError(t, err)

	assert.Equal(t, "cat", got.Word, "input is normalized before generation")
	assert.Equal(t, userID, got.UserID)
	require.Len(t, concepts.upserted, 1)
	require.NotNil(t, got.ExplanationQuality)
	assert.Equal(t, 3, *got.ExplanationQuality)
}

func TestAnalyzeWord_EmptyWord(t *testing.T) {
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, &mockOrchestrator{})

	_, err := svc.AnalyzeWord(context.Background(), uuid.New(), domain.LanguageEnglish, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalyzeWord_InvalidLanguage(t *testing.T) {
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, &mockOrchestrator{})

	_, err := svc.AnalyzeWord(context.Background(), uuid.New(), domain.Language("xx"), "cat")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalyzeWord_SnapshotFeedsOrchestrator(t *testing.T) {
	concepts := &mockConceptRepo{
		knownWordsFunc: func(ctx context.Context, userID uuid.UUID, lang domain.Language) ([]string, error) {
			return []string{"dog", "sun"}, nil
		},
	}
	orch := &mockOrchestrator{
		analyzeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
			assert.True(t, set.ContainsWord("dog"))
			assert.False(t, set.ContainsWord("cat"))
			return domain.WordAnalysis{
				Word: word, Language: lang, Meaning: "m",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Explanations: []string{"e"}, ExplanationQuality: 3,
			}, nil
		},
	}
	svc := newService(concepts, &mockQuestionRepo{}, orch)

	_, err := svc.AnalyzeWord(context.Background(), uuid.New(), domain.LanguageEnglish, "cat")
	require.NoError(t, err)
}

func TestYesNoQuestion_SetsOwner(t *testing.T) {
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, &mockOrchestrator{})
	userID := uuid.New()

	q, err := svc.YesNoQuestion(context.Background(), userID, domain.LanguageEnglish, "cat")
	require.NoError(t, err)
	assert.Equal(t, userID, q.UserID)
	assert.NotEqual(t, uuid.Nil, q.ID)
}

func TestClozeQuestion_GenerationErrorPassesThrough(t *testing.T) {
	boom := errors.New("exhausted")
	orch := &mockOrchestrator{
		clozeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.ClozeQuestion, error) {
			return domain.ClozeQuestion{}, boom
		},
	}
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, orch)

	_, err := svc.ClozeQuestion(context.Background(), uuid.New(), domain.LanguageEnglish, "cat")
	assert.ErrorIs(t, err, boom)
}

func TestEvaluateSentence_NotPersisted(t *testing.T) {
	concepts := &mockConceptRepo{}
	svc := newService(concepts, &mockQuestionRepo{}, &mockOrchestrator{})

	f, err := svc.EvaluateSentence(context.Background(), uuid.New(), domain.LanguageEnglish, "cat", "a cat sat")
	require.NoError(t, err)
	assert.True(t, f.Correct)
	assert.Empty(t, concepts.upserted)
}

func TestEvaluateSentence_EmptySentence(t *testing.T) {
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, &mockOrchestrator{})

	_, err := svc.EvaluateSentence(context.Background(), uuid.New(), domain.LanguageEnglish, "cat", "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegenerateExplanations_UpdatesConcept(t *testing.T) {
	conceptID := uuid.New()
	var updated []string
	concepts := &mockConceptRepo{
		getByWordFunc: func(ctx context.Context, userID uuid.UUID, lang domain.Language, word string) (*domain.Concept, error) {
			return &domain.Concept{ID: conceptID, Word: word, Language: lang, DesiredWords: []string{"sun"}}, nil
		},
		updateExplanationsFunc: func(ctx context.Context, id uuid.UUID, explanations []string) error {
			assert.Equal(t, conceptID, id)
			updated = explanations
			return nil
		},
	}
	orch := &mockOrchestrator{
		regenFunc: func(ctx context.Context, lang domain.Language, word string, desired []string, set *vocab.Set) ([]string, error) {
			assert.Equal(t, []string{"sun"}, desired)
			return []string{"new one"}, nil
		},
	}
	svc := newService(concepts, &mockQuestionRepo{}, orch)

	c, err := svc.RegenerateExplanations(context.Background(), uuid.New(), domain.LanguageEnglish, "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"new one"}, updated)
	assert.Equal(t, []string{"new one"}, c.Explanations)
}

func TestRegenerateExplanations_UnknownConcept(t *testing.T) {
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, &mockOrchestrator{})

	_, err := svc.RegenerateExplanations(context.Background(), uuid.New(), domain.LanguageEnglish, "cat")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportWords_PerItemOutcomes(t *testing.T) {
	orch := &mockOrchestrator{
		analyzeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
			if word == "bad" {
				return domain.WordAnalysis{}, errors.New("model misbehaved")
			}
			return domain.WordAnalysis{
				Word: word, Language: lang, Meaning: "m",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Explanations: []string{"e"}, ExplanationQuality: 3,
			}, nil
		},
	}
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, orch)

	results, err := svc.ImportWords(context.Background(), uuid.New(), domain.LanguageEnglish, []string{"cat", "bad", "dog"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Concept)
	assert.Error(t, results[1].Err, "one failure must not abort the batch")
	assert.NoError(t, results[2].Err)
}

func TestImportWords_DeduplicatesInput(t *testing.T) {
	var calls int32
	orch := &mockOrchestrator{
		analyzeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
			atomic.AddInt32(&calls, 1)
			return domain.WordAnalysis{
				Word: word, Language: lang, Meaning: "m",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Explanations: []string{"e"}, ExplanationQuality: 3,
			}, nil
		},
	}
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, orch)

	results, err := svc.ImportWords(context.Background(), uuid.New(), domain.LanguageEnglish, []string{"Cat", "cat", "", "dog"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestImportWords_CancelledMidBatch(t *testing.T) {
	// Every analysis call parks on the context, so cancelling the batch is
	// the only way any item finishes. The call must return per-item errors
	// rather than wait on work that will never run.
	orch := &mockOrchestrator{
		analyzeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
			<-ctx.Done()
			return domain.WordAnalysis{}, ctx.Err()
		},
	}
	svc := NewService(testLogger(), &mockConceptRepo{}, &mockQuestionRepo{}, orch, Config{ImportWorkers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	type outcome struct {
		results []ImportResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := svc.ImportWords(ctx, uuid.New(), domain.LanguageEnglish, words)
		done <- outcome{results, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case out := <-done:
		require.NoError(t, out.err)
		require.Len(t, out.results, len(words))
		for _, r := range out.results {
			assert.NotEmpty(t, r.Word)
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("ImportWords did not return after context cancellation")
	}
}

func TestImportWords_ConcurrentSnapshotShared(t *testing.T) {
	var sets sync.Map
	orch := &mockOrchestrator{
		analyzeFunc: func(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
			sets.Store(set, true)
			return domain.WordAnalysis{
				Word: word, Language: lang, Meaning: "m",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Explanations: []string{"e"}, ExplanationQuality: 3,
			}, nil
		},
	}
	svc := newService(&mockConceptRepo{}, &mockQuestionRepo{}, orch)

	_, err := svc.ImportWords(context.Background(), uuid.New(), domain.LanguageEnglish, []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	count := 0
	sets.Range(func(_, _ any) bool { count++; return true })
	assert.Equal(t, 1, count, "one snapshot serves the whole batch")
}
