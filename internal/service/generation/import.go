package generation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/worker"
)

// ImportResult is the per-item outcome of a batch import.
type ImportResult struct {
	Word    string
	Concept *domain.Concept
	Err     error
}

// ImportWords analyzes a batch of words concurrently through a bounded
// worker pool. The vocabulary snapshot is taken once before the batch
// starts; words accepted mid-batch become visible only to later top-level
// requests. A failed item never aborts the batch.
func (s *Service) ImportWords(ctx context.Context, userID uuid.UUID, lang domain.Language, words []string) ([]ImportResult, error) {
	set, err := s.snapshot(ctx, userID, lang)
	if err != nil {
		return nil, err
	}

	// Deduplicate while preserving input order.
	seen := make(map[string]bool, len(words))
	batch := make([]string, 0, len(words))
	for _, w := range words {
		w = domain.NormalizeText(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		batch = append(batch, w)
	}

	results := make([]ImportResult, len(batch))
	pool := worker.NewPool(s.cfg.ImportWorkers, len(batch))
	pool.Start(ctx)

	var wg sync.WaitGroup
	for i, word := range batch {
		wg.Add(1)
		err := pool.Submit(func(jobCtx context.Context) error {
			defer wg.Done()
			// Jobs drained after cancellation fail fast with a per-item
			// error instead of calling out to the model.
			if err := jobCtx.Err(); err != nil {
				results[i] = ImportResult{Word: word, Err: err}
				return err
			}
			itemCtx, cancel := context.WithTimeout(jobCtx, s.cfg.ItemTimeout)
			defer cancel()

			analysis, err := s.orch.AnalyzeWord(itemCtx, lang, word, set)
			if err != nil {
				results[i] = ImportResult{Word: word, Err: err}
				return err
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
			stored, err := s.concepts.Upsert(itemCtx, concept)
			if err != nil {
				results[i] = ImportResult{Word: word, Err: err}
				return err
			}
			results[i] = ImportResult{Word: word, Concept: stored}
			return nil
		})
		if err != nil {
			wg.Done()
			results[i] = ImportResult{Word: word, Err: err}
		}
	}
	wg.Wait()
	pool.Close()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.log.InfoContext(ctx, "batch import finished",
		slog.String("user_id", userID.String()),
		slog.String("language", lang.String()),
		slog.Int("total", len(batch)),
		slog.Int("failed", failed))
	return results, nil
}
