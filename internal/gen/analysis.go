package gen

import (
	"context"
	"fmt"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

type analysisPayload struct {
	Meaning            string   `json:"meaning"`
	PartOfSpeech       string   `json:"part_of_speech"`
	Pinyin             string   `json:"pinyin"`
	Explanations       []string `json:"explanations"`
	ExplanationQuality int      `json:"explanation_quality"`
	DesiredWords       []string `json:"desired_words"`
}

// AnalyzeWord generates a full breakdown of word: gloss, part of speech,
// constraint-satisfying explanations and the words the model wished the
// learner knew. Explanations that violate the constraint are dropped
// individually; the attempt retries only when none survive.
func (o *Orchestrator) AnalyzeWord(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.WordAnalysis, error) {
	v, err := validate.New(lang)
	if err != nil {
		return domain.WordAnalysis{}, err
	}
	allowed := set.WithAllowed(v.Segmenter(), word)

	spec := artifactSpec[domain.WordAnalysis]{
		op: "analyze_word",
		prompt: func(st attemptState) string {
			return analysisPrompt(lang, word, set, o.cfg.SampleSize, st.illegal)
		},
		parse: func(raw string) (domain.WordAnalysis, error) {
			p, err := decode[analysisPayload](raw)
			if err != nil {
				return domain.WordAnalysis{}, err
			}
			if p.Meaning == "" || len(p.Explanations) == 0 {
				return domain.WordAnalysis{}, fmt.Errorf("%w: missing meaning or explanations", ErrMalformedResponse)
			}
			pos := domain.PartOfSpeech(p.PartOfSpeech)
			if !pos.IsValid() {
				pos = domain.PartOfSpeechOther
			}
			if len(p.DesiredWords) > domain.MaxDesiredWords {
				p.DesiredWords = p.DesiredWords[:domain.MaxDesiredWords]
			}
			return domain.WordAnalysis{
				Word:               word,
				Language:           lang,
				Meaning:            p.Meaning,
				PartOfSpeech:       pos,
				Pinyin:             p.Pinyin,
				Explanations:       p.Explanations,
				ExplanationQuality: clampQuality(p.ExplanationQuality),
				DesiredWords:       p.DesiredWords,
			}, nil
		},
		validate: func(a domain.WordAnalysis) (domain.WordAnalysis, []string, bool) {
			kept, violations := filterExplanations(v, lang, a.Explanations, allowed)
			a.Explanations = kept
			if len(a.Explanations) > domain.MaxExplanations {
				a.Explanations = a.Explanations[:domain.MaxExplanations]
			}
			return a, violations, len(a.Explanations) > 0
		},
	}
	return run(ctx, o, spec)
}

// filterExplanations keeps the candidates with zero violations and collects
// the violations of the rest, in first-offense order.
func filterExplanations(v *validate.Validator, lang domain.Language, candidates []string, set *vocab.Set) (kept []string, violations []string) {
	for _, c := range candidates {
		found := fieldViolations(v, lang, c, set)
		if len(found) == 0 {
			kept = append(kept, c)
			continue
		}
		violations = append(violations, found...)
	}
	return kept, violations
}

func clampQuality(q int) int {
	if q < domain.MinQuality {
		return domain.MinQuality
	}
	if q > domain.MaxQuality {
		return domain.MaxQuality
	}
	return q
}
