package gen

import (
	"context"
	"fmt"
	"strings"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

type clozePayload struct {
	Sentence     string   `json:"sentence"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`
}

// ClozeQuestion generates one fill-in-the-blank exercise for word. The
// sentence must contain the blank marker exactly once and CorrectIndex must
// point into Options; a response breaking either is a parse failure, not a
// vocabulary violation, but spends the same attempt budget. The options the
// model picks as distractors are allow-listed for the vocabulary check of
// that attempt.
func (o *Orchestrator) ClozeQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.ClozeQuestion, error) {
	v, err := validate.New(lang)
	if err != nil {
		return domain.ClozeQuestion{}, err
	}

	spec := artifactSpec[domain.ClozeQuestion]{
		op: "cloze_question",
		prompt: func(st attemptState) string {
			return clozePrompt(lang, word, set, o.cfg.SampleSize, st.illegal)
		},
		parse: func(raw string) (domain.ClozeQuestion, error) {
			p, err := decode[clozePayload](raw)
			if err != nil {
				return domain.ClozeQuestion{}, err
			}
			if p.Sentence == "" || len(p.Options) == 0 || p.CorrectIndex == nil {
				return domain.ClozeQuestion{}, fmt.Errorf("%w: missing sentence, options or correct_index", ErrMalformedResponse)
			}
			q := domain.ClozeQuestion{
				Word:         word,
				Language:     lang,
				Sentence:     p.Sentence,
				Options:      p.Options,
				CorrectIndex: *p.CorrectIndex,
			}
			if err := q.ValidateStructure(); err != nil {
				return domain.ClozeQuestion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			return q, nil
		},
		validate: func(q domain.ClozeQuestion) (domain.ClozeQuestion, []string, bool) {
			allowed := set.WithAllowed(v.Segmenter(), append([]string{word}, q.Options...)...)
			// The marker itself is not vocabulary.
			sentence := strings.ReplaceAll(q.Sentence, domain.BlankMarker, " ")
			violations := fieldViolations(v, lang, sentence, allowed)
			for _, opt := range q.Options {
				violations = append(violations, fieldViolations(v, lang, opt, allowed)...)
			}
			return q, violations, len(violations) == 0
		},
	}
	return run(ctx, o, spec)
}
