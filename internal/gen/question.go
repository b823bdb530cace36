package gen

import (
	"context"
	"fmt"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

type yesNoPayload struct {
	Question string `json:"question"`
	Answer   *bool  `json:"answer"`
}

// YesNoQuestion generates one comprehension question for word that the
// learner can answer with yes or no.
func (o *Orchestrator) YesNoQuestion(ctx context.Context, lang domain.Language, word string, set *vocab.Set) (domain.YesNoQuestion, error) {
	v, err := validate.New(lang)
	if err != nil {
		return domain.YesNoQuestion{}, err
	}
	allowed := set.WithAllowed(v.Segmenter(), word)

	spec := artifactSpec[domain.YesNoQuestion]{
		op: "yes_no_question",
		prompt: func(st attemptState) string {
			return yesNoPrompt(lang, word, set, o.cfg.SampleSize, st.illegal)
		},
		parse: func(raw string) (domain.YesNoQuestion, error) {
			p, err := decode[yesNoPayload](raw)
			if err != nil {
				return domain.YesNoQuestion{}, err
			}
			if p.Question == "" || p.Answer == nil {
				return domain.YesNoQuestion{}, fmt.Errorf("%w: missing question or answer", ErrMalformedResponse)
			}
			return domain.YesNoQuestion{
				Word:     word,
				Language: lang,
				Question: p.Question,
				Answer:   *p.Answer,
			}, nil
		},
		validate: func(q domain.YesNoQuestion) (domain.YesNoQuestion, []string, bool) {
			violations := fieldViolations(v, lang, q.Question, allowed)
			return q, violations, len(violations) == 0
		},
	}
	return run(ctx, o, spec)
}
