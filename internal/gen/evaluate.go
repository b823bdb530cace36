package gen

import (
	"context"
	"fmt"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/segment"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

type feedbackPayload struct {
	Correct  *bool  `json:"correct"`
	Feedback string `json:"feedback"`
}

// EvaluateSentence asks the model to judge a sentence the learner wrote
// with word. Only the feedback text is vocabulary-checked; the learner's
// own sentence is allow-listed wholesale, since quoting the learner back at
// themselves is always safe.
func (o *Orchestrator) EvaluateSentence(ctx context.Context, lang domain.Language, word, sentence string, set *vocab.Set) (domain.SentenceFeedback, error) {
	v, err := validate.New(lang)
	if err != nil {
		return domain.SentenceFeedback{}, err
	}
	sentence = domain.Sanitize(sentence)
	allowed := set.WithAllowed(v.Segmenter(), append([]string{word}, sentenceWords(v, sentence)...)...)

	spec := artifactSpec[domain.SentenceFeedback]{
		op: "evaluate_sentence",
		prompt: func(st attemptState) string {
			return evaluatePrompt(lang, word, sentence, set, o.cfg.SampleSize, st.illegal)
		},
		parse: func(raw string) (domain.SentenceFeedback, error) {
			p, err := decode[feedbackPayload](raw)
			if err != nil {
				return domain.SentenceFeedback{}, err
			}
			if p.Correct == nil || p.Feedback == "" {
				return domain.SentenceFeedback{}, fmt.Errorf("%w: missing correct or feedback", ErrMalformedResponse)
			}
			return domain.SentenceFeedback{
				Word:     word,
				Language: lang,
				Sentence: sentence,
				Correct:  *p.Correct,
				Feedback: p.Feedback,
			}, nil
		},
		validate: func(f domain.SentenceFeedback) (domain.SentenceFeedback, []string, bool) {
			violations := fieldViolations(v, lang, f.Feedback, allowed)
			return f, violations, len(violations) == 0
		},
	}
	return run(ctx, o, spec)
}

// sentenceWords collects the Word segments of the learner's sentence.
func sentenceWords(v *validate.Validator, sentence string) []string {
	var words []string
	for _, s := range v.Segmenter().Segment(sentence) {
		if s.Kind == segment.KindWord {
			words = append(words, s.Text)
		}
	}
	return words
}
