package gen

import (
	"context"
	"fmt"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

// ThinkingGlyph is the placeholder explanation used when regeneration
// produces nothing usable. A refinement is allowed to degrade silently.
const ThinkingGlyph = "🤔"

type regenPayload struct {
	Explanations []string `json:"explanations"`
}

// RegenerateExplanations is the single-shot, lower-stakes variant of word
// analysis: one model call, candidates filtered by the constraint, and the
// thinking glyph when nothing passes. Transport errors still surface so the
// caller can tell an outage from a degraded result.
func (o *Orchestrator) RegenerateExplanations(ctx context.Context, lang domain.Language, word string, desired []string, set *vocab.Set) ([]string, error) {
	v, err := validate.New(lang)
	if err != nil {
		return nil, err
	}
	allowed := set.WithAllowed(v.Segmenter(), word)

	resp, err := o.gen.Generate(ctx, regenPrompt(lang, word, desired, set, o.cfg.SampleSize))
	if err != nil {
		return nil, fmt.Errorf("regenerate_explanations: %w", err)
	}
	o.recordUsage(ctx, "regenerate_explanations", resp.Usage)

	p, err := decode[regenPayload](resp.Text)
	if err != nil {
		o.log.WarnContext(ctx, "regeneration unusable, degrading",
			"word", word, "error", err)
		return []string{ThinkingGlyph}, nil
	}

	kept, _ := filterExplanations(v, lang, p.Explanations, allowed)
	if len(kept) == 0 {
		return []string{ThinkingGlyph}, nil
	}
	if len(kept) > domain.MaxExplanations {
		kept = kept[:domain.MaxExplanations]
	}
	return kept, nil
}
