// Package validate checks candidate text against a learner's vocabulary
// snapshot and reports violations in first-offense order. The ordering is
// stable: it feeds directly into retry-feedback prompts.
package validate

import (
	"regexp"

	"github.com/rivo/uniseg"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/segment"
	"github.com/mittord/mittord-backend/internal/vocab"
)

// ForeignScript is the sentinel appended to a violation list when Latin
// letters leak into content for a non-Latin target language. Learners must
// not receive crutches in a script they are not studying, so this check runs
// even when every individual character would otherwise pass.
const ForeignScript = "[foreign script]"

var latinRe = regexp.MustCompile(`[a-zA-Z]`)

// Validator checks text for one language.
type Validator struct {
	lang domain.Language
	seg  segment.Segmenter
}

// New builds a Validator with the language's segmenter.
func New(lang domain.Language) (*Validator, error) {
	seg, err := segment.New(lang)
	if err != nil {
		return nil, err
	}
	return &Validator{lang: lang, seg: seg}, nil
}

// Segmenter returns the underlying segmenter, shared with vocabulary
// snapshot construction.
func (v *Validator) Segmenter() segment.Segmenter { return v.seg }

// UnknownWords segments text and returns Word units not in the set,
// deduplicated, in first-seen order, plus the foreign-script sentinel when
// Latin letters appear in a non-Latin target language.
func (v *Validator) UnknownWords(text string, set *vocab.Set) []string {
	text = domain.Sanitize(text)
	var out []string
	seen := make(map[string]bool)
	for _, s := range v.seg.Segment(text) {
		if s.Kind != segment.KindWord {
			continue
		}
		if set.ContainsWord(s.Text) || seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		out = append(out, s.Text)
	}
	return v.appendForeignScript(text, out)
}

// UnknownChars returns individual word-characters of text not covered by
// the set's known characters. Used for validating explanations in
// character-based languages, which must avoid even uncombined unfamiliar
// characters. Punctuation, space, and emoji are always permitted.
func (v *Validator) UnknownChars(text string, set *vocab.Set) []string {
	text = domain.Sanitize(text)
	var out []string
	seen := make(map[string]bool)
	for _, s := range v.seg.Segment(text) {
		if s.Kind != segment.KindWord {
			continue
		}
		g := uniseg.NewGraphemes(s.Text)
		for g.Next() {
			cluster := g.Str()
			if !v.isWordCluster(cluster) {
				continue
			}
			if set.ContainsChar(cluster) || seen[cluster] {
				continue
			}
			seen[cluster] = true
			out = append(out, cluster)
		}
	}
	return v.appendForeignScript(text, out)
}

func (v *Validator) isWordCluster(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !v.seg.IsWordChar(r) {
			return false
		}
	}
	return true
}

func (v *Validator) appendForeignScript(text string, violations []string) []string {
	if v.lang.LatinScript() {
		return violations
	}
	if latinRe.MatchString(text) {
		violations = append(violations, ForeignScript)
	}
	return violations
}
