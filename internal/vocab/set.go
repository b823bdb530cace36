// Package vocab holds the in-memory snapshot of a learner's known
// vocabulary for one language. A Set is derived from the learner's concept
// collection at the start of each generation request and never refreshed
// mid-request; it is safe for concurrent readers.
package vocab

import (
	"sort"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/segment"
)

// Set is a snapshot of known words and, for character-based languages, the
// characters those words are built from.
type Set struct {
	lang  domain.Language
	words map[string]bool
	chars map[string]bool
	// extra holds allow-list additions (the target word, cloze options).
	// Kept separate so WithAllowed can share the base maps.
	extra      map[string]bool
	extraChars map[string]bool
}

// New builds a Set from the learner's known words. Words are normalized
// (lowercased, trimmed) so matching for space-delimited languages is
// case-insensitive. For character-based languages the word set is expanded
// into known characters via the segmenter's grapheme extraction.
func New(lang domain.Language, words []string, seg segment.Segmenter) *Set {
	s := &Set{
		lang:  lang,
		words: make(map[string]bool, len(words)),
	}
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		w = domain.NormalizeText(w)
		if w == "" {
			continue
		}
		s.words[w] = true
		normalized = append(normalized, w)
	}
	if lang.CharacterBased() {
		s.chars = seg.ExtractChars(normalized)
	}
	return s
}

// Language returns the language this snapshot is scoped to.
func (s *Set) Language() domain.Language { return s.lang }

// Len returns the number of known words.
func (s *Set) Len() int { return len(s.words) }

// ContainsWord reports whether w is known or allow-listed.
func (s *Set) ContainsWord(w string) bool {
	w = domain.NormalizeText(w)
	return s.words[w] || s.extra[w]
}

// ContainsChar reports whether the grapheme c is known or part of an
// allow-listed word. Only meaningful for character-based languages.
func (s *Set) ContainsChar(c string) bool {
	return s.chars[c] || s.extraChars[c]
}

// Sample returns up to n known words in lexicographic order, bounding the
// vocabulary block embedded in prompts. Deterministic for a given set.
func (s *Set) Sample(n int) []string {
	words := make([]string, 0, len(s.words))
	for w := range s.words {
		words = append(words, w)
	}
	sort.Strings(words)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// WithAllowed returns a copy of the set that additionally accepts the given
// words (and, for character-based languages, their characters). The base
// snapshot is shared, not copied; the receiver is unchanged.
func (s *Set) WithAllowed(seg segment.Segmenter, words ...string) *Set {
	out := &Set{
		lang:       s.lang,
		words:      s.words,
		chars:      s.chars,
		extra:      make(map[string]bool, len(words)+len(s.extra)),
		extraChars: map[string]bool{},
	}
	for w := range s.extra {
		out.extra[w] = true
	}
	for c := range s.extraChars {
		out.extraChars[c] = true
	}
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		w = domain.NormalizeText(w)
		if w == "" {
			continue
		}
		out.extra[w] = true
		normalized = append(normalized, w)
	}
	if s.lang.CharacterBased() {
		for c := range seg.ExtractChars(normalized) {
			out.extraChars[c] = true
		}
	}
	return out
}
