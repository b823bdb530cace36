// Package segment splits natural-language text into classified units per
// study language. Three strategies are used: dictionary-based segmentation
// for Chinese (gse), statistical tokenization for Japanese (kagome), and
// rune-class runs for space-delimited languages.
//
// Concatenating the Text of all returned segments, in order, reproduces the
// input exactly — except for space-delimited languages, where Word segments
// are lowercased for case-insensitive vocabulary matching.
package segment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/mittord/mittord-backend/internal/domain"
)

// Kind classifies a segment.
type Kind int

const (
	KindWord Kind = iota
	KindPunct
	KindSpace
	KindNewline
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindPunct:
		return "punct"
	case KindSpace:
		return "space"
	case KindNewline:
		return "newline"
	}
	return "unknown"
}

// Segment is one classified span of text. Segments are ephemeral — produced
// for validation, never persisted.
type Segment struct {
	Kind Kind
	Text string
}

// Segmenter converts text into an ordered sequence of Segments and
// classifies graphemes as word-characters, for one language.
type Segmenter interface {
	// Segment splits text into classified units. It is total over valid
	// UTF-8 input; callers sanitize upstream (domain.Sanitize).
	Segment(text string) []Segment

	// IsWordChar reports whether r belongs to the language's word script.
	IsWordChar(r rune) bool

	// ExtractChars decomposes each word into grapheme clusters and returns
	// the set of clusters made entirely of word-characters.
	ExtractChars(words []string) map[string]bool
}

// New returns the Segmenter for lang. Dictionary-backed segmenters are
// initialized once per process and shared; New is cheap after the first call.
func New(lang domain.Language) (Segmenter, error) {
	switch lang {
	case domain.LanguageChinese:
		return newChinese()
	case domain.LanguageJapanese:
		return newJapanese()
	case domain.LanguageSwedish, domain.LanguageEnglish:
		return spaceDelimited{}, nil
	default:
		return nil, fmt.Errorf("segment: unsupported language %q", lang)
	}
}

// splitNewlines emits each \n as its own Newline segment and runs
// segmentLine on the text between them, so no word or punctuation run ever
// spans a line boundary.
func splitNewlines(text string, segmentLine func(string) []Segment) []Segment {
	var segs []Segment
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if line := text[start:i]; line != "" {
			segs = append(segs, segmentLine(line)...)
		}
		segs = append(segs, Segment{Kind: KindNewline, Text: "\n"})
		start = i + 1
	}
	if rest := text[start:]; rest != "" {
		segs = append(segs, segmentLine(rest)...)
	}
	return segs
}

// classify tags a non-empty token: Space if entirely whitespace, Punct if
// entirely punctuation or symbols (emoji included), Word otherwise.
func classify(text string) Kind {
	space, punct := true, true
	for _, r := range text {
		if !unicode.IsSpace(r) {
			space = false
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			punct = false
		}
	}
	switch {
	case space:
		return KindSpace
	case punct:
		return KindPunct
	default:
		return KindWord
	}
}

// appendToken walks tokenizer output against the original line: tok is
// located in rest, any skipped prefix is classified and emitted first, so
// segments always cover the full input even if the tokenizer drops spans.
func appendToken(segs []Segment, rest, tok string) ([]Segment, string) {
	if tok == "" {
		return segs, rest
	}
	idx := strings.Index(rest, tok)
	if idx < 0 {
		return segs, rest
	}
	if idx > 0 {
		gap := rest[:idx]
		segs = append(segs, Segment{Kind: classify(gap), Text: gap})
	}
	segs = append(segs, Segment{Kind: classify(tok), Text: tok})
	return segs, rest[idx+len(tok):]
}

// flushRest classifies and emits whatever the tokenizer left uncovered.
func flushRest(segs []Segment, rest string) []Segment {
	if rest == "" {
		return segs
	}
	return append(segs, Segment{Kind: classify(rest), Text: rest})
}

// extractChars is the shared ExtractChars implementation: grapheme-decompose
// each word with uniseg and keep clusters made entirely of word-characters.
// Deterministic for a given word set.
func extractChars(words []string, isWordChar func(rune) bool) map[string]bool {
	chars := make(map[string]bool)
	for _, w := range words {
		g := uniseg.NewGraphemes(w)
		for g.Next() {
			cluster := g.Str()
			if cluster == "" {
				continue
			}
			keep := true
			for _, r := range cluster {
				if !isWordChar(r) {
					keep = false
					break
				}
			}
			if keep {
				chars[cluster] = true
			}
		}
	}
	return chars
}
