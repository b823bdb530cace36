package segment

import (
	"strings"
	"unicode"
)

// spaceDelimited segments space-delimited languages (English, Swedish, …)
// into runs of word characters, whitespace, or everything else. Word
// segments are lowercased so vocabulary matching is case-insensitive.
type spaceDelimited struct{}

func (spaceDelimited) Segment(text string) []Segment {
	if text == "" {
		return nil
	}
	return splitNewlines(text, segmentSpaceLine)
}

func segmentSpaceLine(line string) []Segment {
	var segs []Segment
	var b strings.Builder
	cur := Kind(-1)

	flush := func() {
		if b.Len() == 0 {
			return
		}
		text := b.String()
		if cur == KindWord {
			text = strings.ToLower(text)
		}
		segs = append(segs, Segment{Kind: cur, Text: text})
		b.Reset()
	}

	for _, r := range line {
		k := spaceRuneKind(r)
		if k != cur {
			flush()
			cur = k
		}
		b.WriteRune(r)
	}
	flush()
	return segs
}

func spaceRuneKind(r rune) Kind {
	switch {
	case unicode.IsSpace(r):
		return KindSpace
	case unicode.IsLetter(r) || unicode.IsNumber(r):
		return KindWord
	default:
		return KindPunct
	}
}

func (spaceDelimited) IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (s spaceDelimited) ExtractChars(words []string) map[string]bool {
	return extractChars(words, s.IsWordChar)
}
