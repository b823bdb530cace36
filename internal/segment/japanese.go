package segment

import (
	"fmt"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// japanese segments text with the kagome statistical tokenizer (IPA
// dictionary). Kanji, hiragana and katakana tokens collapse to Word;
// whitespace and punctuation tokens are classified separately.
type japanese struct {
	t *tokenizer.Tokenizer
}

var (
	jaOnce sync.Once
	jaSeg  *japanese
	jaErr  error
)

// newJapanese builds the kagome tokenizer once per process.
func newJapanese() (Segmenter, error) {
	jaOnce.Do(func() {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			jaErr = fmt.Errorf("segment: create japanese tokenizer: %w", err)
			return
		}
		jaSeg = &japanese{t: t}
	})
	return jaSeg, jaErr
}

func (j *japanese) Segment(text string) []Segment {
	if text == "" {
		return nil
	}
	return splitNewlines(text, j.segmentLine)
}

func (j *japanese) segmentLine(line string) []Segment {
	var segs []Segment
	rest := line
	for _, tok := range j.t.Tokenize(line) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		segs, rest = appendToken(segs, rest, tok.Surface)
	}
	return flushRest(segs, rest)
}

func (j *japanese) IsWordChar(r rune) bool { return isHan(r) || isKana(r) }

func (j *japanese) ExtractChars(words []string) map[string]bool {
	return extractChars(words, j.IsWordChar)
}
