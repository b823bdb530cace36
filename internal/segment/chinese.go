package segment

import (
	"fmt"
	"sync"

	"github.com/go-ego/gse"
	lru "github.com/hashicorp/golang-lru/v2"
)

// segmentCacheSize bounds the per-text result cache. Generated texts repeat
// heavily across retries and batch imports, so hits are common.
const segmentCacheSize = 4096

// chinese segments text with gse's dictionary model. A token is a Word
// unless it is entirely whitespace or entirely punctuation/symbols.
type chinese struct {
	seg   *gse.Segmenter
	cache *lru.Cache[string, []Segment]
}

var (
	zhOnce sync.Once
	zhSeg  *chinese
	zhErr  error
)

// newChinese loads the embedded gse dictionary once per process.
func newChinese() (Segmenter, error) {
	zhOnce.Do(func() {
		var seg gse.Segmenter
		if err := seg.LoadDict(); err != nil {
			zhErr = fmt.Errorf("segment: load chinese dictionary: %w", err)
			return
		}
		cache, err := lru.New[string, []Segment](segmentCacheSize)
		if err != nil {
			zhErr = fmt.Errorf("segment: create cache: %w", err)
			return
		}
		zhSeg = &chinese{seg: &seg, cache: cache}
	})
	return zhSeg, zhErr
}

func (c *chinese) Segment(text string) []Segment {
	if text == "" {
		return nil
	}
	if cached, ok := c.cache.Get(text); ok {
		return cached
	}
	segs := splitNewlines(text, c.segmentLine)
	c.cache.Add(text, segs)
	return segs
}

func (c *chinese) segmentLine(line string) []Segment {
	var segs []Segment
	rest := line
	for _, tok := range c.seg.Cut(line, true) {
		segs, rest = appendToken(segs, rest, tok)
	}
	return flushRest(segs, rest)
}

func (c *chinese) IsWordChar(r rune) bool { return isHan(r) }

func (c *chinese) ExtractChars(words []string) map[string]bool {
	return extractChars(words, c.IsWordChar)
}
