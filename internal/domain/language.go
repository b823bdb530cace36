package domain

// Language identifies a supported study language.
type Language string

const (
	LanguageChinese  Language = "zh"
	LanguageJapanese Language = "ja"
	LanguageSwedish  Language = "sv"
	LanguageEnglish  Language = "en"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageChinese, LanguageJapanese, LanguageSwedish, LanguageEnglish:
		return true
	}
	return false
}

// CharacterBased reports whether vocabulary knowledge is tracked per
// character in addition to whole words. Generated content for these
// languages must avoid even uncombined unfamiliar characters.
func (l Language) CharacterBased() bool {
	return l == LanguageChinese || l == LanguageJapanese
}

// LatinScript reports whether the language is written in Latin script.
// Content generated for non-Latin languages must not contain Latin letters;
// a learner studying hanzi or kana gets no romanized crutches.
func (l Language) LatinScript() bool {
	return l == LanguageSwedish || l == LanguageEnglish
}
