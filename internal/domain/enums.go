package domain

// PartOfSpeech represents the grammatical category of a word.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "NOUN"
	PartOfSpeechVerb         PartOfSpeech = "VERB"
	PartOfSpeechAdjective    PartOfSpeech = "ADJECTIVE"
	PartOfSpeechAdverb       PartOfSpeech = "ADVERB"
	PartOfSpeechPronoun      PartOfSpeech = "PRONOUN"
	PartOfSpeechPreposition  PartOfSpeech = "PREPOSITION"
	PartOfSpeechConjunction  PartOfSpeech = "CONJUNCTION"
	PartOfSpeechInterjection PartOfSpeech = "INTERJECTION"
	PartOfSpeechParticle     PartOfSpeech = "PARTICLE"
	PartOfSpeechMeasureWord  PartOfSpeech = "MEASURE_WORD"
	PartOfSpeechPhrase       PartOfSpeech = "PHRASE"
	PartOfSpeechOther        PartOfSpeech = "OTHER"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechInterjection, PartOfSpeechParticle, PartOfSpeechMeasureWord,
		PartOfSpeechPhrase, PartOfSpeechOther:
		return true
	}
	return false
}
