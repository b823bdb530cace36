package gen

import (
	"fmt"
	"strings"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/vocab"
)

// languageName maps the language code to the name used in prompts.
func languageName(lang domain.Language) string {
	switch lang {
	case domain.LanguageChinese:
		return "Chinese (Mandarin)"
	case domain.LanguageJapanese:
		return "Japanese"
	case domain.LanguageSwedish:
		return "Swedish"
	case domain.LanguageEnglish:
		return "English"
	default:
		return string(lang)
	}
}

// vocabBlock renders the bounded known-vocabulary sample embedded in every
// prompt. The sample caps prompt size; it is a hint for the model, the
// validator enforces the real constraint afterwards.
func vocabBlock(set *vocab.Set, sampleSize int) string {
	sample := set.Sample(sampleSize)
	if len(sample) == 0 {
		return "The learner knows no words yet. Use emoji instead of words wherever possible."
	}
	return fmt.Sprintf(
		"The learner knows ONLY these words (sample of %d):\n%s\nUse ONLY these words. Where they do not suffice, use emoji instead.",
		len(sample), strings.Join(sample, ", "))
}

// feedbackBlock renders the retry addendum listing prior violations, in
// first-offense order. Empty on the first attempt.
func feedbackBlock(illegal []string) string {
	if len(illegal) == 0 {
		return ""
	}
	return fmt.Sprintf(
		"\nYour previous answer used words or characters the learner does NOT know: %s\nDo not use them. Rephrase using only known words, or emoji.\n",
		strings.Join(illegal, ", "))
}

func analysisPrompt(lang domain.Language, word string, set *vocab.Set, sampleSize int, illegal []string) string {
	pinyinLine := ""
	if lang == domain.LanguageChinese {
		pinyinLine = `
  "pinyin": "<pinyin with tone marks>",`
	}
	return fmt.Sprintf(`You are a %s teacher for a beginner learner.

Analyze the word "%s".

%s
The word "%s" itself is allowed.
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "meaning": "<short English gloss>",
  "part_of_speech": "<NOUN|VERB|ADJECTIVE|ADVERB|PRONOUN|PREPOSITION|CONJUNCTION|INTERJECTION|PARTICLE|MEASURE_WORD|PHRASE|OTHER>",%s
  "explanations": ["<explanation of the word in %s, 2-3 candidates>"],
  "explanation_quality": <1-5, your confidence that the explanations are clear given the vocabulary limit>,
  "desired_words": ["<up to 5 words that, if the learner knew them, would let you explain this word better>"]
}

Rules:
- Every explanation must use only the learner's known words, plus emoji
- Output ONLY the JSON, no markdown, no commentary`,
		languageName(lang), word, vocabBlock(set, sampleSize), word,
		feedbackBlock(illegal), pinyinLine, languageName(lang))
}

func yesNoPrompt(lang domain.Language, word string, set *vocab.Set, sampleSize int, illegal []string) string {
	return fmt.Sprintf(`You are a %s teacher for a beginner learner.

Write one simple yes/no question in %s that uses the word "%s", to check the learner understands it.

%s
The word "%s" itself is allowed.
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "question": "<the question in %s>",
  "answer": <true for yes, false for no>
}

Rules:
- The question must use only the learner's known words plus "%s"
- Output ONLY the JSON, no markdown, no commentary`,
		languageName(lang), languageName(lang), word, vocabBlock(set, sampleSize),
		word, feedbackBlock(illegal), languageName(lang), word)
}

func clozePrompt(lang domain.Language, word string, set *vocab.Set, sampleSize int, illegal []string) string {
	return fmt.Sprintf(`You are a %s teacher for a beginner learner.

Write one fill-in-the-blank exercise in %s for the word "%s".

%s
The word "%s" itself is allowed, and so are the distractor options you choose.
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "sentence": "<a sentence in %s with the missing word replaced by %s>",
  "options": ["<3-4 options, one of them %q>"],
  "correct_index": <index of %q in options>
}

Rules:
- The marker %s must appear exactly once in the sentence
- The sentence must use only the learner's known words
- Output ONLY the JSON, no markdown, no commentary`,
		languageName(lang), languageName(lang), word, vocabBlock(set, sampleSize),
		word, feedbackBlock(illegal), languageName(lang), domain.BlankMarker,
		word, word, domain.BlankMarker)
}

func evaluatePrompt(lang domain.Language, word, sentence string, set *vocab.Set, sampleSize int, illegal []string) string {
	return fmt.Sprintf(`You are a %s teacher for a beginner learner.

The learner was asked to write a sentence using the word "%s". They wrote:
"%s"

Judge whether the sentence uses the word correctly and is grammatical.

%s
The word "%s" and the words of the learner's own sentence are allowed.
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "correct": <true or false>,
  "feedback": "<one or two short sentences of feedback in %s>"
}

Rules:
- The feedback must use only the learner's known words plus emoji
- Output ONLY the JSON, no markdown, no commentary`,
		languageName(lang), word, sentence, vocabBlock(set, sampleSize),
		word, feedbackBlock(illegal), languageName(lang))
}

func regenPrompt(lang domain.Language, word string, desired []string, set *vocab.Set, sampleSize int) string {
	desiredLine := ""
	if len(desired) > 0 {
		desiredLine = fmt.Sprintf("\nThe learner has since learned: %s. Use them if they help.\n", strings.Join(desired, ", "))
	}
	return fmt.Sprintf(`You are a %s teacher for a beginner learner.

Write 2-3 fresh explanations of the word "%s" in %s.

%s
The word "%s" itself is allowed.
%s
Output ONLY a valid JSON object matching this exact schema:
{
  "explanations": ["<explanation>", "<explanation>"]
}

Rules:
- Every explanation must use only the learner's known words plus emoji
- Output ONLY the JSON, no markdown, no commentary`,
		languageName(lang), word, languageName(lang), vocabBlock(set, sampleSize),
		word, desiredLine)
}
