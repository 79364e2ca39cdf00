package validate

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

const (
	minGrammarExamples  = 5
	grammarExercises    = 5
	minExplanationWords = 12
	minPassageTerms     = 2
	maxTitleWords       = 14
	targetPronWords     = 5
	minPronWords        = 3

	// readingSlack widens the level band before a length miss blocks.
	readingSlack = 0.2
)

// checkVocabulary enforces the per-level example count exactly.
func checkVocabulary(s lesson.Vocabulary, c *sharedctx.Context, _ lesson.Sections, r *report) {
	g := guidanceOf(c)

	if len(s.Entries) == 0 {
		r.issue("vocabulary has no entries")
		return
	}
	if len(s.Entries) != g.VocabWords {
		r.warn("vocabulary has %d entries, expected %d", len(s.Entries), g.VocabWords)
	}

	words := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		words[i] = e.Word
		label := e.Word
		if strings.TrimSpace(label) == "" {
			r.issue("entry %d has no word", i+1)
			label = fmt.Sprintf("entry %d", i+1)
		}
		if strings.TrimSpace(e.Definition) == "" {
			r.issue("%s has no definition", label)
		}
		if len(e.Examples) != g.Examples {
			r.issue("%s has %d examples, expected exactly %d", label, len(e.Examples), g.Examples)
		}
		for j, ex := range e.Examples {
			if e.Word != "" && !sharedctx.Mentions(ex, e.Word) {
				r.warn("%s example %d does not use the word", label, j+1)
			}
			if !endsSentence(ex) {
				r.warn("%s example %d lacks terminal punctuation", label, j+1)
			}
		}
	}
	for _, d := range duplicates(words) {
		r.issue("duplicate vocabulary word %q", d)
	}
}

func floorVocabulary(s lesson.Vocabulary) string {
	if len(s.Entries) == 0 {
		return "no entries"
	}
	return ""
}

func checkReading(s lesson.Reading, c *sharedctx.Context, prior lesson.Sections, r *report) {
	if strings.TrimSpace(s.Passage) == "" {
		r.issue("reading passage is empty")
		return
	}
	if strings.TrimSpace(s.Heading) == "" {
		r.warn("reading passage has no heading")
	}

	band := guidanceOf(c).Reading
	n := wordCount(s.Passage)
	lo := int(float64(band.Min) * (1 - readingSlack))
	hi := int(float64(band.Max) * (1 + readingSlack))
	switch {
	case n < lo || n > hi:
		r.issue("passage has %d words, expected %d-%d", n, band.Min, band.Max)
	case !band.Contains(n):
		r.warn("passage has %d words, slightly outside %d-%d", n, band.Min, band.Max)
	}

	if terms := vocabTerms(c, prior); len(terms) >= minPassageTerms {
		if got := sharedctx.CountMentioned(s.Passage, terms); got < minPassageTerms {
			r.warn("passage uses %d key vocabulary terms, expected at least %d", got, minPassageTerms)
		}
	}
}

func floorReading(s lesson.Reading) string {
	if strings.TrimSpace(s.Passage) == "" {
		return "empty passage"
	}
	return ""
}

// checkGrammar keeps form and usage apart and enforces the example and
// exercise counts.
func checkGrammar(s lesson.Grammar, c *sharedctx.Context, prior lesson.Sections, r *report) {
	if strings.TrimSpace(s.RuleName) == "" {
		r.issue("grammar point has no rule name")
	}
	if n := wordCount(s.Form); n < minExplanationWords {
		r.issue("form explanation has %d words, expected at least %d", n, minExplanationWords)
	}
	if n := wordCount(s.Usage); n < minExplanationWords {
		r.issue("usage explanation has %d words, expected at least %d", n, minExplanationWords)
	}
	if s.Form != "" && strings.EqualFold(strings.TrimSpace(s.Form), strings.TrimSpace(s.Usage)) {
		r.issue("form and usage explanations are identical")
	}

	if n := len(s.Examples); n < minGrammarExamples {
		r.issue("grammar point has %d examples, expected at least %d", n, minGrammarExamples)
	}
	for i, ex := range s.Examples {
		if !endsSentence(ex) {
			r.warn("example %d lacks terminal punctuation", i+1)
		}
	}
	for _, d := range duplicates(s.Examples) {
		r.warn("duplicate example %q", d)
	}

	if n := len(s.Exercises); n != grammarExercises {
		r.issue("grammar point has %d exercises, expected exactly %d", n, grammarExercises)
	}
	for i, ex := range s.Exercises {
		if strings.TrimSpace(ex.Prompt) == "" || strings.TrimSpace(ex.Answer) == "" || strings.TrimSpace(ex.Explanation) == "" {
			r.issue("exercise %d needs a prompt, an answer and an explanation", i+1)
		}
	}

	if terms := topicTerms(c, prior); len(terms) > 0 && len(s.Examples) > 0 {
		if sharedctx.CountMentioned(strings.Join(s.Examples, " "), terms) == 0 {
			r.warn("examples do not relate to the source themes")
		}
	}
}

func floorGrammar(s lesson.Grammar) string {
	if len(s.Examples) == 0 {
		return "no examples"
	}
	return ""
}

// checkPronunciation requires at least three complete words. Tongue
// twisters are optional; malformed ones only warn.
func checkPronunciation(s lesson.Pronunciation, _ *sharedctx.Context, _ lesson.Sections, r *report) {
	n := len(s.Words)
	switch {
	case n < minPronWords:
		r.issue("pronunciation has %d words, expected at least %d", n, minPronWords)
	case n < targetPronWords:
		r.warn("pronunciation reduced to %d words", n)
	}

	for i, w := range s.Words {
		label := w.Word
		if strings.TrimSpace(label) == "" {
			r.issue("word %d is empty", i+1)
			continue
		}
		if strings.Trim(strings.TrimSpace(w.IPA), "/[]") == "" {
			r.issue("%s has no phonetic transcription", label)
		}
		if len(w.Tips) == 0 {
			r.issue("%s has no tips", label)
		}
		if !sharedctx.Mentions(w.PracticeSentence, label) {
			r.issue("%s practice sentence does not contain the word", label)
		}
	}

	for i, t := range s.TongueTwisters {
		if strings.TrimSpace(t.Text) == "" {
			r.warn("tongue twister %d is empty", i+1)
			continue
		}
		if len(t.TargetPhonemes) == 0 {
			r.warn("tongue twister %d has no target phonemes", i+1)
		}
		switch t.Difficulty {
		case "easy", "medium", "hard":
		default:
			r.warn("tongue twister %d has difficulty %q", i+1, t.Difficulty)
		}
	}
}

func floorPronunciation(s lesson.Pronunciation) string {
	if len(s.Words) < minPronWords {
		return fmt.Sprintf("only %d words", len(s.Words))
	}
	return ""
}

func checkTitle(s lesson.Title, _ *sharedctx.Context, _ lesson.Sections, r *report) {
	if strings.TrimSpace(s.Text) == "" {
		r.issue("title is empty")
		return
	}
	if wordCount(s.Text) > maxTitleWords {
		r.warn("title is long (%d words)", wordCount(s.Text))
	}
	if s.Source == lesson.TitleGeneric {
		r.warn("generic fallback title")
	}
}

func floorTitle(s lesson.Title) string {
	if strings.TrimSpace(s.Text) == "" {
		return "empty title"
	}
	return ""
}
