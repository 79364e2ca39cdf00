package sections

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

var textWordRe = regexp.MustCompile(`[A-Za-z]{5,}`)

// PronunciationGenerator selects hard words with a spelling heuristic and
// asks the service for transcriptions, tips and practice sentences.
type PronunciationGenerator struct{ *base }

func (g *PronunciationGenerator) Kind() lesson.Kind { return lesson.KindPronunciation }

func (g *PronunciationGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	selected := SelectPronunciationWords(pronunciationCandidates(in), g.cfg.pronunciationTarget())
	words := make([]string, len(selected))
	for i, d := range selected {
		words[i] = fmt.Sprintf("%s (%s)", d.Word, strings.ReplaceAll(string(d.Category), "_", " "))
	}

	var b strings.Builder
	writeContext(&b, in.Context)
	fmt.Fprintf(&b, `
Words to practise: %s

Instructions:
For each word write:
- ipa: the IPA transcription between slashes.
- tips: one to three short tips on producing the difficult sound.
- practice_sentence: a sentence at the level that contains the exact word.
Also write two tongue twisters that practise the same sounds. Give each its target phonemes and a difficulty of easy, medium or hard.`, listOrNone(words))

	text, err := g.complete(ctx, g.Kind(), in, b.String(), pronunciationSchema)
	if err != nil {
		return nil, err
	}
	p, err := parseSection(g.Kind(), text, strictPronunciation, tolerantPronunciation)
	if err != nil {
		return nil, err
	}
	return completeWords(p, selected), nil
}

func pronunciationCandidates(in Input) []string {
	var out []string
	if v, ok := in.Prior.Vocabulary(); ok {
		for _, e := range v.Entries {
			out = append(out, e.Word)
		}
	}
	out = append(out, in.Context.Vocabulary()...)
	return append(out, textWordRe.FindAllString(in.Context.Text(), -1)...)
}

// completeWords drops words missing a transcription, a tip or a practice
// sentence that contains them. When the response used any selected word,
// words outside the selection are dropped too.
func completeWords(p lesson.Pronunciation, selected []WordDifficulty) lesson.Pronunciation {
	want := make(map[string]bool, len(selected))
	for _, d := range selected {
		want[d.Word] = true
	}
	matched := false
	for _, w := range p.Words {
		if want[strings.ToLower(w.Word)] {
			matched = true
			break
		}
	}

	out := p
	out.Words = nil
	for _, w := range p.Words {
		if matched && !want[strings.ToLower(w.Word)] {
			continue
		}
		if WordComplete(w) {
			out.Words = append(out.Words, w)
		}
	}
	return out
}

// WordComplete reports whether w has everything a learner needs.
func WordComplete(w lesson.PronunciationWord) bool {
	return strings.TrimSpace(w.Word) != "" &&
		strings.Trim(strings.TrimSpace(w.IPA), "/[]") != "" &&
		len(trimAll(w.Tips)) > 0 &&
		sharedctx.Mentions(w.PracticeSentence, w.Word)
}

func strictPronunciation(text string) (lesson.Pronunciation, error) {
	var out lesson.Pronunciation
	if err := decodeStrict(text, pronunciationSchema, &out); err != nil {
		return lesson.Pronunciation{}, err
	}
	for i, w := range out.Words {
		out.Words[i].Word = strings.TrimSpace(w.Word)
		out.Words[i].IPA = strings.TrimSpace(w.IPA)
		out.Words[i].Tips = trimAll(w.Tips)
		out.Words[i].PracticeSentence = strings.TrimSpace(w.PracticeSentence)
	}
	return out, nil
}

// tolerantPronunciation reads WORD/IPA/TIP/SENTENCE blocks and optional
// TWISTER/PHONEMES/DIFFICULTY blocks.
func tolerantPronunciation(text string) (lesson.Pronunciation, bool) {
	var p lesson.Pronunciation
	var word *lesson.PronunciationWord
	var tw *lesson.TongueTwister
	for _, f := range labelledFields(text) {
		switch {
		case hasLabel(f.label, "WORD"):
			p.Words = append(p.Words, lesson.PronunciationWord{Word: f.value})
			word, tw = &p.Words[len(p.Words)-1], nil
		case hasLabel(f.label, "TWISTER", "TONGUE TWISTER"):
			p.TongueTwisters = append(p.TongueTwisters, lesson.TongueTwister{Text: f.value})
			tw, word = &p.TongueTwisters[len(p.TongueTwisters)-1], nil
		case word != nil && hasLabel(f.label, "IPA", "TRANSCRIPTION"):
			word.IPA = f.value
		case word != nil && hasLabel(f.label, "TIP", itemLabel):
			word.Tips = append(word.Tips, f.value)
		case word != nil && hasLabel(f.label, "SENTENCE", "PRACTICE", "PRACTICE SENTENCE"):
			word.PracticeSentence = f.value
		case tw != nil && hasLabel(f.label, "PHONEMES", "TARGET PHONEMES"):
			tw.TargetPhonemes = trimAll(strings.Split(f.value, ","))
		case tw != nil && hasLabel(f.label, "DIFFICULTY"):
			tw.Difficulty = strings.ToLower(f.value)
		}
	}
	return p, len(p.Words) > 0
}
