package sections

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// VocabularyGenerator writes entries for the shared key vocabulary. The
// number of examples per word is fixed by the level.
type VocabularyGenerator struct{ *base }

func (g *VocabularyGenerator) Kind() lesson.Kind { return lesson.KindVocabulary }

func (g *VocabularyGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	guide := in.Context.Guidance()
	words := in.Context.Vocabulary()
	if len(words) > guide.VocabWords {
		words = words[:guide.VocabWords]
	}

	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 300)
	b.WriteString("\nInstructions:\n")
	if missing := guide.VocabWords - len(words); missing > 0 && len(words) > 0 {
		fmt.Fprintf(&b, "Write vocabulary entries for these words: %s. Add %d more useful words from the source text.\n",
			strings.Join(words, ", "), missing)
	} else if len(words) == 0 {
		fmt.Fprintf(&b, "Choose %d useful words from the source text and write a vocabulary entry for each.\n", guide.VocabWords)
	} else {
		fmt.Fprintf(&b, "Write vocabulary entries for exactly these words: %s.\n", strings.Join(words, ", "))
	}
	fmt.Fprintf(&b, `- Return exactly %d entries.
- Each entry has the word, its part of speech and a definition written at the level.
- Each entry has exactly %d example sentences. Every example contains the word and ends with a full stop, question mark or exclamation mark.
- Examples relate to the themes of the source text.`, guide.VocabWords, guide.Examples)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), vocabularySchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text, strictVocabulary, tolerantVocabulary)
}

func strictVocabulary(text string) (lesson.Vocabulary, error) {
	var out lesson.Vocabulary
	if err := decodeStrict(text, vocabularySchema, &out); err != nil {
		return lesson.Vocabulary{}, err
	}
	for i, e := range out.Entries {
		out.Entries[i] = lesson.VocabEntry{
			Word:         strings.TrimSpace(e.Word),
			PartOfSpeech: strings.ToLower(strings.TrimSpace(e.PartOfSpeech)),
			Definition:   strings.TrimSpace(e.Definition),
			Examples:     trimAll(e.Examples),
		}
	}
	return out, nil
}

// tolerantVocabulary reads blocks that start at each WORD label. Numbered
// lines inside a block count as examples.
func tolerantVocabulary(text string) (lesson.Vocabulary, bool) {
	var v lesson.Vocabulary
	var cur *lesson.VocabEntry
	for _, f := range labelledFields(text) {
		if hasLabel(f.label, "WORD", "TERM") {
			v.Entries = append(v.Entries, lesson.VocabEntry{Word: f.value})
			cur = &v.Entries[len(v.Entries)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch {
		case hasLabel(f.label, "POS", "PART OF SPEECH", "TYPE"):
			cur.PartOfSpeech = strings.ToLower(f.value)
		case hasLabel(f.label, "DEFINITION", "MEANING"):
			cur.Definition = f.value
		case hasLabel(f.label, "EXAMPLE", itemLabel):
			if f.value != "" {
				cur.Examples = append(cur.Examples, f.value)
			}
		}
	}
	return v, len(v.Entries) > 0
}
