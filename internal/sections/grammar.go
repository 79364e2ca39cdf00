package sections

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
)

const (
	// MinGrammarExamples is the fewest example sentences a grammar point
	// may carry.
	MinGrammarExamples = 5

	// GrammarExercises is the exact number of practice exercises.
	GrammarExercises = 5

	// MinExplanationWords applies to both the form and usage explanations.
	MinExplanationWords = 12
)

// GrammarGenerator picks one structure suited to the level and explains it
// with examples drawn from the source topic.
type GrammarGenerator struct{ *base }

func (g *GrammarGenerator) Kind() lesson.Kind { return lesson.KindGrammar }

func (g *GrammarGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	guide := in.Context.Guidance()

	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 300)
	fmt.Fprintf(&b, `
Candidate structures for this level: %s

Instructions:
Choose the one candidate structure that appears in or suits the source text, and teach it.
- form: how the structure is built (at least %d words). Show the pattern.
- usage: when and why it is used (at least %d words). Keep this separate from form.
- examples: at least %d example sentences about the themes of the source text.
- exercises: exactly %d exercises. Each has a prompt, the answer, and a one-sentence explanation.`,
		strings.Join(guide.Structures, "; "), MinExplanationWords, MinExplanationWords, MinGrammarExamples, GrammarExercises)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), grammarSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text, strictGrammar, tolerantGrammar)
}

func strictGrammar(text string) (lesson.Grammar, error) {
	var out lesson.Grammar
	if err := decodeStrict(text, grammarSchema, &out); err != nil {
		return lesson.Grammar{}, err
	}
	out.RuleName = strings.TrimSpace(out.RuleName)
	out.Form = strings.TrimSpace(out.Form)
	out.Usage = strings.TrimSpace(out.Usage)
	out.Examples = trimAll(out.Examples)
	return out, nil
}

// tolerantGrammar reads RULE/FORM/USAGE labels, EXAMPLE lines (or numbered
// lines before the first exercise) and PROMPT/ANSWER/EXPLANATION triples.
func tolerantGrammar(text string) (lesson.Grammar, bool) {
	var gr lesson.Grammar
	var cur *lesson.Exercise
	for _, f := range labelledFields(text) {
		switch {
		case hasLabel(f.label, "RULE", "RULE NAME", "GRAMMAR POINT"):
			gr.RuleName = f.value
		case hasLabel(f.label, "FORM"):
			gr.Form = f.value
		case hasLabel(f.label, "USAGE", "USE"):
			gr.Usage = f.value
		case hasLabel(f.label, "EXAMPLE"):
			gr.Examples = append(gr.Examples, f.value)
		case hasLabel(f.label, itemLabel) && cur == nil:
			gr.Examples = append(gr.Examples, f.value)
		case hasLabel(f.label, "PROMPT", "EXERCISE"):
			gr.Exercises = append(gr.Exercises, lesson.Exercise{Prompt: f.value})
			cur = &gr.Exercises[len(gr.Exercises)-1]
		case hasLabel(f.label, "ANSWER") && cur != nil:
			cur.Answer = f.value
		case hasLabel(f.label, "EXPLANATION", "WHY") && cur != nil:
			cur.Explanation = f.value
		}
	}
	gr.Examples = trimAll(gr.Examples)
	return gr, gr.RuleName != "" && (gr.Form != "" || gr.Usage != "")
}
