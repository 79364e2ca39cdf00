package sections

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// ComprehensionQuestions is the number of question/answer pairs requested.
const ComprehensionQuestions = 5

// ReadingGenerator adapts the source text into a passage at the level's
// length band.
type ReadingGenerator struct{ *base }

func (g *ReadingGenerator) Kind() lesson.Kind { return lesson.KindReading }

func (g *ReadingGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	band := in.Context.Guidance().Reading

	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 900)
	fmt.Fprintf(&b, `
Instructions:
Rewrite the source text as a reading passage for this level.
- Length: %d-%d words, in 2-4 paragraphs separated by blank lines.
- Keep the facts of the source. Do not add information that is not in it.
- Use as many of the key vocabulary words as fit naturally.
- Give the passage a short heading.`, band.Min, band.Max)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), readingSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text, strictReading, tolerantReading)
}

func strictReading(text string) (lesson.Reading, error) {
	var out struct {
		Heading string `json:"heading"`
		Passage string `json:"passage"`
	}
	if err := decodeStrict(text, readingSchema, &out); err != nil {
		return lesson.Reading{}, err
	}
	return lesson.Reading{Heading: strings.TrimSpace(out.Heading), Passage: strings.TrimSpace(out.Passage)}, nil
}

// tolerantReading accepts "HEADING:"/"PASSAGE:" labels. Paragraph breaks
// inside the passage are kept.
func tolerantReading(text string) (lesson.Reading, bool) {
	if looksLikeJSON(text) {
		return lesson.Reading{}, false
	}
	var r lesson.Reading
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		m := labelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(m[1])) {
		case "HEADING", "TITLE":
			r.Heading = clean(m[2])
		case "PASSAGE", "TEXT", "READING":
			rest := append([]string{m[2]}, lines[i+1:]...)
			r.Passage = strings.TrimSpace(strings.Join(rest, "\n"))
			return r, r.Passage != ""
		}
	}
	return r, false
}

// ComprehensionGenerator asks questions about the reading passage, falling
// back to the source text when no passage was generated.
type ComprehensionGenerator struct{ *base }

func (g *ComprehensionGenerator) Kind() lesson.Kind { return lesson.KindComprehension }

func (g *ComprehensionGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	var b strings.Builder
	writeContext(&b, in.Context)
	if r, ok := in.Prior.Reading(); ok && r.Passage != "" {
		b.WriteString("\nReading passage:\n")
		b.WriteString(r.Passage)
		b.WriteString("\n")
	} else {
		writeSource(&b, in.Context, 400)
	}
	fmt.Fprintf(&b, `
Instructions:
Write exactly %d comprehension questions about the passage, each with a short model answer.
- Answers must be found in the passage.
- Mix detail questions with one question about the main idea.
- Each question ends with a question mark.`, ComprehensionQuestions)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), comprehensionSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text, strictComprehension, tolerantComprehension)
}

func strictComprehension(text string) (lesson.Comprehension, error) {
	var out lesson.Comprehension
	if err := decodeStrict(text, comprehensionSchema, &out); err != nil {
		return lesson.Comprehension{}, err
	}
	for i := range out.Questions {
		out.Questions[i].Question = strings.TrimSpace(out.Questions[i].Question)
		out.Questions[i].Answer = strings.TrimSpace(out.Questions[i].Answer)
	}
	return out, nil
}

// tolerantComprehension pairs "Q:"/"QUESTION:" lines (or numbered lines)
// with the "A:"/"ANSWER:" line that follows. A question without an answer
// ends the parse.
func tolerantComprehension(text string) (lesson.Comprehension, bool) {
	var c lesson.Comprehension
	var pending string
	for _, f := range labelledFields(text) {
		switch {
		case hasLabel(f.label, "Q", "QUESTION", itemLabel):
			pending = f.value
		case hasLabel(f.label, "A", "ANSWER"):
			if pending == "" {
				continue
			}
			c.Questions = append(c.Questions, lesson.ComprehensionQuestion{Question: pending, Answer: f.value})
			pending = ""
		}
	}
	return c, len(c.Questions) > 0
}
