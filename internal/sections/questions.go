package sections

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// DiscussionQuestions is the exact number of discussion questions.
const DiscussionQuestions = 5

type questionsOutput struct {
	Questions []string `json:"questions"`
}

func strictQuestions(text string) ([]string, error) {
	var out questionsOutput
	if err := decodeStrict(text, questionsSchema, &out); err != nil {
		return nil, err
	}
	return trimAll(out.Questions), nil
}

// WarmUpGenerator writes short personal questions that lead into the topic.
type WarmUpGenerator struct{ *base }

func (g *WarmUpGenerator) Kind() lesson.Kind { return lesson.KindWarmUp }

func (g *WarmUpGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 150)
	b.WriteString(`
Instructions:
Write 4 warm-up questions that get learners talking before they read.
- Ask about the learners' own experience and opinions, not facts from the text.
- Each question is one sentence and ends with a question mark.
- Use at least one of the key vocabulary words or themes.`)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), questionsSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text,
		func(s string) (lesson.WarmUp, error) {
			qs, err := strictQuestions(s)
			return lesson.WarmUp{Questions: qs}, err
		},
		func(s string) (lesson.WarmUp, bool) {
			qs := numberedItems(s)
			return lesson.WarmUp{Questions: qs}, len(qs) > 0
		},
	)
}

// DiscussionGenerator writes exactly five questions that move from personal
// to evaluative.
type DiscussionGenerator struct{ *base }

func (g *DiscussionGenerator) Kind() lesson.Kind { return lesson.KindDiscussion }

func (g *DiscussionGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	band := in.Context.Guidance().Discussion

	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 250)
	fmt.Fprintf(&b, `
Instructions:
Write exactly %d discussion questions about the source text.
- Every question has between %d and %d words and ends with a question mark.
- Question 1 is personal and simple (ask about the learner's own life).
- Questions 2-4 connect the topic to the learner's experience and opinions.
- Question 5 is evaluative or abstract (ask the learner to judge, compare or predict).
- At least two questions must use a key vocabulary word or theme.
- Start the questions in different ways.`, DiscussionQuestions, band.Min, band.Max)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), questionsSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text,
		func(s string) (lesson.Discussion, error) {
			qs, err := strictQuestions(s)
			return lesson.Discussion{Questions: qs}, err
		},
		func(s string) (lesson.Discussion, bool) {
			qs := numberedItems(s)
			return lesson.Discussion{Questions: qs}, len(qs) > 0
		},
	)
}

// WrapUpGenerator closes the lesson with a summary and reflection questions.
type WrapUpGenerator struct{ *base }

func (g *WrapUpGenerator) Kind() lesson.Kind { return lesson.KindWrapUp }

func (g *WrapUpGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	var b strings.Builder
	writeContext(&b, in.Context)
	if kinds := in.Prior.Kinds(); len(kinds) > 0 {
		parts := make([]string, len(kinds))
		for i, k := range kinds {
			parts[i] = string(k)
		}
		fmt.Fprintf(&b, "Sections covered: %s\n", strings.Join(parts, ", "))
	}
	if v, ok := in.Prior.Vocabulary(); ok {
		words := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			words[i] = e.Word
		}
		fmt.Fprintf(&b, "Vocabulary taught: %s\n", strings.Join(words, ", "))
	}
	b.WriteString(`
Instructions:
Write a wrap-up for the lesson.
- summary: two or three sentences recapping the topic and the language practised.
- questions: 4 reflection questions about what the learner learned and how they will use it. Each ends with a question mark.`)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), wrapUpSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text, strictWrapUp, tolerantWrapUp)
}

func strictWrapUp(text string) (lesson.WrapUp, error) {
	var out struct {
		Summary   string   `json:"summary"`
		Questions []string `json:"questions"`
	}
	if err := decodeStrict(text, wrapUpSchema, &out); err != nil {
		return lesson.WrapUp{}, err
	}
	return lesson.WrapUp{Summary: strings.TrimSpace(out.Summary), Questions: trimAll(out.Questions)}, nil
}

func tolerantWrapUp(text string) (lesson.WrapUp, bool) {
	var w lesson.WrapUp
	for _, f := range labelledFields(text) {
		if hasLabel(f.label, "SUMMARY", "RECAP") {
			w.Summary = f.value
			break
		}
	}
	w.Questions = numberedItems(text)
	return w, w.Summary != "" || len(w.Questions) > 0
}
