package sections

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

const systemPrompt = `You are an experienced language teacher writing one section of a lesson built from a real source text.

Rules:
- Match the requested CEFR level: vocabulary, sentence length and grammar must stay inside the level limits given.
- Stay on the topic of the source text and reuse the key vocabulary and themes you are given.
- Follow every count exactly. If asked for 5 items, return exactly 5.
- Respond with JSON matching the requested schema only. No commentary, no markdown.`

// writeContext renders the shared context block every section prompt
// starts with.
func writeContext(b *strings.Builder, c *sharedctx.Context) {
	g := c.Guidance()
	langs := c.Languages()

	fmt.Fprintf(b, "Target language: %s\n", langs.Target)
	if langs.Source != "" {
		fmt.Fprintf(b, "Learner's first language: %s\n", langs.Source)
	}
	fmt.Fprintf(b, "CEFR level: %s (%s)\n", g.Level, g.Descriptor)
	fmt.Fprintf(b, "Sentence length: %d-%d words\n", g.Sentence.Min, g.Sentence.Max)
	fmt.Fprintf(b, "Tenses allowed: %s\n", strings.Join(g.Tenses, ", "))
	fmt.Fprintf(b, "Lesson type: %s\n", c.LessonType().Label())
	fmt.Fprintf(b, "Key vocabulary: %s\n", listOrNone(c.Vocabulary()))
	fmt.Fprintf(b, "Themes: %s\n", listOrNone(c.Themes()))
	fmt.Fprintf(b, "Source difficulty: %s\n", c.Difficulty().Label)
	b.WriteString(patternNote(g.PatternRule))
}

func patternNote(r cefr.PatternRule) string {
	switch r {
	case cefr.PatternsForbidden:
		return "Do not use perfect tenses (has/have/had + past participle) or the passive voice.\n"
	case cefr.PatternsRequired:
		return "Use at least one perfect tense or passive construction where it sounds natural.\n"
	}
	return ""
}

func writeSource(b *strings.Builder, c *sharedctx.Context, words int) {
	b.WriteString("\nSource text:\n")
	b.WriteString(c.Excerpt(words))
	b.WriteString("\n")
}

// withIssues appends the previous attempt's problems to a retry prompt.
func withIssues(prompt string, in Input) string {
	if in.Attempt <= 1 || len(in.PreviousIssues) == 0 {
		return prompt
	}
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nYour previous answer was rejected for these reasons. Fix all of them:\n")
	for _, issue := range in.PreviousIssues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
