package sections

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/lessonforge/internal/lesson"
)

const (
	maxTitleWords    = 12
	maxTitleChars    = 90
	leadTitleChars   = 60
	maxSuffixWords   = 4
	titleSourceWords = 250
)

var (
	titleSuffixSeps = []string{" | ", " - ", " – ", " — ", " :: ", " · "}
	sentenceEndRe   = regexp.MustCompile(`[.!?](\s|$)`)
)

// TitleGenerator never fails. It walks a ladder: a generated title (joined
// with the source title when there is one), then the cleaned source title,
// then the opening of the text, then a generic label.
type TitleGenerator struct{ *base }

func (g *TitleGenerator) Kind() lesson.Kind { return lesson.KindTitle }

// Generate always returns a lesson.Title and a nil error.
func (g *TitleGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	return g.Title(ctx, in), nil
}

// Title runs the fallback ladder.
func (g *TitleGenerator) Title(ctx context.Context, in Input) lesson.Title {
	source := ""
	if in.Metadata != nil {
		source = CleanSourceTitle(in.Metadata.Title, in.Metadata.Domain)
	}

	if g.client != nil {
		ai, err := g.generate(ctx, in)
		if err == nil {
			text := ai
			if source != "" && !strings.Contains(strings.ToLower(ai), strings.ToLower(source)) {
				text = fmt.Sprintf("%s: %s", ai, source)
			}
			return lesson.Title{Text: text, Source: lesson.TitleFromAI}
		}
		g.log.Warn("title generation failed, using fallback", "error", err.Error())
	}

	if source != "" {
		return lesson.Title{Text: source, Source: lesson.TitleFromMetadata}
	}
	if in.Context != nil {
		if lead := LeadingSentenceTitle(in.Context.Text()); lead != "" {
			return lesson.Title{Text: lead, Source: lesson.TitleFromText}
		}
	}
	return lesson.Title{Text: GenericTitle(in), Source: lesson.TitleGeneric}
}

func (g *TitleGenerator) generate(ctx context.Context, in Input) (string, error) {
	if in.Context == nil {
		return "", errors.New("no shared context")
	}
	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, titleSourceWords)
	fmt.Fprintf(&b, `
Instructions:
Write a short, topic-forward title for this lesson (at most %d words). No quotes, no level or lesson type.`, maxTitleWords)

	text, err := g.complete(ctx, g.Kind(), in, b.String(), titleSchema)
	if err != nil {
		return "", err
	}

	var out struct {
		Title string `json:"title"`
	}
	title := ""
	if err := decodeStrict(text, titleSchema, &out); err == nil {
		title = out.Title
	} else if !looksLikeJSON(text) {
		title = strings.SplitN(strings.TrimSpace(text), "\n", 2)[0]
		if m := labelRe.FindStringSubmatch(title); m != nil && strings.EqualFold(strings.TrimSpace(m[1]), "title") {
			title = m[2]
		}
	}
	title = clean(title)
	if !plausibleTitle(title) {
		return "", fmt.Errorf("implausible title %q", title)
	}
	return title, nil
}

func plausibleTitle(t string) bool {
	if t == "" || utf8.RuneCountInString(t) > maxTitleChars {
		return false
	}
	n := len(strings.Fields(t))
	return n > 0 && n <= maxTitleWords
}

// CleanSourceTitle removes trailing site names such as " | BBC News" or
// " - example.com" from an extracted page title.
func CleanSourceTitle(title, domain string) string {
	t := strings.Join(strings.Fields(title), " ")
	site := strings.TrimPrefix(strings.ToLower(domain), "www.")
	if i := strings.LastIndex(site, "."); i > 0 {
		site = site[:i]
	}

	for changed := true; changed; {
		changed = false
		for _, sep := range titleSuffixSeps {
			i := strings.LastIndex(t, sep)
			if i <= 0 {
				continue
			}
			suffix := strings.TrimSpace(t[i+len(sep):])
			short := len(strings.Fields(suffix)) <= maxSuffixWords
			isSite := site != "" && strings.Contains(strings.ToLower(strings.ReplaceAll(suffix, " ", "")), site)
			if isSite || (short && len(strings.Fields(t[:i])) > len(strings.Fields(suffix))) {
				t = strings.TrimSpace(t[:i])
				changed = true
			}
		}
	}
	return t
}

// LeadingSentenceTitle returns the first sentence, cut at a word boundary.
func LeadingSentenceTitle(text string) string {
	text = strings.TrimSpace(text)
	if loc := sentenceEndRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= leadTitleChars {
		return text
	}

	var b strings.Builder
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(b.String())+1+utf8.RuneCountInString(w) > leadTitleChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	if b.Len() == 0 {
		return string([]rune(text)[:leadTitleChars]) + "…"
	}
	return b.String() + "…"
}

// GenericTitle is the last rung: "<LessonType> Lesson - <Level>".
func GenericTitle(in Input) string {
	label, level := "General", "B1"
	if in.Context != nil {
		label = in.Context.LessonType().Label()
		level = string(in.Context.Level())
	}
	return fmt.Sprintf("%s Lesson - %s", label, level)
}
