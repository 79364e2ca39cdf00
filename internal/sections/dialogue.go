package sections

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// MinDialogueLines is the shortest acceptable dialogue.
const MinDialogueLines = 12

// DialogueGenerator writes either the practice or the fill-gap dialogue.
// The opening speaker's role comes from the lesson type.
type DialogueGenerator struct {
	*base
	variant lesson.DialogueVariant
}

func (g *DialogueGenerator) Kind() lesson.Kind {
	return lesson.Dialogue{Variant: g.variant}.Kind()
}

func (g *DialogueGenerator) Generate(ctx context.Context, in Input) (lesson.Section, error) {
	opener, partner := in.Context.LessonType().DialogueRoles()
	terms := dialogueTerms(in)

	var b strings.Builder
	writeContext(&b, in.Context)
	writeSource(&b, in.Context, 200)
	fmt.Fprintf(&b, `
Instructions:
Write a natural dialogue between two characters about the topic of the source text.
- Character 1 has the role %q and speaks first. Character 2 has the role %q.
- Give each character a first name. Use the name as the speaker of each line.
- Write %d to %d lines. Speakers take turns; nobody speaks more than twice in a row.
- Use at least 3 of these words: %s.
`, opener, partner, MinDialogueLines, MinDialogueLines+4, listOrNone(terms))

	if g.variant == lesson.VariantFillGap {
		fmt.Fprintf(&b, `- This is a gap-fill exercise. In 5 or 6 lines, replace one key word or short phrase with %s.
- answer_key lists the missing words, one per gap, in the order the gaps appear.`, lesson.GapMarker)
	} else {
		b.WriteString("- answer_key is an empty list.")
	}

	text, err := g.complete(ctx, g.Kind(), in, b.String(), dialogueSchema)
	if err != nil {
		return nil, err
	}
	return parseSection(g.Kind(), text,
		func(s string) (lesson.Dialogue, error) { return strictDialogue(s, g.variant) },
		func(s string) (lesson.Dialogue, bool) { return tolerantDialogue(s, g.variant) },
	)
}

// dialogueTerms prefers words the vocabulary section actually taught.
func dialogueTerms(in Input) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(w string) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && !seen[w] {
			seen[w] = true
			terms = append(terms, w)
		}
	}
	if v, ok := in.Prior.Vocabulary(); ok {
		for _, e := range v.Entries {
			add(e.Word)
		}
	}
	for _, w := range in.Context.Vocabulary() {
		add(w)
	}
	return terms
}

func strictDialogue(text string, variant lesson.DialogueVariant) (lesson.Dialogue, error) {
	var out struct {
		Scenario   string             `json:"scenario"`
		Characters []lesson.Character `json:"characters"`
		Lines      []struct {
			Speaker string `json:"speaker"`
			Text    string `json:"text"`
		} `json:"lines"`
		AnswerKey []string `json:"answer_key"`
	}
	if err := decodeStrict(text, dialogueSchema, &out); err != nil {
		return lesson.Dialogue{}, err
	}

	d := lesson.Dialogue{
		Variant:    variant,
		Scenario:   strings.TrimSpace(out.Scenario),
		Characters: out.Characters,
	}
	for _, l := range out.Lines {
		d.Lines = append(d.Lines, newLine(l.Speaker, l.Text))
	}
	if variant == lesson.VariantFillGap {
		d.AnswerKey = trimAll(out.AnswerKey)
	}
	return d, nil
}

var (
	speakerRe = regexp.MustCompile(`^\s*\**([\p{L}][\p{L} .'-]{0,30}?)(?:\s*\(([^)]{1,30})\))?\**\s*:\s*(.+)$`)
	answerRe  = regexp.MustCompile(`(?i)^\s*\**(answers?|answer key|key)\**\s*:\s*(.*)$`)
)

// tolerantDialogue reads "Name: text" or "Name (Role): text" lines. Roles
// are only recorded when the response states them. A trailing "Answers:"
// block provides the answer key.
func tolerantDialogue(text string, variant lesson.DialogueVariant) (lesson.Dialogue, bool) {
	if looksLikeJSON(text) {
		return lesson.Dialogue{}, false
	}
	d := lesson.Dialogue{Variant: variant}
	roles := make(map[string]string)
	var order []string
	inKey := false

	for _, line := range strings.Split(text, "\n") {
		if m := answerRe.FindStringSubmatch(line); m != nil {
			inKey = true
			if rest := strings.TrimSpace(m[2]); rest != "" {
				for _, a := range strings.Split(rest, ",") {
					if a = clean(a); a != "" {
						d.AnswerKey = append(d.AnswerKey, a)
					}
				}
			}
			continue
		}
		if inKey {
			if m := numberedRe.FindStringSubmatch(line); m != nil {
				d.AnswerKey = append(d.AnswerKey, clean(m[1]))
			}
			continue
		}
		m := speakerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if strings.EqualFold(name, "scenario") {
			d.Scenario = clean(m[3])
			continue
		}
		if _, ok := roles[name]; !ok {
			order = append(order, name)
			roles[name] = ""
		}
		if m[2] != "" {
			roles[name] = strings.TrimSpace(m[2])
		}
		d.Lines = append(d.Lines, newLine(name, m[3]))
	}

	for _, name := range order {
		d.Characters = append(d.Characters, lesson.Character{Name: name, Role: roles[name]})
	}
	if variant != lesson.VariantFillGap {
		d.AnswerKey = nil
	}
	return d, len(d.Lines) > 0
}

func newLine(speaker, text string) lesson.DialogueLine {
	text = clean(text)
	return lesson.DialogueLine{
		Speaker: strings.TrimSpace(speaker),
		Text:    text,
		Gapped:  strings.Contains(text, lesson.GapMarker),
	}
}
