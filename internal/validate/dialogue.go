package validate

import (
	"strings"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

const (
	minDialogueLines     = 12
	minDialogueTerms     = 2
	maxConsecutiveTurns  = 2
	minDialogueSpeakers  = 2
	minViableDialogueLen = 2
)

// checkDialogue covers both variants: length, opening role, turn taking,
// shared vocabulary and the level's perfect/passive rule. Fill-gap
// dialogues also need an answer per gap.
func checkDialogue(s lesson.Dialogue, c *sharedctx.Context, prior lesson.Sections, r *report) {
	if n := len(s.Lines); n < minDialogueLines {
		r.issue("dialogue has %d lines, expected at least %d", n, minDialogueLines)
	}
	if len(s.Lines) == 0 {
		return
	}

	if c != nil {
		opener, _ := c.LessonType().DialogueRoles()
		first := s.Lines[0].Speaker
		if !strings.EqualFold(s.RoleOf(first), opener) && !strings.EqualFold(first, opener) {
			r.issue("dialogue must open with the %s, but %q speaks first", opener, first)
		}
	}

	checkTurns(s, r)

	var text strings.Builder
	for i, l := range s.Lines {
		if strings.TrimSpace(l.Text) == "" {
			r.issue("line %d is empty", i+1)
		}
		text.WriteString(l.Text)
		text.WriteByte('\n')
	}

	if terms := vocabTerms(c, prior); len(terms) >= minDialogueTerms {
		if got := sharedctx.CountMentioned(text.String(), terms); got < minDialogueTerms {
			r.issue("dialogue uses %d shared vocabulary terms, expected at least %d", got, minDialogueTerms)
		}
	}

	switch guidanceOf(c).PatternRule {
	case cefr.PatternsForbidden:
		for i, l := range s.Lines {
			if HasPerfectOrPassive(l.Text) {
				r.issue("line %d uses a perfect or passive form, too advanced for the level", i+1)
			}
		}
	case cefr.PatternsRequired:
		if !HasPerfectOrPassive(text.String()) {
			r.issue("dialogue uses no perfect or passive forms, too simple for the level")
		}
	}

	checkGaps(s, r)
}

func checkTurns(s lesson.Dialogue, r *report) {
	speakers := make(map[string]bool)
	run, prev := 0, ""
	flagged := false
	for _, l := range s.Lines {
		speakers[l.Speaker] = true
		if len(s.Characters) > 0 && s.RoleOf(l.Speaker) == "" && !flagged {
			r.warn("speaker %q is not a listed character", l.Speaker)
			flagged = true
		}
		if l.Speaker == prev {
			run++
		} else {
			run, prev = 1, l.Speaker
		}
		if run == maxConsecutiveTurns+1 {
			r.issue("%s speaks more than %d times in a row", l.Speaker, maxConsecutiveTurns)
		}
	}
	if len(speakers) < minDialogueSpeakers {
		r.issue("dialogue needs at least %d speakers", minDialogueSpeakers)
	}
}

func checkGaps(s lesson.Dialogue, r *report) {
	gaps := s.GapCount()
	if s.Variant != lesson.VariantFillGap {
		if gaps > 0 {
			r.warn("practice dialogue contains %d gaps", gaps)
		}
		return
	}
	if gaps == 0 {
		r.issue("fill-gap dialogue has no gapped lines")
		return
	}
	if len(s.AnswerKey) != gaps {
		r.issue("answer key has %d answers for %d gaps", len(s.AnswerKey), gaps)
	}
	for i, l := range s.Lines {
		if l.Gapped && strings.Count(l.Text, lesson.GapMarker) != 1 {
			r.issue("gapped line %d must contain exactly one %s", i+1, lesson.GapMarker)
		}
	}
	for i, a := range s.AnswerKey {
		if strings.TrimSpace(a) == "" {
			r.issue("answer %d is empty", i+1)
		}
	}
}

func floorDialogue(s lesson.Dialogue) string {
	if len(s.Lines) < minViableDialogueLen {
		return "fewer than 2 lines"
	}
	if s.Variant == lesson.VariantFillGap && s.GapCount() == 0 {
		return "no gaps"
	}
	return ""
}
