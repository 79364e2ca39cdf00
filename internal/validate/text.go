package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

var (
	perfectRe = regexp.MustCompile(`(?i)\b(?:has|have|had|hasn't|haven't|hadn't|'ve)\s+(?:not\s+|never\s+|just\s+|already\s+|ever\s+)?(been|\w{2,}ed|done|gone|seen|taken|given|written|known|eaten|made|found|got|gotten|become|begun|brought|bought|thought|told|said|left|felt|kept|met|paid|read|sent|spent|stood|understood|won|grown|risen|fallen|driven|spoken|chosen)\b`)
	passiveRe = regexp.MustCompile(`(?i)\b(?:am|is|are|was|were|be|been|being|isn't|aren't|wasn't|weren't)\s+(?:not\s+|being\s+)?(\w{2,}ed|known|made|given|taken|written|seen|done|built|found|held|sold|told|paid|born|grown|shown|spoken|chosen|eaten|driven|caught|taught|bought|brought|kept|lost|sent)\b`)
)

// adjectival participles that are not passive in practice.
var adjectival = map[string]bool{
	"tired": true, "interested": true, "excited": true, "bored": true, "worried": true,
	"married": true, "surprised": true, "scared": true, "pleased": true, "closed": true,
	"used": true, "supposed": true, "allowed": true, "retired": true, "confused": true,
	"relaxed": true, "annoyed": true, "amazed": true, "shocked": true, "disappointed": true,
	"embarrassed": true, "frightened": true, "satisfied": true, "crowded": true, "located": true,
	"red": true, "need": true, "based": true, "concerned": true, "prepared": true,
}

// HasPerfectOrPassive reports whether text contains a perfect-aspect or
// passive construction.
func HasPerfectOrPassive(text string) bool {
	if perfectRe.MatchString(text) {
		return true
	}
	for _, m := range passiveRe.FindAllStringSubmatch(text, -1) {
		if !adjectival[strings.ToLower(m[1])] {
			return true
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func endsWithQuestionMark(s string) bool {
	return strings.HasSuffix(strings.TrimSpace(s), "?")
}

func endsSentence(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')”’`)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}

func startsUpper(s string) bool {
	for _, r := range strings.TrimSpace(s) {
		return unicode.IsUpper(r) || !unicode.IsLetter(r)
	}
	return false
}

func firstWord(s string) string {
	f := strings.Fields(strings.ToLower(s))
	if len(f) == 0 {
		return ""
	}
	return strings.Trim(f[0], `"'¿¡`)
}

func guidanceOf(c *sharedctx.Context) cefr.Guidance {
	if c == nil {
		return cefr.For(cefr.B1)
	}
	return c.Guidance()
}

// vocabTerms merges the vocabulary section's words with the shared
// context's key vocabulary.
func vocabTerms(c *sharedctx.Context, prior lesson.Sections) []string {
	var extra []string
	if c != nil {
		extra = c.Vocabulary()
	}
	return mergeTerms(prior, extra)
}

// topicTerms is vocabTerms plus the shared context's themes.
func topicTerms(c *sharedctx.Context, prior lesson.Sections) []string {
	var extra []string
	if c != nil {
		extra = c.TopicTerms()
	}
	return mergeTerms(prior, extra)
}

func mergeTerms(prior lesson.Sections, extra []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(w string) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	if v, ok := prior.Vocabulary(); ok {
		for _, e := range v.Entries {
			add(e.Word)
		}
	}
	for _, t := range extra {
		add(t)
	}
	return out
}

func duplicates(items []string) []string {
	seen := make(map[string]bool)
	var dup []string
	for _, s := range items {
		k := strings.ToLower(strings.Join(strings.Fields(s), " "))
		if seen[k] {
			dup = append(dup, s)
		}
		seen[k] = true
	}
	return dup
}
