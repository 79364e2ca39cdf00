package validate

import (
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

const (
	discussionQuestions    = 5
	comprehensionQuestions = 5
	minOpenQuestions       = 3
	maxOpenQuestions       = 5
	minDistinctOpeners     = 3
)

var personalMarkers = []string{"you", "your", "yours", "yourself"}

var evaluativeMarkers = []string{
	"should", "would", "could", "do you think", "in your opinion", "agree", "to what extent",
	"how important", "why", "better", "worse", "best", "worst", "most", "least",
	"compare", "future", "predict", "believe", "effective", "fair", "right", "wrong",
	"benefit", "advantage", "disadvantage", "responsible", "responsibility", "evaluate", "justify", "worth",
}

// hasWord reports whether text uses any of words, each matched as a whole
// word or phrase.
func hasWord(text string, words []string) bool {
	tokens := sharedctx.Words(text)
	for _, w := range words {
		if sharedctx.MentionedIn(tokens, w) {
			return true
		}
	}
	return false
}

// checkQuestionForm flags questions that are empty, lack a question mark or
// start in lower case, plus duplicates.
func checkQuestionForm(qs []string, r *report) {
	for i, q := range qs {
		switch {
		case strings.TrimSpace(q) == "":
			r.issue("question %d is empty", i+1)
			continue
		case !endsWithQuestionMark(q):
			r.issue("question %d does not end with a question mark", i+1)
		}
		if !startsUpper(q) {
			r.warn("question %d does not start with a capital letter", i+1)
		}
	}
	for _, d := range duplicates(qs) {
		r.issue("duplicate question %q", d)
	}
}

func checkOpenerDiversity(qs []string, r *report) {
	if len(qs) < minDistinctOpeners {
		return
	}
	openers := make(map[string]bool)
	for _, q := range qs {
		openers[firstWord(q)] = true
	}
	if len(openers) < minDistinctOpeners {
		r.warn("low diversity of question openers (%d distinct)", len(openers))
	}
}

func checkTopic(qs []string, c *sharedctx.Context, prior lesson.Sections, r *report, blocking bool) {
	terms := topicTerms(c, prior)
	if len(terms) == 0 {
		return
	}
	if sharedctx.CountMentioned(strings.Join(qs, " "), terms) > 0 {
		return
	}
	if blocking {
		r.issue("no question references the source vocabulary or themes")
	} else {
		r.warn("no question references the source vocabulary or themes")
	}
}

func checkWarmUp(s lesson.WarmUp, c *sharedctx.Context, prior lesson.Sections, r *report) {
	if n := len(s.Questions); n < minOpenQuestions || n > maxOpenQuestions {
		r.issue("warm-up needs %d-%d questions, got %d", minOpenQuestions, maxOpenQuestions, n)
	}
	checkQuestionForm(s.Questions, r)
	checkTopic(s.Questions, c, prior, r, false)
}

func floorWarmUp(s lesson.WarmUp) string {
	if len(s.Questions) == 0 {
		return "no questions"
	}
	return ""
}

// checkDiscussion enforces exactly five questions inside the level's word
// band, a personal first question and an evaluative last one.
func checkDiscussion(s lesson.Discussion, c *sharedctx.Context, prior lesson.Sections, r *report) {
	band := guidanceOf(c).Discussion

	if len(s.Questions) != discussionQuestions {
		r.issue("discussion needs exactly %d questions, got %d", discussionQuestions, len(s.Questions))
	}
	checkQuestionForm(s.Questions, r)
	for i, q := range s.Questions {
		if n := wordCount(q); n > 0 && !band.Contains(n) {
			r.issue("question %d has %d words, expected %d-%d", i+1, n, band.Min, band.Max)
		}
	}

	if len(s.Questions) > 0 && !hasWord(s.Questions[0], personalMarkers) {
		r.issue("question 1 should be personal (address the learner directly)")
	}
	if len(s.Questions) == discussionQuestions && !hasWord(s.Questions[discussionQuestions-1], evaluativeMarkers) {
		r.issue("question %d should be evaluative or abstract", discussionQuestions)
	}

	checkTopic(s.Questions, c, prior, r, true)
	checkOpenerDiversity(s.Questions, r)
}

func floorDiscussion(s lesson.Discussion) string {
	if len(s.Questions) == 0 {
		return "no questions"
	}
	return ""
}

func checkComprehension(s lesson.Comprehension, _ *sharedctx.Context, prior lesson.Sections, r *report) {
	n := len(s.Questions)
	switch {
	case n < minOpenQuestions:
		r.issue("comprehension needs at least %d questions, got %d", minOpenQuestions, n)
	case n != comprehensionQuestions:
		r.warn("comprehension has %d questions, expected %d", n, comprehensionQuestions)
	}

	qs := make([]string, n)
	for i, q := range s.Questions {
		qs[i] = q.Question
		if strings.TrimSpace(q.Answer) == "" {
			r.issue("question %d has no answer", i+1)
		}
	}
	checkQuestionForm(qs, r)

	if _, ok := prior.Reading(); !ok {
		r.warn("no reading passage to check answers against")
	}
}

func floorComprehension(s lesson.Comprehension) string {
	if len(s.Questions) == 0 {
		return "no questions"
	}
	return ""
}

func checkWrapUp(s lesson.WrapUp, _ *sharedctx.Context, _ lesson.Sections, r *report) {
	if strings.TrimSpace(s.Summary) == "" {
		r.issue("wrap-up summary is empty")
	}
	if n := len(s.Questions); n < minOpenQuestions || n > maxOpenQuestions {
		r.issue("wrap-up needs %d-%d questions, got %d", minOpenQuestions, maxOpenQuestions, n)
	}
	checkQuestionForm(s.Questions, r)
	checkOpenerDiversity(s.Questions, r)
}

func floorWrapUp(s lesson.WrapUp) string {
	if len(s.Questions) < minOpenQuestions {
		return "fewer than 3 questions"
	}
	return ""
}
