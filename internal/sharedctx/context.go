// Package sharedctx builds the per-request context every section generator
// reads: level, key vocabulary, themes, language pair and a difficulty
// signal derived from the source text.
package sharedctx

import (
	"slices"
	"strings"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
)

// LanguagePair is the learner's source language and the language taught.
type LanguagePair struct {
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
}

// Difficulty is a lexical/syntactic complexity estimate of the source.
type Difficulty struct {
	Score             float64 `json:"score"` // 0 (easy) .. 1 (hard)
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
	LongWordRatio     float64 `json:"long_word_ratio"`
	Label             string  `json:"label"`
}

// Context is read-only after Build returns. Accessors hand out copies.
type Context struct {
	level      cefr.Level
	lessonType lesson.Type
	vocabulary []string
	themes     []string
	languages  LanguagePair
	difficulty Difficulty
	raw        string
	text       string
}

func (c *Context) Level() cefr.Level       { return c.level }
func (c *Context) LessonType() lesson.Type { return c.lessonType }
func (c *Context) Languages() LanguagePair { return c.languages }
func (c *Context) Difficulty() Difficulty  { return c.difficulty }
func (c *Context) RawText() string         { return c.raw }
func (c *Context) Text() string            { return c.text }
func (c *Context) Guidance() cefr.Guidance { return cefr.For(c.level) }
func (c *Context) Vocabulary() []string    { return slices.Clone(c.vocabulary) }
func (c *Context) Themes() []string        { return slices.Clone(c.themes) }

// TopicTerms returns vocabulary and themes together, deduplicated.
func (c *Context) TopicTerms() []string {
	out := make([]string, 0, len(c.vocabulary)+len(c.themes))
	seen := make(map[string]bool)
	for _, t := range append(slices.Clone(c.vocabulary), c.themes...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Excerpt returns at most n words of the normalized text.
func (c *Context) Excerpt(n int) string {
	words := strings.Fields(c.text)
	if len(words) <= n {
		return c.text
	}
	return strings.Join(words[:n], " ") + " …"
}
