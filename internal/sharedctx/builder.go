package sharedctx

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/logger"
)

// MaxThemes caps the merged theme list.
const MaxThemes = 6

// Input carries the request fields the builder needs.
type Input struct {
	SourceText     string
	LessonType     lesson.Type
	Level          cefr.Level
	TargetLanguage string
	SourceLanguage string
}

// ThemeExtractor proposes thematic tags for a text. Implementations may call
// a remote service; the builder treats any error as "no extra themes".
type ThemeExtractor interface {
	ExtractThemes(ctx context.Context, text string, level cefr.Level, target string) ([]string, error)
}

// Builder builds a Context once per lesson request.
type Builder struct {
	extractor ThemeExtractor
	log       *logger.Logger
}

// NewBuilder returns a Builder. extractor may be nil for a purely local
// analysis.
func NewBuilder(extractor ThemeExtractor, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{extractor: extractor, log: log}
}

// Build analyzes the source text. It only fails on invalid input; weak or
// empty analysis results produce empty lists.
func (b *Builder) Build(ctx context.Context, in Input) (*Context, error) {
	if strings.TrimSpace(in.SourceText) == "" {
		return nil, errors.New("build shared context: source text is empty")
	}
	if !in.Level.Valid() {
		return nil, fmt.Errorf("build shared context: unknown CEFR level %q", in.Level)
	}

	text, err := Normalize(in.SourceText)
	if err != nil {
		return nil, fmt.Errorf("build shared context: %w", err)
	}

	g := cefr.For(in.Level)
	tokens := tokenize(text)

	c := &Context{
		level:      in.Level,
		lessonType: in.LessonType,
		vocabulary: keyVocabulary(tokens, g.KeyVocab),
		themes:     detectThemes(tokens),
		languages:  LanguagePair{Source: in.SourceLanguage, Target: in.TargetLanguage},
		difficulty: measureDifficulty(text, tokens),
		raw:        in.SourceText,
		text:       text,
	}

	if b.extractor != nil {
		extra, err := b.extractor.ExtractThemes(ctx, text, in.Level, in.TargetLanguage)
		if err != nil {
			b.log.Warn("theme extraction failed, using local themes", "error", err.Error())
		} else {
			c.themes = mergeThemes(c.themes, extra)
		}
	}

	b.log.Debug("shared context built",
		"level", in.Level,
		"vocabulary", len(c.vocabulary),
		"themes", c.themes,
		"difficulty", c.difficulty.Label,
	)
	return c, nil
}

// Restore recreates a Context from stored topics instead of analyzing the
// source again. in.SourceText only feeds the difficulty signal and may be
// empty.
func Restore(in Input, topics lesson.Topics) *Context {
	text, err := Normalize(in.SourceText)
	if err != nil {
		text = cleanWhitespace(in.SourceText)
	}
	return &Context{
		level:      in.Level,
		lessonType: in.LessonType,
		vocabulary: lowerAll(topics.Vocabulary),
		themes:     lowerAll(topics.Themes),
		languages:  LanguagePair{Source: in.SourceLanguage, Target: in.TargetLanguage},
		difficulty: measureDifficulty(text, tokenize(text)),
		raw:        in.SourceText,
		text:       text,
	}
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" && !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

func mergeThemes(local, extra []string) []string {
	out := slices.Clone(local)
	for _, t := range extra {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	if len(out) > MaxThemes {
		out = out[:MaxThemes]
	}
	return out
}
