// Package sections turns a shared context into individual lesson sections,
// one prompt/response cycle per section.
package sections

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

// Generator produces one candidate section of a fixed kind.
type Generator interface {
	Kind() lesson.Kind

	// Generate makes one attempt. A response that cannot be parsed into the
	// section shape is reported as *ParseError; service failures are
	// returned wrapped and classify with llm.Classify.
	Generate(ctx context.Context, in Input) (lesson.Section, error)
}

// Input is everything a generator may read. None of it is modified.
type Input struct {
	Context *sharedctx.Context

	// Prior holds the sections accepted so far, in generation order.
	Prior lesson.Sections

	// Metadata is the extraction result, when the caller has one.
	Metadata *lesson.Extraction

	// Attempt is 1-based. PreviousIssues carries the validation issues of
	// the previous attempt so the prompt can address them.
	Attempt        int
	PreviousIssues []string
}

// ParseError means the response matched neither the JSON contract nor the
// labelled-line fallback.
type ParseError struct {
	Kind lesson.Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Set holds one generator per section kind.
type Set struct {
	gens  map[lesson.Kind]Generator
	title *TitleGenerator
}

// NewSet builds generators for every section kind.
func NewSet(client *llm.Client, cfg Config, log *logger.Logger) *Set {
	if log == nil {
		log = logger.Nop()
	}
	b := &base{client: client, cfg: cfg, log: log}

	s := &Set{gens: make(map[lesson.Kind]Generator, len(lesson.GenerationOrder))}
	for _, k := range lesson.GenerationOrder {
		g := newGenerator(k, b)
		s.gens[k] = g
		if t, ok := g.(*TitleGenerator); ok {
			s.title = t
		}
	}
	return s
}

func newGenerator(k lesson.Kind, b *base) Generator {
	switch k {
	case lesson.KindWarmUp:
		return &WarmUpGenerator{b}
	case lesson.KindVocabulary:
		return &VocabularyGenerator{b}
	case lesson.KindReading:
		return &ReadingGenerator{b}
	case lesson.KindComprehension:
		return &ComprehensionGenerator{b}
	case lesson.KindDiscussion:
		return &DiscussionGenerator{b}
	case lesson.KindDialoguePractice:
		return &DialogueGenerator{base: b, variant: lesson.VariantPractice}
	case lesson.KindDialogueFillGap:
		return &DialogueGenerator{base: b, variant: lesson.VariantFillGap}
	case lesson.KindGrammar:
		return &GrammarGenerator{b}
	case lesson.KindPronunciation:
		return &PronunciationGenerator{b}
	case lesson.KindWrapUp:
		return &WrapUpGenerator{b}
	case lesson.KindTitle:
		return &TitleGenerator{b}
	}
	panic(fmt.Sprintf("sections: no generator for kind %q", k))
}

// For returns the generator for k.
func (s *Set) For(k lesson.Kind) (Generator, bool) {
	g, ok := s.gens[k]
	return g, ok
}

// Title returns the title generator, which never fails.
func (s *Set) Title() *TitleGenerator { return s.title }

type base struct {
	client *llm.Client
	cfg    Config
	log    *logger.Logger
}

// complete runs one call for kind. A schema mismatch from the provider is
// not a service failure here: its raw text is handed back so the tolerant
// parser gets a chance at it.
func (b *base) complete(ctx context.Context, kind lesson.Kind, in Input, prompt string, schema *llm.Schema) (string, error) {
	ctx = llm.WithPurpose(ctx, "section:"+string(kind))

	resp, err := b.client.Generate(ctx, withIssues(prompt, in), llm.GenerateOptions{
		MaxOutputTokens: b.cfg.budget(kind),
		Temperature:     b.cfg.temperature(in.Attempt),
		System:          systemPrompt,
		Schema:          schema,
	})
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) && len(invalid.Content) > 0 {
			b.log.Debug("schema mismatch, trying tolerant parse", "section", kind, "error", err.Error())
			return string(invalid.Content), nil
		}
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}

	if resp.Truncated {
		b.log.Warn("section response truncated", "section", kind, "budget", resp.Budget)
	}
	return resp.Text, nil
}
