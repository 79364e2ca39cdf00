// Package validate checks candidate sections against their structural and
// level contracts. Validators are pure: the same section and context always
// produce the same Result.
package validate

import (
	"fmt"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/sharedctx"
)

const (
	issuePenalty   = 15
	warningPenalty = 4
)

// Result is the verdict for one candidate. Issues block acceptance;
// warnings only lower the score.
type Result struct {
	Valid    bool     `json:"valid"`
	Score    int      `json:"score"`
	Issues   []string `json:"issues,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Validator checks one section kind.
type Validator interface {
	Kind() lesson.Kind

	// Validate checks s against its contract. prior holds sections accepted
	// before s; c may be nil, in which case level and topic checks use
	// defaults and are skipped respectively.
	Validate(s lesson.Section, c *sharedctx.Context, prior lesson.Sections) Result

	// MinimumViable reports whether s is usable at all. A section that
	// fails it cannot ship even after regeneration is exhausted.
	MinimumViable(s lesson.Section) error
}

// MinimumError is returned by MinimumViable.
type MinimumError struct {
	Kind   lesson.Kind
	Reason string
}

func (e *MinimumError) Error() string {
	return fmt.Sprintf("%s section unusable: %s", e.Kind, e.Reason)
}

type report struct {
	issues   []string
	warnings []string
}

func (r *report) issue(format string, args ...any) {
	r.issues = append(r.issues, fmt.Sprintf(format, args...))
}

func (r *report) warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *report) result() Result {
	score := 100 - issuePenalty*len(r.issues) - warningPenalty*len(r.warnings)
	return Result{
		Valid:    len(r.issues) == 0,
		Score:    max(0, min(100, score)),
		Issues:   r.issues,
		Warnings: r.warnings,
	}
}

// typed adapts kind-specific check functions to Validator.
type typed[T lesson.Section] struct {
	kind  lesson.Kind
	check func(s T, c *sharedctx.Context, prior lesson.Sections, r *report)
	floor func(s T) string
}

func (v typed[T]) Kind() lesson.Kind { return v.kind }

func (v typed[T]) Validate(s lesson.Section, c *sharedctx.Context, prior lesson.Sections) Result {
	var r report
	t, ok := v.cast(s)
	if !ok {
		r.issue("expected a %s section, got %T", v.kind, s)
		return r.result()
	}
	v.check(t, c, prior, &r)
	return r.result()
}

func (v typed[T]) MinimumViable(s lesson.Section) error {
	t, ok := v.cast(s)
	if !ok {
		return &MinimumError{Kind: v.kind, Reason: fmt.Sprintf("wrong payload type %T", s)}
	}
	if v.floor == nil {
		return nil
	}
	if reason := v.floor(t); reason != "" {
		return &MinimumError{Kind: v.kind, Reason: reason}
	}
	return nil
}

func (v typed[T]) cast(s lesson.Section) (T, bool) {
	t, ok := s.(T)
	if ok && s.Kind() != v.kind {
		return t, false
	}
	return t, ok
}

// Registry maps every section kind to its validator.
type Registry struct {
	validators map[lesson.Kind]Validator
}

// NewRegistry returns validators for all kinds.
func NewRegistry() *Registry {
	r := &Registry{validators: make(map[lesson.Kind]Validator, len(lesson.GenerationOrder))}
	for _, k := range lesson.GenerationOrder {
		r.validators[k] = forKind(k)
	}
	return r
}

// For returns the validator for k.
func (r *Registry) For(k lesson.Kind) (Validator, bool) {
	v, ok := r.validators[k]
	return v, ok
}

// Validate dispatches on the section's kind.
func (r *Registry) Validate(s lesson.Section, c *sharedctx.Context, prior lesson.Sections) Result {
	v, ok := r.For(s.Kind())
	if !ok {
		var rep report
		rep.issue("unknown section kind %q", s.Kind())
		return rep.result()
	}
	return v.Validate(s, c, prior)
}

func forKind(k lesson.Kind) Validator {
	switch k {
	case lesson.KindWarmUp:
		return typed[lesson.WarmUp]{kind: k, check: checkWarmUp, floor: floorWarmUp}
	case lesson.KindVocabulary:
		return typed[lesson.Vocabulary]{kind: k, check: checkVocabulary, floor: floorVocabulary}
	case lesson.KindReading:
		return typed[lesson.Reading]{kind: k, check: checkReading, floor: floorReading}
	case lesson.KindComprehension:
		return typed[lesson.Comprehension]{kind: k, check: checkComprehension, floor: floorComprehension}
	case lesson.KindDiscussion:
		return typed[lesson.Discussion]{kind: k, check: checkDiscussion, floor: floorDiscussion}
	case lesson.KindDialoguePractice, lesson.KindDialogueFillGap:
		return typed[lesson.Dialogue]{kind: k, check: checkDialogue, floor: floorDialogue}
	case lesson.KindGrammar:
		return typed[lesson.Grammar]{kind: k, check: checkGrammar, floor: floorGrammar}
	case lesson.KindPronunciation:
		return typed[lesson.Pronunciation]{kind: k, check: checkPronunciation, floor: floorPronunciation}
	case lesson.KindWrapUp:
		return typed[lesson.WrapUp]{kind: k, check: checkWrapUp, floor: floorWrapUp}
	case lesson.KindTitle:
		return typed[lesson.Title]{kind: k, check: checkTitle, floor: floorTitle}
	}
	panic(fmt.Sprintf("validate: no validator for kind %q", k))
}
