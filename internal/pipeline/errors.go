package pipeline

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/regen"
)

// ClassCancelled marks a lesson stopped by its context between sections.
const ClassCancelled = "CANCELLED"

// LessonError is a lesson-level hard failure. It names the section that
// could not ship and what was finished before it.
type LessonError struct {
	LessonID string
	Section  lesson.Kind

	// Class is VALIDATION_FAILURE, EXHAUSTED_REGENERATION, CANCELLED or
	// one of the llm.FailureKind values.
	Class string

	// Kind is set for generation service failures.
	Kind llm.FailureKind

	Completed []lesson.Kind
	Err       error
}

func (e *LessonError) Error() string {
	msg := fmt.Sprintf("lesson failed at %s section (%s)", e.Section, e.Class)
	if len(e.Completed) > 0 {
		done := make([]string, len(e.Completed))
		for i, k := range e.Completed {
			done[i] = string(k)
		}
		msg += "; completed: " + strings.Join(done, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LessonError) Unwrap() error { return e.Err }

// lessonError wraps a controller failure with the lesson's progress.
func lessonError(id string, k lesson.Kind, done lesson.Sections, err error) *LessonError {
	le := &LessonError{LessonID: id, Section: k, Completed: done.Kinds(), Err: err}
	if hf, ok := regen.AsHardFailure(err); ok {
		le.Class = hf.Class()
		if gsf, ok := hf.(*regen.GenerationServiceFailure); ok {
			le.Kind = gsf.Kind
		}
		return le
	}
	le.Class = ClassCancelled
	if !isCancellation(err) {
		le.Kind = llm.Classify(err)
		le.Class = string(le.Kind)
	}
	return le
}
