package regen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
)

// Failure classes reported alongside llm.FailureKind values.
const (
	ClassValidation = "VALIDATION_FAILURE"
	ClassExhausted  = "EXHAUSTED_REGENERATION"
)

// HardFailure is implemented by every error the controller returns for a
// section that cannot ship.
type HardFailure interface {
	error
	FailedSection() lesson.Kind
	Class() string
}

// ValidationFailure means the last candidate is below the section's minimum
// viable payload.
type ValidationFailure struct {
	Section  lesson.Kind
	Attempts int
	Issues   []string
	Err      error
}

func (e *ValidationFailure) Error() string {
	msg := fmt.Sprintf("%s failed validation after %d attempts", e.Section, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Issues) > 0 {
		msg += " (" + strings.Join(e.Issues, "; ") + ")"
	}
	return msg
}

func (e *ValidationFailure) Unwrap() error              { return e.Err }
func (e *ValidationFailure) FailedSection() lesson.Kind { return e.Section }
func (e *ValidationFailure) Class() string              { return ClassValidation }

// GenerationServiceFailure means the last attempt failed in the generation
// service and no earlier candidate exists.
type GenerationServiceFailure struct {
	Section  lesson.Kind
	Kind     llm.FailureKind
	Attempts int
	Err      error
}

func (e *GenerationServiceFailure) Error() string {
	return fmt.Sprintf("%s generation failed (%s) after %d attempts: %v", e.Section, e.Kind, e.Attempts, e.Err)
}

func (e *GenerationServiceFailure) Unwrap() error              { return e.Err }
func (e *GenerationServiceFailure) FailedSection() lesson.Kind { return e.Section }
func (e *GenerationServiceFailure) Class() string              { return string(e.Kind) }

// ExhaustedRegeneration means every attempt was used and none produced a
// parseable candidate.
type ExhaustedRegeneration struct {
	Section  lesson.Kind
	Attempts int
	Err      error
}

func (e *ExhaustedRegeneration) Error() string {
	return fmt.Sprintf("%s produced no usable candidate in %d attempts: %v", e.Section, e.Attempts, e.Err)
}

func (e *ExhaustedRegeneration) Unwrap() error              { return e.Err }
func (e *ExhaustedRegeneration) FailedSection() lesson.Kind { return e.Section }
func (e *ExhaustedRegeneration) Class() string              { return ClassExhausted }

// AsHardFailure extracts the controller failure from err, if any.
func AsHardFailure(err error) (HardFailure, bool) {
	var (
		vf  *ValidationFailure
		gsf *GenerationServiceFailure
		er  *ExhaustedRegeneration
	)
	switch {
	case errors.As(err, &vf):
		return vf, true
	case errors.As(err, &gsf):
		return gsf, true
	case errors.As(err, &er):
		return er, true
	}
	return nil, false
}
