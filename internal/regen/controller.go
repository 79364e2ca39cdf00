// Package regen runs one section generator and its validator in a bounded
// regenerate-on-failure loop.
package regen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/sections"
	"github.com/abhisek/lessonforge/internal/validate"
)

// DefaultMaxAttempts bounds generation attempts per section.
const DefaultMaxAttempts = 2

// Outcome is a section that may ship, with what it took to get it.
type Outcome struct {
	Section  lesson.Section
	Result   validate.Result
	State    State
	Attempts int
	Duration time.Duration

	// Warnings are the controller's own notes, such as accepting a
	// candidate that never passed validation.
	Warnings []string

	// Trace lists every state entered, starting with Idle.
	Trace []State
}

// Regenerated reports whether more than one attempt was made.
func (o *Outcome) Regenerated() bool { return o.Attempts > 1 }

// Controller drives the state machine. It holds no per-section state and
// is safe to share.
type Controller struct {
	maxAttempts int
	validators  *validate.Registry
	log         *logger.Logger
}

// NewController returns a controller. maxAttempts <= 0 selects
// DefaultMaxAttempts.
func NewController(validators *validate.Registry, maxAttempts int, log *logger.Logger) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if validators == nil {
		validators = validate.NewRegistry()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{maxAttempts: maxAttempts, validators: validators, log: log}
}

// MaxAttempts returns the attempt cap.
func (c *Controller) MaxAttempts() int { return c.maxAttempts }

// run is the loop state for one Run call.
type run struct {
	kind      lesson.Kind
	attempt   int
	candidate lesson.Section
	result    validate.Result
	issues    []string
	lastErr   error
	trace     []State
}

func (r *run) enter(s State) State {
	r.trace = append(r.trace, s)
	return s
}

// Run generates gen's section. It returns an Outcome in state Accepted or
// Exhausted, or a HardFailure. Cancellation of ctx is returned as is.
func (c *Controller) Run(ctx context.Context, gen sections.Generator, in sections.Input) (*Outcome, error) {
	start := time.Now()
	r := &run{kind: gen.Kind()}
	log := c.log.With("section", string(r.kind))

	validator, ok := c.validators.For(r.kind)
	if !ok {
		return nil, fmt.Errorf("no validator for section %q", r.kind)
	}

	state := r.enter(Idle)
	for !state.Terminal() {
		switch state {
		case Idle, Retrying:
			state = r.enter(Generating)

		case Generating:
			r.attempt++
			in.Attempt = r.attempt
			in.PreviousIssues = r.issues

			s, err := gen.Generate(ctx, in)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				r.lastErr = err
				var pe *sections.ParseError
				if errors.As(err, &pe) {
					r.issues = []string{pe.Error()}
				}
				log.Warn("section attempt failed",
					"attempt", r.attempt,
					"failure", failureClass(err),
					"error", err.Error(),
				)
				state = r.enter(c.next(r))
				continue
			}
			r.candidate = s
			r.lastErr = nil
			state = r.enter(Validating)

		case Validating:
			r.result = c.validators.Validate(r.candidate, in.Context, in.Prior)
			if r.result.Valid {
				state = r.enter(Accepted)
				continue
			}
			r.issues = r.result.Issues
			log.Info("section failed validation",
				"attempt", r.attempt,
				"score", r.result.Score,
				"issues", len(r.result.Issues),
			)
			state = r.enter(c.next(r))
		}
	}

	out := &Outcome{
		Section:  r.candidate,
		Result:   r.result,
		State:    state,
		Attempts: r.attempt,
		Trace:    r.trace,
	}

	if state == Exhausted {
		if err := c.exhausted(r, validator); err != nil {
			log.Error("section cannot ship", "attempts", r.attempt, "error", err.Error())
			return nil, err
		}
		out.Warnings = append(out.Warnings, exhaustionWarning(r))
		log.Warn("section accepted without passing validation",
			"attempts", r.attempt,
			"score", r.result.Score,
		)
	} else if out.Regenerated() {
		log.Info("section accepted after regeneration", "attempts", r.attempt, "score", r.result.Score)
	}

	out.Duration = time.Since(start)
	return out, nil
}

func (c *Controller) next(r *run) State {
	if r.attempt < c.maxAttempts {
		return Retrying
	}
	return Exhausted
}

// exhausted decides whether the last candidate may ship.
func (c *Controller) exhausted(r *run, v validate.Validator) error {
	if r.candidate == nil {
		var pe *sections.ParseError
		if r.lastErr != nil && !errors.As(r.lastErr, &pe) {
			return &GenerationServiceFailure{
				Section:  r.kind,
				Kind:     llm.Classify(r.lastErr),
				Attempts: r.attempt,
				Err:      r.lastErr,
			}
		}
		return &ExhaustedRegeneration{Section: r.kind, Attempts: r.attempt, Err: r.lastErr}
	}
	if err := v.MinimumViable(r.candidate); err != nil {
		return &ValidationFailure{
			Section:  r.kind,
			Attempts: r.attempt,
			Issues:   r.result.Issues,
			Err:      err,
		}
	}
	return nil
}

func exhaustionWarning(r *run) string {
	msg := fmt.Sprintf("accepted after %d attempts without passing validation", r.attempt)
	if r.lastErr != nil {
		msg += fmt.Sprintf("; last attempt failed: %v", r.lastErr)
	}
	if n := len(r.result.Issues); n > 0 {
		msg += fmt.Sprintf("; %d open issues", n)
	}
	return msg
}

// failureClass names why an attempt produced no candidate.
func failureClass(err error) string {
	var pe *sections.ParseError
	if errors.As(err, &pe) {
		return ClassValidation
	}
	return string(llm.Classify(err))
}
