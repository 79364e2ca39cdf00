package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/sharedctx"
	"github.com/abhisek/lessonforge/internal/validate"
)

// CheckFormat reports whether a stored lesson can be read by this build.
// Lessons are compatible when their major format version matches.
func CheckFormat(version string) error {
	if !semver.IsValid(version) {
		return fmt.Errorf("lesson format version %q is not a semantic version", version)
	}
	if semver.Major(version) != semver.Major(lesson.FormatVersion) {
		return fmt.Errorf("lesson format %s is incompatible with %s", version, lesson.FormatVersion)
	}
	return nil
}

// SectionCheck is the re-validation verdict for one stored section.
type SectionCheck struct {
	Section lesson.Kind     `json:"section"`
	Result  validate.Result `json:"result"`

	// Unusable is set when the section fails its minimum-viable floor.
	Unusable string `json:"unusable,omitempty"`
}

// Inspect re-runs the validators over a stored lesson in order, each
// section seeing only the sections before it. Sections are checked against
// the lesson's stored topics; older lessons without them fall back to a
// context rebuilt from the reading passage.
func Inspect(ctx context.Context, l *lesson.Lesson, log *logger.Logger) ([]SectionCheck, error) {
	if err := CheckFormat(l.FormatVersion); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	var passage string
	if r, ok := l.Sections.Reading(); ok {
		passage = r.Passage
	}
	in := sharedctx.Input{
		SourceText:     passage,
		LessonType:     l.LessonType,
		Level:          l.Level,
		TargetLanguage: l.TargetLanguage,
	}

	var sc *sharedctx.Context
	switch {
	case l.Topics != nil:
		sc = sharedctx.Restore(in, *l.Topics)
	case strings.TrimSpace(passage) != "":
		log.Debug("lesson has no stored topics, rebuilding from the reading passage", "lesson_id", l.ID)
		c, err := sharedctx.NewBuilder(nil, log).Build(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("rebuild shared context: %w", err)
		}
		sc = c
	}

	validators := validate.NewRegistry()
	var prior lesson.Sections
	checks := make([]SectionCheck, 0, l.Sections.Len())
	for _, s := range l.Sections.All() {
		check := SectionCheck{
			Section: s.Kind(),
			Result:  validators.Validate(s, sc, prior),
		}
		if v, ok := validators.For(s.Kind()); ok {
			if err := v.MinimumViable(s); err != nil {
				check.Unusable = err.Error()
			}
		}
		checks = append(checks, check)
		prior.Set(s)
	}
	return checks, nil
}
