// Package report renders lesson quality reports and run history for the
// terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/store"
	"github.com/abhisek/lessonforge/internal/ui/components"
	"github.com/abhisek/lessonforge/internal/ui/theme"
)

const (
	sectionCol = 20
	scoreCol   = 7
	triesCol   = 8
	outcomeCol = 10
	barWidth   = 40
)

// Quality renders the report of a finished lesson under its title.
func Quality(title string, r quality.Report) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(fmt.Sprintf("%s · %s · %s",
		r.LessonID, r.LessonType, time.Duration(r.TotalDurationMs)*time.Millisecond)))
	b.WriteString("\n\n")

	b.WriteString(components.NewScoreBar("Overall", r.OverallScore, true, barWidth).View())
	b.WriteString("\n\n")

	b.WriteString(row(
		theme.Label, "Section", "Score", "Attempts", "Outcome",
	))
	var notes []string
	for _, rec := range r.Sections {
		b.WriteString("\n")
		b.WriteString(sectionRow(rec))
		for _, n := range rec.Notes {
			notes = append(notes, fmt.Sprintf("%s: %s", rec.Section, n))
		}
	}

	b.WriteString("\n\n")
	summary := fmt.Sprintf("%d regenerations, %d sections shipped without passing validation",
		r.Regenerations, r.Exhausted)
	b.WriteString(theme.Label.Render(summary))

	if len(notes) > 0 {
		b.WriteString("\n")
		for _, n := range notes {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("• " + n))
		}
	}

	return theme.Card.Render(b.String())
}

func sectionRow(rec quality.Record) string {
	outcome := theme.Good
	if rec.Outcome == quality.OutcomeExhausted {
		outcome = theme.Fair
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Body.Width(sectionCol).Render(string(rec.Section)),
		theme.ForScore(float64(rec.Score)).Width(scoreCol).Render(fmt.Sprintf("%d", rec.Score)),
		theme.Body.Width(triesCol).Render(fmt.Sprintf("%d", rec.Attempts)),
		outcome.Width(outcomeCol).Render(rec.Outcome),
	)
}

func row(style lipgloss.Style, section, score, tries, outcome string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Width(sectionCol).Render(section),
		style.Width(scoreCol).Render(score),
		style.Width(triesCol).Render(tries),
		style.Width(outcomeCol).Render(outcome),
	)
}

// Failure renders a lesson-level hard failure.
func Failure(err *pipeline.LessonError) string {
	var b strings.Builder
	b.WriteString(theme.Bad.Render(fmt.Sprintf("Lesson failed at %s", err.Section)))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("classification: ") + theme.Body.Render(err.Class))

	done := make([]string, len(err.Completed))
	for i, k := range err.Completed {
		done[i] = string(k)
	}
	if len(done) == 0 {
		done = []string{"none"}
	}
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("completed: ") + theme.Body.Render(strings.Join(done, ", ")))

	if err.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(err.Err.Error()))
	}
	return theme.FailureCard.Render(b.String())
}

// Runs renders run history, newest first.
func Runs(runs []store.RunRecord) string {
	if len(runs) == 0 {
		return theme.Hint.Render("No lesson runs recorded yet.")
	}

	const (
		whenCol   = 18
		idCol     = 38
		typeCol   = 15
		statusCol = 11
	)
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Label.Width(whenCol).Render("When"),
		theme.Label.Width(idCol).Render("Lesson"),
		theme.Label.Width(typeCol).Render("Type"),
		theme.Label.Width(6).Render("Level"),
		theme.Label.Width(statusCol).Render("Status"),
		theme.Label.Render("Score"),
	)

	lines := []string{header}
	for _, r := range runs {
		status := theme.Good
		score := theme.ForScore(r.OverallScore).Render(fmt.Sprintf("%.1f", r.OverallScore))
		if r.Status == store.RunFailed {
			status = theme.Bad
			score = theme.Hint.Render(fmt.Sprintf("%s at %s", r.FailureClass, r.FailedSection))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			theme.Body.Width(whenCol).Render(r.CreatedAt.Local().Format("2006-01-02 15:04")),
			theme.Body.Width(idCol).Render(r.LessonID),
			theme.Body.Width(typeCol).Render(r.LessonType),
			theme.Body.Width(6).Render(r.Level),
			status.Width(statusCol).Render(r.Status),
			score,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
