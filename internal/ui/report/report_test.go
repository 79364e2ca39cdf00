package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/store"
)

func TestQuality(t *testing.T) {
	out := Quality("Melting Ice", quality.Report{
		LessonID:        "lesson-1",
		LessonType:      "discussion",
		OverallScore:    82.4,
		TotalDurationMs: 1500,
		Regenerations:   1,
		Exhausted:       1,
		Sections: []quality.Record{
			{Section: lesson.KindWarmUp, Score: 96, Attempts: 1, Outcome: quality.OutcomeAccepted},
			{Section: lesson.KindGrammar, Score: 70, Attempts: 2, Outcome: quality.OutcomeExhausted,
				Notes: []string{"accepted after 2 attempts without passing validation"}},
		},
	})

	assert.Contains(t, out, "Melting Ice")
	assert.Contains(t, out, "warm_up")
	assert.Contains(t, out, "grammar")
	assert.Contains(t, out, "82.4")
	assert.Contains(t, out, "1 regenerations")
	assert.Contains(t, out, "accepted after 2 attempts")
}

func TestFailure(t *testing.T) {
	out := Failure(&pipeline.LessonError{
		Section:   lesson.KindWrapUp,
		Class:     "VALIDATION_FAILURE",
		Completed: []lesson.Kind{lesson.KindWarmUp},
		Err:       errors.New("wrap_up section unusable"),
	})
	assert.Contains(t, out, "Lesson failed at wrap_up")
	assert.Contains(t, out, "VALIDATION_FAILURE")
	assert.Contains(t, out, "warm_up")
}

func TestRuns(t *testing.T) {
	assert.Contains(t, Runs(nil), "No lesson runs")

	out := Runs([]store.RunRecord{
		{LessonID: "a", LessonType: "grammar", Level: "B1", Status: store.RunSucceeded, OverallScore: 91, CreatedAt: time.Now()},
		{LessonID: "b", LessonType: "travel", Level: "A2", Status: store.RunFailed, FailureClass: "QUOTA", FailedSection: "reading", CreatedAt: time.Now()},
	})
	assert.Contains(t, out, "grammar")
	assert.Contains(t, out, "QUOTA at reading")
}
