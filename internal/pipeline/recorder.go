package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/store"
)

// Run is one finished lesson generation. Exactly one of Lesson and Err is
// set.
type Run struct {
	Request  lesson.Request
	LessonID string
	Lesson   *lesson.Lesson
	Report   quality.Report
	Err      *LessonError
	Duration time.Duration
}

// RunRecorder persists runs. Errors are logged, never returned to the
// lesson caller.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// StoreRecorder writes runs to the lesson_runs table.
type StoreRecorder struct {
	repo store.RunRepo
}

// NewStoreRecorder returns a recorder backed by repo.
func NewStoreRecorder(repo store.RunRepo) *StoreRecorder {
	return &StoreRecorder{repo: repo}
}

func (r *StoreRecorder) RecordRun(ctx context.Context, run Run) error {
	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("encode quality report: %w", err)
	}

	rec := &store.RunRecord{
		LessonID:       run.LessonID,
		LessonType:     string(run.Request.LessonType),
		Level:          string(run.Request.Level),
		TargetLanguage: run.Request.TargetLanguage,
		Status:         store.RunSucceeded,
		OverallScore:   run.Report.OverallScore,
		Regenerations:  run.Report.Regenerations,
		DurationMs:     run.Duration.Milliseconds(),
		Report:         report,
	}
	if run.Lesson != nil {
		rec.LessonID = run.Lesson.ID
		rec.Title = run.Lesson.Title
	}
	if run.Err != nil {
		rec.LessonID = run.Err.LessonID
		rec.Status = store.RunFailed
		rec.FailedSection = string(run.Err.Section)
		rec.FailureClass = run.Err.Class
	}
	return r.repo.SaveRun(ctx, rec)
}
