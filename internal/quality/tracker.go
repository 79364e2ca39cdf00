// Package quality accumulates per-section generation metrics into a lesson
// quality report.
package quality

import (
	"sync"
	"time"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// Section weights in the overall score.
const (
	FocusWeight   = 2.0
	DefaultWeight = 1.0
	TitleWeight   = 0.5
)

// Outcomes match the terminal regeneration states.
const (
	OutcomeAccepted  = "accepted"
	OutcomeExhausted = "exhausted"
)

// Record is the outcome of one section.
type Record struct {
	Section     lesson.Kind   `json:"section"`
	Score       int           `json:"score"`
	Attempts    int           `json:"attempts"`
	Duration    time.Duration `json:"-"`
	DurationMs  int64         `json:"duration_ms"`
	Issues      int           `json:"issues"`
	Warnings    int           `json:"warnings"`
	Regenerated bool          `json:"regenerated"`

	// Outcome is the regeneration state the section ended in.
	Outcome string `json:"outcome"`

	// Notes are warning messages worth surfacing to the caller.
	Notes []string `json:"notes,omitempty"`
}

// Report aggregates the records of one lesson.
type Report struct {
	LessonID        string   `json:"lesson_id"`
	LessonType      string   `json:"lesson_type"`
	OverallScore    float64  `json:"overall_score"`
	TotalDurationMs int64    `json:"total_duration_ms"`
	Regenerations   int      `json:"regenerations"`
	Exhausted       int      `json:"exhausted"`
	Sections        []Record `json:"sections"`
}

// Tracker collects records for one lesson at a time. Reset starts a new
// lesson and discards everything recorded before it.
type Tracker struct {
	mu         sync.Mutex
	lessonID   string
	lessonType lesson.Type
	started    time.Time
	records    []Record
	now        func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Reset begins tracking lessonID.
func (t *Tracker) Reset(lessonID string, typ lesson.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lessonID = lessonID
	t.lessonType = typ
	t.started = t.now()
	t.records = nil
}

// Record adds the metrics of one section.
func (t *Tracker) Record(r Record) {
	if r.DurationMs == 0 && r.Duration > 0 {
		r.DurationMs = r.Duration.Milliseconds()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Report summarises the records since the last Reset.
func (t *Tracker) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	rep := Report{
		LessonID:   t.lessonID,
		LessonType: string(t.lessonType),
		Sections:   append([]Record(nil), t.records...),
	}
	if !t.started.IsZero() {
		rep.TotalDurationMs = t.now().Sub(t.started).Milliseconds()
	}

	var sum, weights float64
	for _, r := range t.records {
		w := t.weight(r.Section)
		sum += w * float64(r.Score)
		weights += w
		if r.Attempts > 1 {
			rep.Regenerations += r.Attempts - 1
		}
		if r.Outcome == OutcomeExhausted {
			rep.Exhausted++
		}
	}
	if weights > 0 {
		rep.OverallScore = round1(sum / weights)
	}
	return rep
}

func (t *Tracker) weight(k lesson.Kind) float64 {
	switch {
	case k == lesson.KindTitle:
		return TitleWeight
	case t.lessonType.IsFocus(k):
		return FocusWeight
	}
	return DefaultWeight
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}
