package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int    // max results (0 = unlimited)
	After    int64  // sequence > After
	Before   int64  // sequence < Before
	Purpose  string // exact purpose match
	LessonID string // events issued while generating this lesson
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	LessonID     string
	Provider     string
	Model        string
	Purpose      string
	MaxTokens    int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	Truncated    bool
	FailureKind  string
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage per purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage per model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo is the append-mostly LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// Run statuses.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// RunRecord is one lesson generation attempt and its quality report.
type RunRecord struct {
	ID             int64
	Sequence       int64
	CreatedAt      time.Time
	LessonID       string
	LessonType     string
	Level          string
	TargetLanguage string
	Title          string
	Status         string
	FailedSection  string
	FailureClass   string
	OverallScore   float64
	Regenerations  int
	DurationMs     int64

	// Report is the JSON-encoded quality report.
	Report json.RawMessage
}

// RunRepo stores lesson run history.
type RunRepo interface {
	SaveRun(ctx context.Context, run *RunRecord) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// GetRun looks a run up by lesson ID. Returns nil if none exists.
	GetRun(ctx context.Context, lessonID string) (*RunRecord, error)

	// Prune deletes all but the N most recent runs.
	Prune(ctx context.Context, keep int) error
}
