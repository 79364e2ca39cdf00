package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"llm_request_events", "lesson_runs", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "section:reading", Success: true,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	events, err := s.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for range 5 {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		seqs = append(seqs, seq)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seqs)
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{LessonID: "l1", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section:warm_up", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{LessonID: "l1", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "section:dialogue", MaxTokens: 60, Success: false, FailureKind: "MAX_TOKENS_NO_CONTENT", ErrorMessage: "no content"},
		{LessonID: "l2", Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "section:warm_up", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, Truncated: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "l2", all[0].LessonID, "newest first")
	assert.True(t, all[0].Truncated)

	byLesson, err := repo.QueryLLMEvents(ctx, QueryOpts{LessonID: "l1"})
	require.NoError(t, err)
	assert.Len(t, byLesson, 2)

	byPurpose, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "section:warm_up", Limit: 1})
	require.NoError(t, err)
	require.Len(t, byPurpose, 1)
	assert.Equal(t, "gemini-2.5-pro", byPurpose[0].Model)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 1)

	got, err := repo.GetLLMEvent(ctx, all[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "MAX_TOKENS_NO_CONTENT", got.FailureKind)
	assert.False(t, got.Success)
	assert.Equal(t, 60, got.MaxTokens)

	missing, err := repo.GetLLMEvent(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "section:grammar", InputTokens: 100, OutputTokens: 40, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "section:grammar", InputTokens: 50, OutputTokens: 10, LatencyMs: 300, Success: false},
		{Provider: "openai", Model: "gpt-4o", Purpose: "themes", InputTokens: 20, OutputTokens: 5, LatencyMs: 50, Success: true},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{
		Purpose: "section:grammar", Calls: 2, Failures: 1,
		InputTokens: 150, OutputTokens: 50, AvgLatencyMs: 200,
	}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o", byModel[0].Model)
	assert.Equal(t, 2, byModel[1].Calls)
}

func TestRunRepo_SaveListGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	report := json.RawMessage(`{"overall_score":88}`)
	run := &RunRecord{
		LessonID: "lesson-1", LessonType: "discussion", Level: "B1",
		TargetLanguage: "English", Title: "Urban Gardens", Status: RunSucceeded,
		OverallScore: 88, Regenerations: 1, DurationMs: 1200, Report: report,
	}
	require.NoError(t, repo.SaveRun(ctx, run))
	assert.NotZero(t, run.ID)
	assert.NotZero(t, run.Sequence)

	require.NoError(t, repo.SaveRun(ctx, &RunRecord{
		LessonID: "lesson-2", LessonType: "grammar", Level: "A2",
		Status: RunFailed, FailedSection: "grammar", FailureClass: "EXHAUSTED",
	}))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "lesson-2", runs[0].LessonID)
	assert.Equal(t, "grammar", runs[0].FailedSection)
	assert.JSONEq(t, "{}", string(runs[0].Report))

	got, err := repo.GetRun(ctx, "lesson-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Urban Gardens", got.Title)
	assert.InDelta(t, 88.0, got.OverallScore, 0.001)
	assert.JSONEq(t, string(report), string(got.Report))

	missing, err := repo.GetRun(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRunRepo_Prune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.SaveRun(ctx, &RunRecord{LessonID: id, LessonType: "general", Level: "B2", Status: RunSucceeded}))
	}

	require.NoError(t, repo.Prune(ctx, 2))
	runs, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d", runs[0].LessonID)
	assert.Equal(t, "c", runs[1].LessonID)

	// Fewer than keep is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	runs, err = repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
