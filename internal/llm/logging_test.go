package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/lessonforge/internal/store"
)

type recordingRepo struct {
	store.EventRepo

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: []byte("hello"), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithLessonID(WithPurpose(context.Background(), "section:reading"), "lesson-9")
	if _, err := p.Generate(ctx, Request{MaxTokens: 128, System: "sys"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{MaxTokens: 128}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.InputTokens != 7 || ok.Purpose != "section:reading" || ok.LessonID != "lesson-9" {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if ok.ResponseBody != "hello" || ok.MaxTokens != 128 {
		t.Fatalf("bodies not captured: %+v", ok)
	}
	if failed.Success || failed.FailureKind != string(FailureQuota) {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

func TestLogging_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockText("ok")), "mock", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("logging failure leaked into request: %v", err)
	}
}

func TestSerializeRequest(t *testing.T) {
	out := serializeRequest(Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   &Schema{Name: "s", Definition: map[string]any{"type": "object"}},
	})
	for _, want := range []string{"[system]", "be brief", "[user]", "hi", "[schema: s]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("serialized request missing %q:\n%s", want, out)
		}
	}
}
