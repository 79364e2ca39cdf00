package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/pipeline"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestLoadManifest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"articles/climate.txt": "Glaciers are melting.",
		"articles/travel.txt":  "Trains across Europe.",
		"lessons.yaml": `
defaults:
  lesson_type: discussion
  level: B1
  target_language: English
jobs:
  - source: articles/climate.txt
    title: Climate change speeds up
  - name: trains
    source: articles/travel.txt
    lesson_type: travel
    level: A2
`,
	})

	jobs, err := LoadManifest(filepath.Join(dir, "lessons.yaml"))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "climate", jobs[0].Name)
	assert.Equal(t, lesson.TypeDiscussion, jobs[0].Request.LessonType)
	assert.Equal(t, cefr.B1, jobs[0].Request.Level)
	assert.Equal(t, "Glaciers are melting.", jobs[0].Request.SourceText)
	assert.Equal(t, "Climate change speeds up", jobs[0].Extraction.Title)

	assert.Equal(t, "trains", jobs[1].Name)
	assert.Equal(t, lesson.TypeTravel, jobs[1].Request.LessonType)
	assert.Equal(t, cefr.A2, jobs[1].Request.Level)
	assert.Equal(t, "English", jobs[1].Request.TargetLanguage)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"no jobs", "jobs: []\n", "no jobs"},
		{"missing source", "jobs:\n  - name: x\n", "source is required"},
		{"duplicate", "jobs:\n  - source: a.txt\n  - source: a.txt\n", "duplicate"},
		{"unreadable", "jobs:\n  - source: nope.txt\n", "read source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"a.txt": "text", "m.yaml": tt.manifest})
			_, err := LoadManifest(filepath.Join(dir, "m.yaml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type countingGenerator struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     map[string]bool
}

func (g *countingGenerator) Generate(ctx context.Context, req lesson.Request, _ *lesson.Extraction) (*pipeline.Result, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)

	if g.fail[req.SourceText] {
		return nil, errors.New("generation failed")
	}
	return &pipeline.Result{Lesson: &lesson.Lesson{ID: req.SourceText}}, nil
}

func jobsNamed(names ...string) []Job {
	jobs := make([]Job, len(names))
	for i, n := range names {
		jobs[i] = Job{Name: n, Request: lesson.Request{SourceText: n}}
	}
	return jobs
}

func TestRunner_BoundsConcurrency(t *testing.T) {
	gen := &countingGenerator{}
	r := NewRunner(gen, 2, nil)
	var done atomic.Int32
	r.OnDone = func(Outcome) { done.Add(1) }

	outcomes, err := r.Run(context.Background(), jobsNamed("a", "b", "c", "d", "e", "f"))
	require.NoError(t, err)

	assert.LessOrEqual(t, gen.peak.Load(), int32(2))
	assert.Equal(t, int32(6), done.Load())
	require.Len(t, outcomes, 6)
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		assert.Equal(t, name, outcomes[i].Job.Name)
		require.NoError(t, outcomes[i].Err)
		assert.Equal(t, name, outcomes[i].Result.Lesson.ID)
	}
}

func TestRunner_FailureDoesNotStopOthers(t *testing.T) {
	gen := &countingGenerator{fail: map[string]bool{"b": true}}
	outcomes, err := NewRunner(gen, 3, nil).Run(context.Background(), jobsNamed("a", "b", "c"))
	require.NoError(t, err)

	assert.Equal(t, 1, Failed(outcomes))
	assert.Error(t, outcomes[1].Err)
	assert.NotNil(t, outcomes[0].Result)
	assert.NotNil(t, outcomes[2].Result)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := NewRunner(&countingGenerator{}, 1, nil).Run(ctx, jobsNamed("a", "b"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, Failed(outcomes))
}
