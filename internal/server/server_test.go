package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/quality"
	"github.com/abhisek/lessonforge/internal/regen"
	"github.com/abhisek/lessonforge/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	res      *pipeline.Result
	err      error
	got      lesson.Request
	gotExt   *lesson.Extraction
	deadline bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req lesson.Request, ext *lesson.Extraction) (*pipeline.Result, error) {
	f.got, f.gotExt = req, ext
	_, f.deadline = ctx.Deadline()
	return f.res, f.err
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error
}

func sampleResult() *pipeline.Result {
	var secs lesson.Sections
	secs.Set(lesson.WarmUp{Questions: []string{"What do you know about glaciers?"}})
	return &pipeline.Result{
		Lesson: &lesson.Lesson{
			ID:             "lesson-1",
			LessonType:     lesson.TypeDiscussion,
			Level:          cefr.B1,
			TargetLanguage: "English",
			Title:          "Melting Ice",
			Sections:       secs,
		},
		Quality: quality.Report{LessonID: "lesson-1", OverallScore: 88.5},
	}
}

func TestHealth(t *testing.T) {
	s := New(&fakeGenerator{}, nil, Config{}, nil)
	w := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateLesson_OK(t *testing.T) {
	gen := &fakeGenerator{res: sampleResult()}
	s := New(gen, nil, Config{RequestTimeout: time.Minute}, nil)

	w := do(t, s.Handler(), http.MethodPost, "/v1/lessons", map[string]any{
		"request": map[string]any{
			"source_text":     "Glaciers are melting.",
			"lesson_type":     "discussion",
			"level":           "B1",
			"target_language": "English",
		},
		"extraction": map[string]any{"text": "Glaciers are melting.", "title": "Ice"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Lesson  map[string]any `json:"lesson"`
		Quality map[string]any `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "lesson-1", got.Lesson["id"])
	assert.InDelta(t, 88.5, got.Quality["overall_score"], 0.001)

	assert.Equal(t, lesson.TypeDiscussion, gen.got.LessonType)
	require.NotNil(t, gen.gotExt)
	assert.Equal(t, "Ice", gen.gotExt.Title)
	assert.True(t, gen.deadline)
}

func TestCreateLesson_BadJSON(t *testing.T) {
	gen := &fakeGenerator{res: sampleResult()}
	s := New(gen, nil, Config{}, nil)

	w := do(t, s.Handler(), http.MethodPost, "/v1/lessons", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_json", decodeError(t, w).Code)
}

func TestCreateLesson_InvalidRequest(t *testing.T) {
	gen := &fakeGenerator{err: &lesson.RequestError{Field: "source_text", Reason: "must be at least 200 characters"}}
	s := New(gen, nil, Config{}, nil)

	w := do(t, s.Handler(), http.MethodPost, "/v1/lessons", map[string]any{"request": map[string]any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "invalid_request", e.Code)
	assert.Equal(t, "source_text", e.Field)
}

func TestCreateLesson_HardFailure(t *testing.T) {
	gen := &fakeGenerator{err: &pipeline.LessonError{
		LessonID:  "lesson-1",
		Section:   lesson.KindWrapUp,
		Class:     regen.ClassValidation,
		Completed: []lesson.Kind{lesson.KindWarmUp, lesson.KindReading},
		Err:       fmt.Errorf("too few questions"),
	}}
	s := New(gen, nil, Config{}, nil)

	w := do(t, s.Handler(), http.MethodPost, "/v1/lessons", map[string]any{"request": map[string]any{}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "lesson_failed", e.Code)
	assert.Equal(t, lesson.KindWrapUp, e.Section)
	assert.Equal(t, regen.ClassValidation, e.Classification)
	assert.Equal(t, []lesson.Kind{lesson.KindWarmUp, lesson.KindReading}, e.Completed)
}

func TestCreateLesson_InternalError(t *testing.T) {
	s := New(&fakeGenerator{err: fmt.Errorf("boom")}, nil, Config{}, nil)
	w := do(t, s.Handler(), http.MethodPost, "/v1/lessons", map[string]any{"request": map[string]any{}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRuns(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := db.RunRepo()
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, repo.SaveRun(ctx, &store.RunRecord{
			LessonID:   id,
			LessonType: "discussion",
			Level:      "B1",
			Status:     store.RunSucceeded,
		}))
	}

	s := New(&fakeGenerator{}, repo, Config{}, nil)

	w := do(t, s.Handler(), http.MethodGet, "/v1/runs?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []store.RunRecord `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "b", list.Runs[0].LessonID)

	w = do(t, s.Handler(), http.MethodGet, "/v1/runs/a", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s.Handler(), http.MethodGet, "/v1/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s.Handler(), http.MethodGet, "/v1/runs?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRuns_NoStore(t *testing.T) {
	s := New(&fakeGenerator{}, nil, Config{}, nil)
	w := do(t, s.Handler(), http.MethodGet, "/v1/runs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
