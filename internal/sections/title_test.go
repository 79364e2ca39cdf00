package sections

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
)

func TestTitle_AICombinedWithSourceTitle(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"title": "A Warming Planet"}`))
	c := testContext(t, cefr.B1, lesson.TypeDiscussion)

	got := testSet(mock).Title().Title(context.Background(), Input{
		Context:  c,
		Metadata: &lesson.Extraction{Title: "Climate change speeds up | BBC News", Domain: "www.bbc.co.uk"},
	})
	if got.Source != lesson.TitleFromAI {
		t.Errorf("expected ai source, got %s", got.Source)
	}
	if got.Text != "A Warming Planet: Climate change speeds up" {
		t.Errorf("unexpected title %q", got.Text)
	}
}

func TestTitle_MaxTokensFallsBackToMetadata(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Repeat = &llm.MockResponse{Truncated: true}

	cfg := DefaultConfig()
	cfg.MaxTokens[lesson.KindTitle] = 60
	set := NewSet(llm.NewClient(mock, 10), cfg, nil)
	c := testContext(t, cefr.B1, lesson.TypeDiscussion)

	got := set.Title().Title(context.Background(), Input{
		Context:  c,
		Metadata: &lesson.Extraction{Title: "Why sea levels are rising - The Guardian"},
	})

	budgets := mock.Budgets()
	if len(budgets) != 3 || budgets[0] != 60 || budgets[1] != 30 || budgets[2] != 15 {
		t.Errorf("unexpected budgets %v", budgets)
	}
	if got.Source != lesson.TitleFromMetadata || got.Text != "Why sea levels are rising" {
		t.Errorf("unexpected title %+v", got)
	}
}

func TestTitle_NeverFails(t *testing.T) {
	c := testContext(t, cefr.C1, lesson.TypeBusiness)
	meta := &lesson.Extraction{Title: "Carbon markets explained | Example"}

	tests := []struct {
		name     string
		aiUp     bool
		meta     *lesson.Extraction
		ctxSet   bool
		wantFrom lesson.TitleSource
	}{
		{"ai up, metadata", true, meta, true, lesson.TitleFromAI},
		{"ai up, no metadata", true, nil, true, lesson.TitleFromAI},
		{"ai down, metadata", false, meta, true, lesson.TitleFromMetadata},
		{"ai down, no metadata", false, nil, true, lesson.TitleFromText},
		{"ai down, nothing", false, nil, false, lesson.TitleGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			if tt.aiUp {
				mock.Repeat = &llm.MockResponse{Content: []byte(`{"title": "Markets for Carbon"}`)}
			} else {
				mock.Repeat = &llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}
			}
			in := Input{Metadata: tt.meta}
			if tt.ctxSet {
				in.Context = c
			}

			s, err := testSet(mock).Title().Generate(context.Background(), in)
			if err != nil {
				t.Fatalf("title generator returned error: %v", err)
			}
			title := s.(lesson.Title)
			if title.Text == "" {
				t.Fatal("empty title")
			}
			if title.Source != tt.wantFrom {
				t.Errorf("source = %s, want %s (%q)", title.Source, tt.wantFrom, title.Text)
			}
		})
	}
}

func TestTitle_RejectsImplausibleAI(t *testing.T) {
	long := `{"title": "This title is far too long to be a real lesson title because it keeps going on and on"}`
	mock := llm.NewMockProvider(llm.MockText(long))
	c := testContext(t, cefr.B1, lesson.TypeGeneral)

	got := testSet(mock).Title().Title(context.Background(), Input{Context: c})
	if got.Source != lesson.TitleFromText {
		t.Errorf("expected fallback to source text, got %+v", got)
	}
}

func TestCleanSourceTitle(t *testing.T) {
	tests := []struct {
		title, domain, want string
	}{
		{"Climate change speeds up | BBC News", "", "Climate change speeds up"},
		{"Why sea levels are rising - The Guardian", "theguardian.com", "Why sea levels are rising"},
		{"Ocean heat records :: example.com | Science", "example.com", "Ocean heat records"},
		{"Cats - Dogs", "", "Cats - Dogs"},
		{"  Plain   title  ", "", "Plain title"},
	}
	for _, tt := range tests {
		if got := CleanSourceTitle(tt.title, tt.domain); got != tt.want {
			t.Errorf("CleanSourceTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestLeadingSentenceTitle(t *testing.T) {
	if got := LeadingSentenceTitle("Short start. More text."); got != "Short start" {
		t.Errorf("unexpected %q", got)
	}
	long := "Climate change is accelerating faster than many scientists had predicted only a decade ago."
	got := LeadingSentenceTitle(long)
	if len([]rune(got)) > leadTitleChars+1 || got[len(got)-len("…"):] != "…" {
		t.Errorf("expected truncated title with ellipsis, got %q", got)
	}
}

func TestGenericTitle(t *testing.T) {
	c := testContext(t, cefr.A2, lesson.TypeTravel)
	if got := GenericTitle(Input{Context: c}); got != "Travel Lesson - A2" {
		t.Errorf("unexpected %q", got)
	}
}
