package sections

import (
	"strings"
	"testing"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
)

func TestDialogue_PromptUsesRolesAndVocabulary(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{
		"scenario": "At the airport",
		"characters": [{"name": "Sam", "role": "Traveler"}, {"name": "Lia", "role": "Local"}],
		"lines": [{"speaker": "Sam", "text": "Excuse me, where is the train?"}, {"speaker": "Lia", "text": "It is ___ the station."}],
		"answer_key": ["at"]
	}`))
	c := testContext(t, cefr.A2, lesson.TypeTravel)

	var prior lesson.Sections
	prior.Set(lesson.Vocabulary{Entries: []lesson.VocabEntry{{Word: "Glacier"}}})

	s, err := generate(t, testSet(mock), lesson.KindDialogueFillGap, Input{Context: c, Prior: prior, Attempt: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := mock.Prompt(0)
	if !strings.Contains(prompt, `"Traveler"`) || !strings.Contains(prompt, `"Local"`) {
		t.Errorf("prompt missing roles:\n%s", prompt)
	}
	if !strings.Contains(prompt, "glacier, ") {
		t.Error("prompt should lead with taught vocabulary")
	}
	if !strings.Contains(prompt, lesson.GapMarker) {
		t.Error("fill-gap prompt should mention the gap marker")
	}

	d := s.(lesson.Dialogue)
	if d.Kind() != lesson.KindDialogueFillGap {
		t.Errorf("unexpected kind %s", d.Kind())
	}
	if d.GapCount() != 1 || len(d.AnswerKey) != 1 {
		t.Errorf("expected one gap and one answer, got %d/%d", d.GapCount(), len(d.AnswerKey))
	}
}

func TestDialogue_PracticeDropsAnswerKey(t *testing.T) {
	d, err := strictDialogue(`{
		"characters": [{"name": "Ana", "role": "Host"}, {"name": "Ben", "role": "Guest"}],
		"lines": [{"speaker": "Ana", "text": "Hi"}],
		"answer_key": ["stray"]
	}`, lesson.VariantPractice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.AnswerKey != nil {
		t.Errorf("practice dialogue should not carry an answer key: %v", d.AnswerKey)
	}
}

func TestDialogue_Tolerant(t *testing.T) {
	text := `Scenario: Two neighbours talk about the heatwave.
Ana (Host): Did you sleep last night?
Ben (Guest): Not really, it was too ___ .
Ana: I know. The climate is changing.
Ben: We need more ___ energy.

Answers:
1. hot
2. renewable`

	d, ok := tolerantDialogue(text, lesson.VariantFillGap)
	if !ok {
		t.Fatal("expected tolerant parse")
	}
	if d.Scenario != "Two neighbours talk about the heatwave." {
		t.Errorf("unexpected scenario: %q", d.Scenario)
	}
	if len(d.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(d.Lines))
	}
	if d.RoleOf("Ana") != "Host" || d.RoleOf("Ben") != "Guest" {
		t.Errorf("unexpected roles: %+v", d.Characters)
	}
	if d.GapCount() != 2 {
		t.Errorf("expected 2 gaps, got %d", d.GapCount())
	}
	if len(d.AnswerKey) != 2 || d.AnswerKey[1] != "renewable" {
		t.Errorf("unexpected answer key: %v", d.AnswerKey)
	}
}

func TestDialogue_TolerantNeverInventsRoles(t *testing.T) {
	d, ok := tolerantDialogue("Ana: Hello.\nBen: Hi.", lesson.VariantPractice)
	if !ok {
		t.Fatal("expected tolerant parse")
	}
	for _, c := range d.Characters {
		if c.Role != "" {
			t.Errorf("role %q was not in the response", c.Role)
		}
	}
}
