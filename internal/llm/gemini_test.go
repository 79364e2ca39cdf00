package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"word":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
			"level": map[string]any{"type": "string", "enum": []any{"A1", "B1", "C1"}},
			"themes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"word", "count"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["word"].Type != "STRING" {
		t.Fatalf("expected STRING for word, got %s", schema.Properties["word"].Type)
	}
	if schema.Properties["count"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for count, got %s", schema.Properties["count"].Type)
	}
	if len(schema.Properties["level"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["level"].Enum))
	}
	if schema.Properties["themes"].Items.Type != "STRING" {
		t.Fatalf("expected STRING for themes items, got %s", schema.Properties["themes"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	tests := []struct {
		reason genai.FinishReason
		want   string
	}{
		{"STOP", "end"},
		{"MAX_TOKENS", "max_tokens"},
		{"SAFETY", "error"},
		{"RECITATION", "error"},
	}
	for _, tt := range tests {
		res := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: tt.reason}},
		}
		if got := mapGeminiStopReason(res); got != tt.want {
			t.Errorf("mapGeminiStopReason(%s) = %q, want %q", tt.reason, got, tt.want)
		}
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("no candidates: got %q, want end", got)
	}
}
