package sharedctx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/llm"
)

const themeExcerptWords = 400

var themesSchema = &llm.Schema{
	Name:        "lesson-themes",
	Description: "Short thematic tags for a source text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"themes": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string", "minLength": 2, "maxLength": 40},
				"maxItems": 5,
			},
		},
		"required":             []any{"themes"},
		"additionalProperties": false,
	},
}

// LLMThemeExtractor asks the generation service for a handful of themes. It
// makes one small call per lesson.
type LLMThemeExtractor struct {
	client    *llm.Client
	maxTokens int
}

func NewLLMThemeExtractor(client *llm.Client) *LLMThemeExtractor {
	return &LLMThemeExtractor{client: client, maxTokens: 256}
}

func (e *LLMThemeExtractor) ExtractThemes(ctx context.Context, text string, level cefr.Level, target string) ([]string, error) {
	ctx = llm.WithPurpose(ctx, "shared-context:themes")
	if strings.TrimSpace(target) == "" {
		target = "English"
	}

	excerpt := (&Context{text: text}).Excerpt(themeExcerptWords)
	prompt := fmt.Sprintf(
		"List up to 5 short lowercase theme tags (one or two words each) for a %s-level %s lesson based on this text.\n\nTEXT:\n%s",
		level, target, excerpt,
	)

	resp, err := e.client.Generate(ctx, prompt, llm.GenerateOptions{
		MaxOutputTokens: e.maxTokens,
		Temperature:     0.2,
		Schema:          themesSchema,
	})
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		return nil, fmt.Errorf("theme extraction truncated at %d tokens", resp.Budget)
	}

	var out struct {
		Themes []string `json:"themes"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp.Text)), &out); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	return out.Themes, nil
}
