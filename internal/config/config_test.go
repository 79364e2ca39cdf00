package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonforge/internal/lesson"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LESSONFORGE_CONFIG", "LESSONFORGE_LLM_PROVIDER", "LESSONFORGE_GEMINI_API_KEY",
		"LESSONFORGE_DB", "LESSONFORGE_LOG_MODE", "LESSONFORGE_SERVER_ADDR",
		"LESSONFORGE_MAX_ATTEMPTS", "LESSONFORGE_BATCH_CONCURRENCY", "LESSONFORGE_EXTRACT_THEMES",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), "")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 2, cfg.Generation.MaxAttempts)
	assert.True(t, cfg.Generation.ExtractThemes)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.BatchConcurrency)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "lessonforge.yaml", `
llm:
  provider: openai
  model: gpt-4.1-mini
  call_timeout: 20s
generation:
  max_attempts: 3
  extract_themes: false
  max_tokens:
    reading: 2048
server:
  addr: ":9090"
store:
  path: /tmp/lf.db
batch:
  concurrency: 2
`)
	t.Setenv("LESSONFORGE_SERVER_ADDR", ":7070")
	t.Setenv("LESSONFORGE_MAX_ATTEMPTS", "4")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.env"), path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 20*time.Second, cfg.LLM.CallTimeout)
	assert.False(t, cfg.Generation.ExtractThemes)
	assert.Equal(t, 4, cfg.Generation.MaxAttempts)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/tmp/lf.db", cfg.DBPath)
	assert.Equal(t, 2, cfg.BatchConcurrency)

	pc := cfg.Pipeline()
	assert.Equal(t, 2048, pc.Sections.MaxTokens[lesson.KindReading])
	assert.Equal(t, 4, pc.MaxAttempts)
	assert.False(t, pc.ExtractThemes)
}

func TestLoad_RejectsUnknownSection(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "bad.yaml", "generation:\n  max_tokens:\n    essay: 100\n")

	_, err := Load(filepath.Join(t.TempDir(), "none.env"), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "essay")
}

func TestLoad_MissingYAMLIsError(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "none.env"), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("LESSONFORGE_LLM_PROVIDER")
	os.Unsetenv("LESSONFORGE_GEMINI_API_KEY")
	env := writeFile(t, ".env", "LESSONFORGE_LLM_PROVIDER=gemini\nLESSONFORGE_GEMINI_API_KEY=from-dotenv\n")
	t.Cleanup(func() {
		os.Unsetenv("LESSONFORGE_LLM_PROVIDER")
		os.Unsetenv("LESSONFORGE_GEMINI_API_KEY")
	})

	cfg, err := Load(env, "")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.Gemini.APIKey)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestLoad_DiscoversStandardKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.env"), "")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.Anthropic.APIKey)
}
