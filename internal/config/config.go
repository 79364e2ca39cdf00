// Package config assembles runtime settings from a .env file, an optional
// YAML file and LESSONFORGE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/sections"
)

// Config is the resolved runtime configuration.
type Config struct {
	LLM        llm.Config
	Generation Generation
	Server     Server

	// DBPath is empty when the default XDG location should be used.
	DBPath  string
	LogMode string

	// BatchConcurrency bounds concurrent lessons in a batch run.
	BatchConcurrency int
}

// Generation tunes the lesson pipeline.
type Generation struct {
	MaxAttempts        int
	ExtractThemes      bool
	Temperature        float64
	PronunciationWords int
	MaxTokens          map[lesson.Kind]int
}

// Server configures the HTTP surface.
type Server struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// file mirrors the YAML layout. API keys are only read from the
// environment.
type file struct {
	LLM struct {
		Provider    string        `yaml:"provider"`
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"base_url"`
		CallTimeout time.Duration `yaml:"call_timeout"`
		TokenFloor  int           `yaml:"token_floor"`
		Retries     int           `yaml:"retries"`
	} `yaml:"llm"`
	Generation struct {
		MaxAttempts        int                 `yaml:"max_attempts"`
		ExtractThemes      *bool               `yaml:"extract_themes"`
		Temperature        float64             `yaml:"temperature"`
		PronunciationWords int                 `yaml:"pronunciation_words"`
		MaxTokens          map[lesson.Kind]int `yaml:"max_tokens"`
	} `yaml:"generation"`
	Server *Server `yaml:"server"`
	Store  struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`
	Batch struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"batch"`
}

// Default returns the built-in configuration.
func Default() Config {
	sc := sections.DefaultConfig()
	return Config{
		LLM: llm.DefaultConfig(),
		Generation: Generation{
			MaxAttempts:        pipeline.DefaultConfig().MaxAttempts,
			ExtractThemes:      true,
			Temperature:        sc.Temperature,
			PronunciationWords: sc.PronunciationWords,
		},
		Server: Server{
			Addr:           ":8080",
			RequestTimeout: 5 * time.Minute,
		},
		LogMode:          "dev",
		BatchConcurrency: 4,
	}
}

// Load resolves the configuration. envFile and path may be empty; a
// missing .env file is not an error, a missing YAML file is.
func Load(envFile, path string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("LESSONFORGE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.apply(data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	if f.LLM.Provider != "" {
		c.LLM.Provider = f.LLM.Provider
	}
	if f.LLM.Model != "" {
		c.setModel(f.LLM.Model)
	}
	if f.LLM.BaseURL != "" {
		c.LLM.OpenAI.BaseURL = f.LLM.BaseURL
		c.LLM.OpenRouter.BaseURL = f.LLM.BaseURL
	}
	if f.LLM.CallTimeout > 0 {
		c.LLM.CallTimeout = f.LLM.CallTimeout
	}
	if f.LLM.TokenFloor > 0 {
		c.LLM.TokenFloor = f.LLM.TokenFloor
	}
	if f.LLM.Retries > 0 {
		c.LLM.Retry.MaxAttempts = f.LLM.Retries
	}

	g := f.Generation
	if g.MaxAttempts > 0 {
		c.Generation.MaxAttempts = g.MaxAttempts
	}
	if g.ExtractThemes != nil {
		c.Generation.ExtractThemes = *g.ExtractThemes
	}
	if g.Temperature > 0 {
		c.Generation.Temperature = g.Temperature
	}
	if g.PronunciationWords > 0 {
		c.Generation.PronunciationWords = g.PronunciationWords
	}
	for k, n := range g.MaxTokens {
		if !k.Valid() {
			return fmt.Errorf("generation.max_tokens: unknown section %q", k)
		}
		if c.Generation.MaxTokens == nil {
			c.Generation.MaxTokens = map[lesson.Kind]int{}
		}
		c.Generation.MaxTokens[k] = n
	}

	if s := f.Server; s != nil {
		if s.Addr != "" {
			c.Server.Addr = s.Addr
		}
		if s.RequestTimeout > 0 {
			c.Server.RequestTimeout = s.RequestTimeout
		}
	}
	if f.Store.Path != "" {
		c.DBPath = f.Store.Path
	}
	if f.Log.Mode != "" {
		c.LogMode = f.Log.Mode
	}
	if f.Batch.Concurrency > 0 {
		c.BatchConcurrency = f.Batch.Concurrency
	}
	return nil
}

// setModel applies a provider-neutral model name to the selected provider.
func (c *Config) setModel(m string) {
	switch c.LLM.Provider {
	case "anthropic":
		c.LLM.Anthropic.Model = m
	case "openai":
		c.LLM.OpenAI.Model = m
	case "gemini":
		c.LLM.Gemini.Model = m
	case "openrouter":
		c.LLM.OpenRouter.Model = m
	}
}

func (c *Config) applyEnv() {
	c.LLM.ApplyEnv()

	// With no provider chosen explicitly, fall back to whichever standard
	// API key variable is present.
	if os.Getenv("LESSONFORGE_LLM_PROVIDER") == "" && c.LLM.Validate() != nil {
		if found, ok := llm.DiscoverConfig(); ok {
			c.LLM.Provider = found.Provider
			c.LLM.Anthropic.APIKey = found.Anthropic.APIKey
			c.LLM.OpenAI.APIKey = found.OpenAI.APIKey
			c.LLM.Gemini.APIKey = found.Gemini.APIKey
			c.LLM.OpenRouter.APIKey = found.OpenRouter.APIKey
		}
	}

	if p := os.Getenv("LESSONFORGE_DB"); p != "" {
		c.DBPath = p
	}
	if m := os.Getenv("LESSONFORGE_LOG_MODE"); m != "" {
		c.LogMode = m
	}
	if a := os.Getenv("LESSONFORGE_SERVER_ADDR"); a != "" {
		c.Server.Addr = a
	}
	if n, err := strconv.Atoi(os.Getenv("LESSONFORGE_MAX_ATTEMPTS")); err == nil && n > 0 {
		c.Generation.MaxAttempts = n
	}
	if n, err := strconv.Atoi(os.Getenv("LESSONFORGE_BATCH_CONCURRENCY")); err == nil && n > 0 {
		c.BatchConcurrency = n
	}
	if v := os.Getenv("LESSONFORGE_EXTRACT_THEMES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Generation.ExtractThemes = b
		}
	}
}

// Pipeline returns the pipeline settings.
func (c Config) Pipeline() pipeline.Config {
	sc := sections.DefaultConfig()
	if c.Generation.Temperature > 0 {
		sc.Temperature = c.Generation.Temperature
	}
	if c.Generation.PronunciationWords > 0 {
		sc.PronunciationWords = c.Generation.PronunciationWords
	}
	for k, n := range c.Generation.MaxTokens {
		sc.MaxTokens[k] = n
	}
	return pipeline.Config{
		Sections:      sc,
		MaxAttempts:   c.Generation.MaxAttempts,
		ExtractThemes: c.Generation.ExtractThemes,
	}
}
