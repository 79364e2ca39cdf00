package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// retry, logging and timeout middleware. eventRepo may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return wrap(base, cfg, eventRepo, log), nil
}

// wrap applies the middleware chain: caller → retry → logging → timeout → base.
func wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *logger.Logger) Provider {
	timed := WithTimeout(base, cfg.CallTimeout)
	logged := WithLogging(timed, cfg.Provider, eventRepo, log)
	return WithRetry(logged, cfg.Retry)
}

// NewClientFromConfig builds the Client used by section generators.
func NewClientFromConfig(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo, log)
	if err != nil {
		return nil, err
	}
	return NewClient(p, cfg.TokenFloor), nil
}
