package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the transport-level abstraction for one remote text-generation
// service. Section generators never call a Provider directly; they go through
// Client, which owns the MAX_TOKENS recovery policy.
type Provider interface {
	// Generate sends a single request to the service. A truncated response
	// that still carries text is returned with Truncated set. A truncated
	// response without any text is reported as *ErrMaxTokensExceeded.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Lesson generation is single-turn,
	// so this normally holds one user message.
	Messages []Message

	// Schema, when set, asks the provider for native structured output and
	// validates the response against it.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema. Kebab-case, e.g. "discussion-questions".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided and the
	// response was not truncated, this is validated JSON.
	Content json.RawMessage

	// Truncated reports that generation stopped on the output token limit.
	// Content is then partial and must be treated as possibly incomplete.
	Truncated bool

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finishResponse applies the shared truncation policy to a raw provider
// result. Every provider funnels its output through here.
func finishResponse(req Request, content json.RawMessage, stopReason string, usage Usage, model string) (*Response, error) {
	truncated := stopReason == "max_tokens"
	if truncated && strings.TrimSpace(string(content)) == "" {
		return nil, &ErrMaxTokensExceeded{Budget: req.MaxTokens}
	}

	// Partial JSON never satisfies a schema; the caller decides what to do
	// with the partial text.
	if req.Schema != nil && !truncated {
		if err := ValidateJSON(req.Schema, content); err != nil {
			return nil, err
		}
	}

	return &Response{
		Content:    content,
		Truncated:  truncated,
		Usage:      usage,
		Model:      model,
		StopReason: stopReason,
	}, nil
}
