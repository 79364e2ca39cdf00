package llm

import (
	"context"
	"errors"
	"strings"
)

// DefaultTokenFloor is the smallest output budget Client will retry with
// after a truncation that produced no text.
const DefaultTokenFloor = 100

// smallBudgetHalvings is how many halvings a budget close to the floor
// still gets: a call starting at budget b uses min(floor, b>>2) as its floor,
// so the 128-token title call retries at 64 and 32.
const smallBudgetHalvings = 2

// GenerateOptions are the per-call knobs exposed to section generators.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float64
	System          string
	Schema          *Schema
}

// Completion is the text returned by Client.Generate.
type Completion struct {
	Text string

	// Truncated is set when the service stopped on the token limit but still
	// returned text. Callers must treat Text as potentially incomplete.
	Truncated bool

	Usage Usage
	Model string

	// Budget is the output token budget that produced this completion.
	Budget int
}

// Client is the single integration point between lesson generation and the
// remote text-generation service.
type Client struct {
	provider Provider
	floor    int
}

// NewClient wraps a Provider. A floor <= 0 selects DefaultTokenFloor.
func NewClient(p Provider, floor int) *Client {
	if floor <= 0 {
		floor = DefaultTokenFloor
	}
	return &Client{provider: p, floor: floor}
}

// ModelID returns the model identifier of the underlying provider.
func (c *Client) ModelID() string {
	return c.provider.ModelID()
}

// Generate sends prompt and returns the generated text.
//
// When the service reports truncation with no text, the output budget is
// halved and the call retried, until the next budget would fall below the
// floor (lowered for small starting budgets, see smallBudgetHalvings); the
// failure is then *ErrMaxTokensNoContent. Token-starved prompts
// tend to come back empty rather than failing cleanly, and a smaller budget
// forces a shorter, complete answer.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Completion, error) {
	return c.generate(ctx, prompt, opts, c.floorFor(opts.MaxOutputTokens), 1)
}

func (c *Client) floorFor(budget int) int {
	if small := budget >> smallBudgetHalvings; small > 0 && small < c.floor {
		return small
	}
	return c.floor
}

func (c *Client) generate(ctx context.Context, prompt string, opts GenerateOptions, floor, attempt int) (*Completion, error) {
	req := Request{
		System: opts.System,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
		Schema:      opts.Schema,
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: opts.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) {
			return nil, err
		}
		next := opts.MaxOutputTokens / 2
		if next < floor {
			return nil, &ErrMaxTokensNoContent{LastBudget: opts.MaxOutputTokens, Attempts: attempt}
		}
		opts.MaxOutputTokens = next
		return c.generate(ctx, prompt, opts, floor, attempt+1)
	}

	text := string(resp.Content)
	if strings.TrimSpace(text) == "" {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: errors.New("empty response")}
	}

	return &Completion{
		Text:      text,
		Truncated: resp.Truncated,
		Usage:     resp.Usage,
		Model:     resp.Model,
		Budget:    opts.MaxOutputTokens,
	}, nil
}
