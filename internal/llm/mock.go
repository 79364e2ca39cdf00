package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Truncated simulates the service stopping on the token limit. With an
	// empty Content this surfaces as *ErrMaxTokensExceeded.
	Truncated bool
}

// MockText is a convenience for a plain-text canned response.
func MockText(s string) MockResponse {
	return MockResponse{Content: json.RawMessage(s)}
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Repeat, when set, is returned once the queue is empty instead of
	// ErrProviderUnavailable.
	Repeat *MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response, Repeat, or
// ErrProviderUnavailable if neither is available.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Repeat != nil:
		resp = *m.Repeat
	default:
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	stop := "end"
	if resp.Truncated {
		stop = "max_tokens"
	}
	return finishResponse(req, resp.Content, stop, resp.Usage, "mock")
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Budgets returns the MaxTokens of every recorded call, in order.
func (m *MockProvider) Budgets() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.MaxTokens
	}
	return out
}

// Prompt returns the user message of the i-th recorded call.
func (m *MockProvider) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.Calls) || len(m.Calls[i].Messages) == 0 {
		return ""
	}
	return m.Calls[i].Messages[0].Content
}
