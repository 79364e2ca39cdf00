package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWrap_ChainOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockText("ok"),
	)
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.Retry = retryConfig()
	cfg.CallTimeout = time.Second

	p := wrap(mock, cfg, nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "ok" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected retry through the chain, got %d calls", mock.CallCount())
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewClientFromConfig_ValidatesKey(t *testing.T) {
	_, err := NewClientFromConfig(context.Background(), Config{Provider: "anthropic"}, nil, nil)
	if err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestEstimateCost(t *testing.T) {
	usd, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if !ok {
		t.Fatal("expected gpt-4o-mini in pricing table")
	}
	if usd < 0.749 || usd > 0.751 {
		t.Fatalf("expected 0.75, got %f", usd)
	}
	if _, ok := EstimateCost("no-such-model", 1, 1); ok {
		t.Fatal("expected unknown model")
	}
}
