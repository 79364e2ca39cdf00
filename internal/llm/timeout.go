package llm

import (
	"context"
	"errors"
	"time"
)

// TimeoutProvider bounds every call to the inner provider. The remote
// service can hang; a call that outlives its bound becomes *ErrCallTimeout.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-call timeout. A non-positive
// duration disables the bound.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(callCtx, req)
	if err == nil {
		return resp, nil
	}

	// Only our own deadline is a timeout; a cancelled parent stays a
	// context error.
	if ctx.Err() == nil && (errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil) {
		return nil, &ErrCallTimeout{After: t.timeout}
	}
	return nil, err
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
