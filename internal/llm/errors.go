package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a generation service failure for callers that need
// to report or route on it.
type FailureKind string

const (
	FailureQuota              FailureKind = "QUOTA"
	FailureNetwork            FailureKind = "NETWORK"
	FailureMaxTokensNoContent FailureKind = "MAX_TOKENS_NO_CONTENT"
	FailureMalformedResponse  FailureKind = "MALFORMED_RESPONSE"
)

// ErrRateLimit indicates the provider returned a rate limit or quota error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema, or no usable content at all.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrCallTimeout indicates a single provider call exceeded its per-call bound.
type ErrCallTimeout struct {
	After time.Duration
}

func (e *ErrCallTimeout) Error() string {
	return fmt.Sprintf("LLM call timed out after %s", e.After)
}

// ErrMaxTokensExceeded indicates the service stopped on the output token
// limit without producing any text.
type ErrMaxTokensExceeded struct {
	Budget int
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("LLM response truncated with no content (max tokens %d)", e.Budget)
}

// ErrMaxTokensNoContent is the terminal form of ErrMaxTokensExceeded, raised
// by Client once halving the budget would drop below its floor.
type ErrMaxTokensNoContent struct {
	LastBudget int
	Attempts   int
}

func (e *ErrMaxTokensNoContent) Error() string {
	return fmt.Sprintf("LLM returned no content after %d attempts (last max tokens %d)", e.Attempts, e.LastBudget)
}

// Classify maps an error returned by a Provider or Client to a FailureKind.
// Unknown errors are treated as network failures.
func Classify(err error) FailureKind {
	var (
		rl      *ErrRateLimit
		noCont  *ErrMaxTokensNoContent
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		timeout *ErrCallTimeout
		unavail *ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &rl):
		return FailureQuota
	case errors.As(err, &noCont), errors.As(err, &maxTok):
		return FailureMaxTokensNoContent
	case errors.As(err, &invalid):
		return FailureMalformedResponse
	case errors.As(err, &timeout), errors.As(err, &unavail):
		return FailureNetwork
	case errors.Is(err, context.DeadlineExceeded):
		return FailureNetwork
	}
	return FailureNetwork
}
