package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrRateLimit means the backend answered 429. RetryAfter is zero when the
// backend did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "LLM rate limit reached"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model answered with something that is not
// JSON or does not match the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, network failures, bad credentials
// and an unconfigured provider.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at the token budget, so
// Content is a truncated document.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated at the max token limit"
}

// classifyStatus maps an HTTP status returned by a backend SDK to one of
// the typed errors. Context errors pass through untouched.
func classifyStatus(status int, retryAfter time.Duration, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// and missing headers yield zero.
func parseRetryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func asInvalid(err error) (*ErrInvalidResponse, bool) {
	var inv *ErrInvalidResponse
	ok := errors.As(err, &inv)
	return inv, ok
}

func asTruncated(err error) (*ErrMaxTokensExceeded, bool) {
	var mt *ErrMaxTokensExceeded
	ok := errors.As(err, &mt)
	return mt, ok
}
