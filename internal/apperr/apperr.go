// Package apperr maps domain failures onto coded HTTP errors.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/EthanGF7/SkillsTracker/internal/challengegen"
	"github.com/EthanGF7/SkillsTracker/internal/customskill"
	"github.com/EthanGF7/SkillsTracker/internal/history"
	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

// Code identifies a class of failure.
type Code string

const (
	CodeInvalidRequest Code = "INVALID_REQUEST" // 400
	CodeNotFound       Code = "NOT_FOUND"       // 404
	CodeRateLimited    Code = "RATE_LIMITED"    // 429
	CodeUpstream       Code = "UPSTREAM"        // 500
	CodeStorage        Code = "STORAGE"         // 500
	CodeInternal       Code = "INTERNAL"        // 500
)

// Error is a failure with an HTTP status and optional details.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidRequest creates a 400 error.
func InvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Status: http.StatusBadRequest, Message: msg}
}

// NotFound creates a 404 error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: msg}
}

// RateLimited creates a 429 error for clients throttled by this server.
func RateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Status: http.StatusTooManyRequests, Message: msg}
}

// Upstream creates a 500 error for LLM failures.
func Upstream(msg string, err error) *Error {
	return &Error{Code: CodeUpstream, Status: http.StatusInternalServerError, Message: msg, Details: detail(err), Err: err}
}

// Storage creates a 500 error for persistence failures.
func Storage(msg string, err error) *Error {
	return &Error{Code: CodeStorage, Status: http.StatusInternalServerError, Message: msg, Details: detail(err), Err: err}
}

// Internal creates a 500 error for anything unexpected.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "internal error", Details: detail(err), Err: err}
}

func detail(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

// From classifies err. An *Error anywhere in the chain is returned as is.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var (
		verr  *challengegen.ValidationError
		rl    *llm.ErrRateLimit
		unav  *llm.ErrProviderUnavailable
		inv   *llm.ErrInvalidResponse
		trunc *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.Is(err, challengegen.ErrInvalidInput), errors.Is(err, customskill.ErrInvalid):
		return &Error{Code: CodeInvalidRequest, Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	case errors.Is(err, challengegen.ErrSkillNotFound), errors.Is(err, customskill.ErrNotFound):
		return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, history.ErrPersist):
		return Storage(history.ErrPersist.Error(), err)
	case errors.Is(err, challengegen.ErrExhausted):
		return Upstream(challengegen.ErrExhausted.Error(), err)
	case errors.Is(err, challengegen.ErrMalformedResponse):
		return Upstream("the model returned an invalid challenge", err)
	case errors.As(err, &rl):
		return Upstream("LLM provider rate limit reached", err)
	case errors.As(err, &verr):
		return Upstream("generated challenge failed validation", err)
	case errors.As(err, &unav), errors.As(err, &inv), errors.As(err, &trunc),
		errors.Is(err, context.DeadlineExceeded):
		return Upstream("LLM request failed", err)
	default:
		return Internal(err)
	}
}
