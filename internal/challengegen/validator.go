package challengegen

import (
	"context"
	"fmt"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/challenge"
)

// Validator checks a generated challenge before it is persisted.
type Validator interface {
	// Name returns a short identifier for error messages, e.g. "structural".
	Name() string

	// Validate returns nil if the challenge passes.
	Validate(ctx context.Context, c *challenge.Challenge) *ValidationError
}

// ValidationError describes why a challenge failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Result is the outcome of running a validator chain.
type Result struct {
	IsValid bool
	Error   *ValidationError
}

// Chain is an ordered list of validators; the first failure wins.
type Chain []Validator

// NewChain returns the standard chain: duplicate title first, then
// structure. now dates the duplicate window; nil means time.Now.
func NewChain(history HistoryStore, now func() time.Time) Chain {
	return Chain{
		&DuplicateTitleValidator{History: history, Now: now},
		&StructuralValidator{},
	}
}

// Validate runs every validator in order. It never panics: a panicking
// validator is reported as a non-retryable failure.
func (c Chain) Validate(ctx context.Context, ch *challenge.Challenge) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Error: &ValidationError{
				Validator: "internal",
				Message:   fmt.Sprintf("validation failed: %v", r),
			}}
		}
	}()

	if ch == nil {
		return Result{Error: &ValidationError{Validator: "internal", Message: "no challenge"}}
	}
	for _, v := range c {
		if verr := v.Validate(ctx, ch); verr != nil {
			return Result{Error: verr}
		}
	}
	return Result{IsValid: true}
}
