package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider repeats calls that failed for a transient reason, waiting
// an exponentially growing, jittered delay between attempts. A response
// that failed validation is retried at most once.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p. MaxAttempts below one means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		switch {
		case err == nil:
			return resp, nil
		case ctx.Err() != nil, !IsTransient(err), attempt >= r.cfg.MaxAttempts:
			return nil, err
		}
		if _, ok := asInvalid(err); ok {
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		t := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// IsTransient reports whether another attempt could succeed. Cancellation
// and truncation are final. A per-call deadline, rate limits, outages,
// invalid responses and unclassified errors are not.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	_, truncated := asTruncated(err)
	return !truncated
}

// delay is the wait after the given 1-based attempt. A Retry-After from
// the backend wins over the computed backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.cfg.InitialWait)
	for range attempt - 1 {
		d *= r.cfg.Multiplier
	}
	d = min(d, float64(r.cfg.MaxWait))
	// jitter of up to 20% either way
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(max(d, 0))
}
