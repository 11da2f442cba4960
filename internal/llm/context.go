package llm

import "context"

// Purpose labels recorded with every logged call.
const (
	PurposeChallenge        = "challenge-gen"
	PurposeSkillDescription = "skill-description"
	PurposeCheck            = "check"
)

type ctxKey int

const (
	purposeKey ctxKey = iota
	requestIDKey
)

// WithPurpose labels the calls made with ctx, e.g. PurposeChallenge.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithRequestID ties the calls made with ctx to an inbound request so the
// event log can be searched by it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
