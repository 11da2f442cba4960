package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EthanGF7/SkillsTracker/internal/store"
)

// LoggingProvider appends one store event per call, successful or not.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
}

// WithLogging records the calls made through p in events. provider is the
// backend name stored with each event, e.g. "deepseek".
func WithLogging(p Provider, provider string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		RequestID:   RequestIDFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	switch {
	case resp != nil:
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	case err != nil:
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = string(rejectedContent(err))
	}

	// Cancelled calls are logged too.
	if logErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: recording %s call: %v\n", ev.Purpose, logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// rejectedContent returns what the model sent when the call failed after a
// response arrived.
func rejectedContent(err error) json.RawMessage {
	if inv, ok := asInvalid(err); ok {
		return inv.Content
	}
	if mt, ok := asTruncated(err); ok {
		return mt.Content
	}
	return nil
}

// describeRequest renders req as the plain-text transcript kept in the
// event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
