package store

import (
	"context"
	"time"
)

// QueryOpts filters QueryLLMEvents. Zero values match everything.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	Purpose   string    // exact purpose match ("" = any)
	RequestID string    // exact request id match ("" = any)
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
}

// LLMRequestEventData is one backend call as seen by the logging provider.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	RequestID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates calls for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage per model for cost estimation.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest stores one call. The timestamp is taken by the repo.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates calls per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)

	// LLMUsageByModel aggregates successful token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// PruneLLMEvents deletes events older than before and returns how many
	// were removed.
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}
