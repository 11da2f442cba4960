package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanGF7/SkillsTracker/internal/store"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	mock.Enqueue(MockResponse{Content: json.RawMessage(`{"n":3}`)})
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, StopEnd, first.StopReason)
	assert.Equal(t, "mock", first.Model)

	_, err = mock.Generate(ctx, Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	third, err := mock.Generate(ctx, Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3}`, string(third.Content))

	_, err = mock.Generate(ctx, Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	assert.Equal(t, 4, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
}

func TestMockProvider_CanceledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, RequestIDFrom(ctx))

	ctx = WithRequestID(WithPurpose(ctx, PurposeChallenge), "01J0REQ")
	assert.Equal(t, "challenge-gen", PurposeFrom(ctx))
	assert.Equal(t, "01J0REQ", RequestIDFrom(ctx))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(ctx, "")))
}

func TestRequest_MaxTokensDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, Request{}.maxTokens())
	assert.Equal(t, 300, Request{MaxTokens: 300}.maxTokens())
}

// blockingProvider waits for the context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "blocking", p.ModelID())

	mock := NewMockProvider()
	assert.Same(t, mock, WithTimeout(mock, 0))
}

// recordingRepo keeps appended events in memory.
type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return nil
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"x"}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"nope":1}`), Err: errors.New("missing title")}},
	)
	p := WithLogging(mock, "deepseek", repo)
	ctx := WithRequestID(WithPurpose(context.Background(), PurposeChallenge), "req-42")
	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "Genera un reto"}},
		Schema:   &Schema{Name: "standard-challenge", Definition: map[string]any{"type": "object"}},
	}

	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, repo.events, 3)
	ok, down, invalid := repo.events[0], repo.events[1], repo.events[2]

	assert.True(t, ok.Success)
	assert.Equal(t, "deepseek", ok.Provider)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, "challenge-gen", ok.Purpose)
	assert.Equal(t, "req-42", ok.RequestID)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, `{"title":"x"}`, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")
	assert.Contains(t, ok.RequestBody, "[user]\nGenera un reto")
	assert.Contains(t, ok.RequestBody, `[schema: standard-challenge]`)

	assert.False(t, down.Success)
	assert.Contains(t, down.ErrorMessage, "down")
	assert.Empty(t, down.ResponseBody)

	assert.False(t, invalid.Success)
	assert.Equal(t, `{"nope":1}`, invalid.ResponseBody)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)

	cfg := DefaultConfig()
	cfg.DeepSeek.APIKey = "sk-test"
	p, err = NewProvider(context.Background(), cfg, &recordingRepo{})
	require.NoError(t, err)
	assert.IsType(t, &LoggingProvider{}, p)
	assert.Equal(t, "deepseek-chat", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "bard"}, nil)
	assert.ErrorContains(t, err, "unknown LLM provider")

	_, err = NewProvider(context.Background(), Config{Provider: "anthropic"}, nil)
	assert.ErrorContains(t, err, "API key is required")
}

func TestCompatibleProviders(t *testing.T) {
	ds, err := NewDeepSeekProvider(DeepSeekConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek-chat", ds.ModelID())
	assert.True(t, ds.jsonMode)

	or, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "deepseek/deepseek-chat"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek/deepseek-chat", or.ModelID())
	assert.True(t, or.jsonMode)

	_, err = NewDeepSeekProvider(DeepSeekConfig{})
	assert.ErrorContains(t, err, "deepseek API key is required")
	_, err = NewOpenRouterProvider(OpenRouterConfig{})
	assert.ErrorContains(t, err, "openrouter API key is required")
}
