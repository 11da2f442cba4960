package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openAIStub serves one canned chat completion and keeps the last request
// body.
type openAIStub struct {
	status  int
	header  http.Header
	reply   any
	lastReq map[string]any
}

func (s *openAIStub) provider(t *testing.T, jsonMode bool) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&s.lastReq)
		for k, v := range s.header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		if s.status != 0 {
			w.WriteHeader(s.status)
		}
		_ = json.NewEncoder(w).Encode(s.reply)
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "deepseek-chat", BaseURL: srv.URL + "/v1", JSONMode: jsonMode})
	require.NoError(t, err)
	return p
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1767225600,
		"model":   "deepseek-chat",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func apiError(kind, msg string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": msg}}
}

var titleSchema = &Schema{
	Name:        "titled",
	Description: "An object with a title",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"title": map[string]any{"type": "string"}},
		"required":   []any{"title"},
	},
}

func TestOpenAIProvider_JSONMode(t *testing.T) {
	stub := &openAIStub{reply: completion("```json\n{\"title\":\"Escucha activa\"}\n```", "stop")}
	p := stub.provider(t, true)

	resp, err := p.Generate(context.Background(), Request{
		System:      "Eres un experto.",
		Messages:    []Message{{Role: RoleUser, Content: "Genera un reto."}},
		Schema:      titleSchema,
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Escucha activa"}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "deepseek-chat", resp.Model)

	assert.Equal(t, map[string]any{"type": "json_object"}, stub.lastReq["response_format"])
	assert.EqualValues(t, 1000, stub.lastReq["max_tokens"])
	assert.NotContains(t, stub.lastReq, "max_completion_tokens")
	assert.Len(t, stub.lastReq["messages"], 2)
}

func TestOpenAIProvider_StrictSchema(t *testing.T) {
	stub := &openAIStub{reply: completion(`{"title":"x"}`, "stop")}
	p := stub.provider(t, false)

	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "x"}},
		Schema:   titleSchema,
	})
	require.NoError(t, err)

	format, _ := stub.lastReq["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	js, _ := format["json_schema"].(map[string]any)
	assert.Equal(t, "titled", js["name"])
	assert.Equal(t, true, js["strict"])
	assert.EqualValues(t, DefaultMaxTokens, stub.lastReq["max_completion_tokens"])
	assert.Len(t, stub.lastReq["messages"], 1)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stub  *openAIStub
		check func(t *testing.T, err error)
	}{
		{
			name: "schema violation",
			stub: &openAIStub{reply: completion(`{"name":"no title"}`, "stop")},
			check: func(t *testing.T, err error) {
				var inv *ErrInvalidResponse
				assert.ErrorAs(t, err, &inv)
			},
		},
		{
			name: "empty content",
			stub: &openAIStub{reply: completion("", "stop")},
			check: func(t *testing.T, err error) {
				var inv *ErrInvalidResponse
				assert.ErrorAs(t, err, &inv)
			},
		},
		{
			name: "truncated",
			stub: &openAIStub{reply: completion(`{"title":"cut`, string(openai.FinishReasonLength))},
			check: func(t *testing.T, err error) {
				var mt *ErrMaxTokensExceeded
				assert.ErrorAs(t, err, &mt)
			},
		},
		{
			name: "rate limited",
			stub: &openAIStub{status: http.StatusTooManyRequests, reply: apiError("tokens", "Rate limit exceeded")},
			check: func(t *testing.T, err error) {
				var rl *ErrRateLimit
				assert.ErrorAs(t, err, &rl)
			},
		},
		{
			name: "server error",
			stub: &openAIStub{status: http.StatusInternalServerError, reply: apiError("server_error", "boom")},
			check: func(t *testing.T, err error) {
				var unavailable *ErrProviderUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
		{
			name: "bad key",
			stub: &openAIStub{status: http.StatusUnauthorized, reply: apiError("invalid_request_error", "Authentication Fails")},
			check: func(t *testing.T, err error) {
				var unavailable *ErrProviderUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stub.provider(t, true).Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "x"}},
				Schema:   titleSchema,
			})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
}
