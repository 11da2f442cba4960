package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("backend said no")

	err := classifyStatus(http.StatusTooManyRequests, 2*time.Second, cause)
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2*time.Second, rl.RetryAfter)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "LLM rate limit reached (retry after 2s): backend said no", err.Error())

	for _, status := range []int{0, http.StatusUnauthorized, http.StatusInternalServerError, http.StatusBadGateway} {
		var unavailable *ErrProviderUnavailable
		assert.ErrorAs(t, classifyStatus(status, 0, cause), &unavailable, "status %d", status)
	}

	wrapped := fmt.Errorf("post: %w", context.DeadlineExceeded)
	assert.Same(t, wrapped, classifyStatus(0, 0, wrapped))
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"7", 7 * time.Second},
		{" 3 ", 3 * time.Second},
		{"-1", 0},
		{"Wed, 21 Oct 2026 07:28:00 GMT", 0},
	}
	for _, tt := range tests {
		h := http.Header{}
		if tt.value != "" {
			h.Set("Retry-After", tt.value)
		}
		assert.Equal(t, tt.want, parseRetryAfter(h), tt.value)
	}
	assert.Zero(t, parseRetryAfter(nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "LLM rate limit reached", (&ErrRateLimit{}).Error())
	assert.Equal(t, "LLM provider unavailable", (&ErrProviderUnavailable{}).Error())
	assert.Equal(t, "invalid LLM response: bad", (&ErrInvalidResponse{Err: errors.New("bad")}).Error())
	assert.Contains(t, (&ErrMaxTokensExceeded{}).Error(), "truncated")
}

func TestDecodeContent(t *testing.T) {
	schema := &Schema{
		Name: "titled",
		Definition: map[string]any{
			"type":       "object",
			"properties": map[string]any{"title": map[string]any{"type": "string"}},
			"required":   []any{"title"},
		},
	}

	got, err := decodeContent(Request{Schema: schema}, "```json\n{\"title\":\"t\"}\n```", false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"t"}`, string(got))

	got, err = decodeContent(Request{}, "plain words", false)
	require.NoError(t, err)
	assert.Equal(t, "plain words", string(got))

	_, err = decodeContent(Request{Schema: schema}, "  ", false)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)

	_, err = decodeContent(Request{Schema: schema}, `{"title":"cu`, true)
	var mt *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &mt)
	assert.Equal(t, `{"title":"cu`, string(mt.Content))

	_, err = decodeContent(Request{Schema: schema}, `{"name":"x"}`, false)
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, `{"name":"x"}`, string(inv.Content))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"```json {\"a\":1} ```", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), tt.in)
	}
}
