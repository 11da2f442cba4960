package skilldesc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanGF7/SkillsTracker/internal/llm"
)

func noRetry() Config {
	cfg := DefaultConfig()
	cfg.Retry = llm.RetryConfig{MaxAttempts: 1}
	return cfg
}

func TestDescribe_FromModel(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"description": "Capacidad de negociar acuerdos",
		"keyPoints": ["Escuchar", "Proponer"],
		"examples": ["Negociar un plazo"]
	}`)})
	s := New(mock, noRetry())

	d, err := s.Describe(context.Background(), "  Negociación ")
	require.NoError(t, err)
	assert.False(t, d.Fallback)
	assert.Equal(t, "Capacidad de negociar acuerdos", d.Description)
	assert.Len(t, d.KeyPoints, 2)

	req := mock.Calls[0]
	assert.Equal(t, Schema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, `"Negociación"`)
}

func TestDescribe_FallbackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	s := New(mock, noRetry())

	d, err := s.Describe(context.Background(), "Asertividad")
	require.NoError(t, err)
	assert.True(t, d.Fallback)
	assert.Contains(t, d.Description, "La asertividad es una habilidad fundamental")
	assert.Len(t, d.KeyPoints, 4)
	assert.Len(t, d.Examples, 3)
}

func TestDescribe_RetriesTransientErrors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(`{"description":"d","keyPoints":["k"],"examples":["e"]}`)},
	)
	cfg := DefaultConfig()
	cfg.Retry = llm.RetryConfig{MaxAttempts: 2, Multiplier: 1}
	s := New(mock, cfg)

	d, err := s.Describe(context.Background(), "Paciencia")
	require.NoError(t, err)
	assert.False(t, d.Fallback)
	assert.Equal(t, 2, mock.CallCount())
}

func TestDescribe_EmptyName(t *testing.T) {
	s := New(llm.NewMockProvider(), noRetry())
	_, err := s.Describe(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestFallback_Generic(t *testing.T) {
	d := Fallback("Paciencia")
	assert.True(t, d.Fallback)
	assert.Contains(t, d.Description, "paciencia es una habilidad esencial")
	assert.Equal(t, "Practicar paciencia en diferentes situaciones y contextos", d.KeyPoints[1])
}
