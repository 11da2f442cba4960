package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		aliases map[string]string
		in      string
		want    string
	}{
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-20250514"},
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-opus-4-5", "claude-opus-4-5"},
		{geminiModels, "gemini-flash", "gemini-2.0-flash"},
		{geminiModels, "gemini-2.5-pro", "gemini-2.5-pro"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.in, tt.aliases), tt.in)
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"deepseek-chat", &ModelCost{0.27, 1.1}},
		{"deepseek/deepseek-chat", &ModelCost{0.27, 1.1}},
		{"gpt-4o-2024-11-20", &ModelCost{2.5, 10}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"claude-sonnet-4-20250514", &ModelCost{3, 15}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"llama-3-70b", nil},
		{"mock", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LookupCost(tt.model), tt.model)
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := LookupCost("deepseek-chat")
	require.NotNil(t, c)
	assert.InDelta(t, 0.27+1.1, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 0.000135+0.00011, c.Cost(500, 100), 1e-12)
}
