package llm

import (
	"context"
	"fmt"

	"github.com/EthanGF7/SkillsTracker/internal/store"
)

// NewProvider builds the backend selected by cfg.Provider. Each call is
// bounded by cfg.Timeout and, when events is non-nil, recorded there.
// Retries are not added; callers wrap the result with WithRetry.
//
// The "mock" backend has an empty script, so every call fails as
// unavailable and callers take their fallback path.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	base, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	if cfg.Provider == "mock" {
		return base, nil
	}

	p := WithTimeout(base, cfg.Timeout)
	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	return p, nil
}

func newBackend(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "deepseek":
		return NewDeepSeekProvider(cfg.DeepSeek)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
