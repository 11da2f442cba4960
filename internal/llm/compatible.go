package llm

import "fmt"

const (
	defaultDeepSeekBaseURL   = "https://api.deepseek.com/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// NewDeepSeekProvider targets the DeepSeek chat completions endpoint. The
// default model is deepseek-chat.
func NewDeepSeekProvider(cfg DeepSeekConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("deepseek", cfg.APIKey, orDefault(cfg.Model, "deepseek-chat"),
		orDefault(cfg.BaseURL, defaultDeepSeekBaseURL))
}

// NewOpenRouterProvider targets OpenRouter. Routed models differ in
// structured output support, so like DeepSeek it runs in JSON mode.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	return newCompatibleProvider("openrouter", cfg.APIKey, cfg.Model,
		orDefault(cfg.BaseURL, defaultOpenRouterBaseURL))
}

func newCompatibleProvider(name, apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	return NewOpenAIProvider(OpenAIConfig{APIKey: apiKey, Model: model, BaseURL: baseURL, JSONMode: true})
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
