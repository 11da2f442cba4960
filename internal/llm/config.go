package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects a backend and carries the settings of every backend, so
// switching Provider needs no other change.
type Config struct {
	// Provider is one of Providers().
	Provider string

	DeepSeek   DeepSeekConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single provider call. Zero disables it.
	Timeout time.Duration
}

type DeepSeekConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// JSONMode asks for a bare JSON object instead of a strict schema.
	JSONMode bool
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig shapes the exponential backoff used by WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses DeepSeek, the backend the hosted deployment runs on.
func DefaultConfig() Config {
	return Config{
		Provider:   "deepseek",
		DeepSeek:   DeepSeekConfig{Model: "deepseek-chat", BaseURL: defaultDeepSeekBaseURL},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "deepseek/deepseek-chat", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// backendFields points at the settings of one backend inside a Config.
// baseURL is nil for backends without an endpoint override.
type backendFields struct {
	apiKey, model, baseURL *string
}

func (c *Config) backend(name string) (backendFields, bool) {
	switch name {
	case "deepseek":
		return backendFields{&c.DeepSeek.APIKey, &c.DeepSeek.Model, &c.DeepSeek.BaseURL}, true
	case "anthropic":
		return backendFields{&c.Anthropic.APIKey, &c.Anthropic.Model, nil}, true
	case "openai":
		return backendFields{&c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL}, true
	case "gemini":
		return backendFields{&c.Gemini.APIKey, &c.Gemini.Model, &c.Gemini.BaseURL}, true
	case "openrouter":
		return backendFields{&c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL}, true
	}
	return backendFields{}, false
}

var providerNames = []string{"anthropic", "deepseek", "gemini", "mock", "openai", "openrouter"}

// Providers lists the accepted values of Config.Provider.
func Providers() []string {
	return append([]string(nil), providerNames...)
}

// envPrefix is SKILLSTRACKER_<BACKEND>_.
func envPrefix(name string) string {
	return "SKILLSTRACKER_" + strings.ToUpper(name) + "_"
}

// vendorKeyEnv is the variable the vendor's own tooling reads, e.g.
// DEEPSEEK_API_KEY. It is honoured below the SKILLSTRACKER_ one.
func vendorKeyEnv(name string) string {
	return strings.ToUpper(name) + "_API_KEY"
}

// ConfigFromEnv is DefaultConfig with ApplyEnv on top.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays the environment onto cfg. For each backend it reads
// <VENDOR>_API_KEY and then SKILLSTRACKER_<VENDOR>_API_KEY, _MODEL and
// _BASE_URL.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if dst == nil {
			return
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "SKILLSTRACKER_LLM_PROVIDER")
	for _, name := range providerNames {
		f, ok := cfg.backend(name)
		if !ok {
			continue
		}
		prefix := envPrefix(name)
		set(f.apiKey, vendorKeyEnv(name))
		set(f.apiKey, prefix+"API_KEY")
		set(f.model, prefix+"MODEL")
		set(f.baseURL, prefix+"BASE_URL")
	}

	if v := os.Getenv("SKILLSTRACKER_LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring SKILLSTRACKER_LLM_TIMEOUT=%q: %v\n", v, err)
			return
		}
		cfg.Timeout = d
	}
}

// SetModel overrides the model of the selected backend. It does nothing
// for the mock backend.
func (c *Config) SetModel(model string) {
	if f, ok := c.backend(c.Provider); ok {
		*f.model = model
	}
}

// Configured reports whether Validate passes.
func (c Config) Configured() bool {
	return c.Validate() == nil
}

// Validate checks that Provider is known and has an API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	f, ok := c.backend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider %q (want one of %s)", c.Provider, strings.Join(Providers(), ", "))
	}
	if *f.apiKey == "" {
		return fmt.Errorf("%s or %sAPI_KEY is required for the %s provider",
			vendorKeyEnv(c.Provider), envPrefix(c.Provider), c.Provider)
	}
	return nil
}
