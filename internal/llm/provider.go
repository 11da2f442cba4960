// Package llm talks to chat-completion backends and returns schema-checked
// JSON. Providers are composed with decorators for timeouts, retries and
// event logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response per call.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set, Content has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// DefaultMaxTokens applies when a Request leaves MaxTokens at zero.
const DefaultMaxTokens = 1024

// Request is a single-turn prompt.
type Request struct {
	// System is the role statement sent ahead of the conversation.
	System string

	// Messages holds the conversation; usually one user message.
	Messages []Message

	// Schema, when set, asks for JSON matching it and enables validation.
	// A nil Schema returns the raw text.
	Schema *Schema

	// MaxTokens bounds the response length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the backend default.
	Temperature float64
}

// maxTokens returns the effective token budget.
func (r Request) maxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name identifies the contract, e.g. "standard-challenge". Backends
	// that name their structured output use it as is.
	Name string

	// Description tells the model what the document represents.
	Description string

	// Definition is the JSON Schema itself.
	Definition map[string]any
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the model output for one Request.
type Response struct {
	// Content is the JSON document, or the raw text when no Schema was
	// requested.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the call, which can differ
	// from ModelID for routed backends.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
