package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted answer. A non-nil Err is returned instead
// of a Response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

var errMockExhausted = errors.New("mock provider has no scripted responses left")

// MockProvider replays scripted responses in order and keeps every Request
// it received in Calls. Once the script runs out it behaves like a backend
// that is down. It is the "mock" provider, which makes every AI feature
// fall back.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: m.ModelID(), StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// Enqueue appends responses to the script.
func (m *MockProvider) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, responses...)
	m.mu.Unlock()
}

// CallCount returns how many times Generate ran.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
