package completion

import (
	"context"
	"sync"
)

// MockProvider is an in-memory Provider for testing
type MockProvider struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

// NewMockProvider returns a provider that always answers with text
func NewMockProvider(text string) *MockProvider {
	return &MockProvider{text: text}
}

// NewFailingMockProvider returns a provider that always fails with err
func NewFailingMockProvider(err error) *MockProvider {
	return &MockProvider{err: err}
}

// Complete implements Provider.Complete
func (m *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", &ProviderError{Provider: "mock", Model: "mock", Err: m.err}
	}
	return m.text, nil
}

// Prompts returns every prompt received so far
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns the number of Complete calls
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
