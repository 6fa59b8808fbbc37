package engine

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a test implementation of the llm.Client interface. Replies
// and errors are keyed by a substring of the prompt (usually the column
// name), so tests get deterministic per-row behavior.
type MockClient struct {
	Replies map[string]string
	Errors  map[string]error
	Default string

	calls []string
	mu    sync.Mutex
}

// Enrich returns the canned reply or error whose key appears in the prompt.
func (m *MockClient) Enrich(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, prompt)

	for key, err := range m.Errors {
		if strings.Contains(prompt, key) {
			return "", err
		}
	}
	for key, reply := range m.Replies {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	return m.Default, nil
}

// Calls returns the prompts received so far.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}
