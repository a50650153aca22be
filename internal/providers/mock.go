package providers

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const MockName = "mock"

// MockGenerator is a Generator for testing. Responses are served from the
// script in order; the last entry repeats once the script is exhausted.
type MockGenerator struct {
	// Configurable behavior.
	Latency    time.Duration
	Err        error // returned from every call when set
	FailAfter  int   // fail after N requests (0 = never)
	Responses  []any // raw payloads in any normalizer-accepted shape

	mu       sync.Mutex
	requests []GenerateRequest
}

// NewMockGenerator creates a mock that always answers with text.
func NewMockGenerator(responses ...any) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

// Name returns the backend identifier.
func (m *MockGenerator) Name() string {
	return MockName
}

// Generate serves the next scripted response.
func (m *MockGenerator) Generate(ctx context.Context, req *GenerateRequest) (any, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	count := len(m.requests)
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.Err != nil {
		return nil, m.Err
	}
	if m.FailAfter > 0 && count > m.FailAfter {
		return nil, fmt.Errorf("mock backend failed after %d requests", m.FailAfter)
	}
	if len(m.Responses) == 0 {
		return "mock response", nil
	}

	i := count - 1
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}

// Requests returns a copy of every request seen so far.
func (m *MockGenerator) Requests() []GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GenerateRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of Generate calls made.
func (m *MockGenerator) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

var _ Generator = (*MockGenerator)(nil)
