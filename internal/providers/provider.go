// Package providers holds the generation backends the correction loop can
// call, a config-driven registry, and per-backend rate limiting.
package providers

import (
	"context"
)

// Message is one entry of a chat-style prompt.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// GenerateRequest asks a backend for one completion.
type GenerateRequest struct {
	// Model selection (backend default if empty).
	Model string `json:"model,omitempty"`

	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`

	// RequestID correlates log lines across retries. Backends assign one if
	// empty.
	RequestID string `json:"-"`
}

// Generator is the capability the correction loop consumes. Generate returns
// the backend's payload in whatever shape the backend produces — a plain
// string or a decoded response object; the normalizer locates the text. Any
// returned error is a backend failure (network, auth, timeout, cancellation)
// and is fatal to the extraction.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (any, error)

	// Name returns the backend identifier (e.g. "openrouter").
	Name() string
}
